// Package tracker drives the poll, ingest, encode and broadcast cycle.
//
// Each cycle:
//
//  1. polls the hardware session
//  2. ingests the poses into the device registry
//  3. stamps the wall clock (clamped so it never goes backwards)
//  4. takes a registry snapshot using the configured filter
//  5. encodes it and broadcasts one datagram
//  6. echoes the payload and queues it for every sink
//
// then waits Interval before the next cycle.
//
// Sinks run on their own goroutines. A sink that falls more than a few
// snapshots behind misses snapshots instead of delaying the broadcast; the
// misses are counted in Stats.SinkDrops. Queued snapshots are still handed
// over when Run returns.
//
// A poll error ends Run. Encode and broadcast errors drop the cycle. Echo
// and sink errors are logged and the cycle still counts as published.
// Cancelling the context stops the loop cleanly and Run returns nil.
package tracker
