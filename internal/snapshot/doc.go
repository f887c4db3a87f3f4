// Package snapshot assembles and encodes the per-cycle wire message.
//
// A snapshot is a Unix-millisecond timestamp plus the registry's sorted
// device list, encoded as compact JSON:
//
//	{"ts":1700000000000,"trackers":[{"id":0,"tracked":true,"seen":true,
//	 "position":{"x":0,"y":1.7,"z":0},"rotation":{"w":1,"x":0,"y":0,"z":0},
//	 "class":"HMD"}]}
//
// Field order is fixed by the struct definitions, so the encoding never
// depends on map iteration. Non-finite numbers are rejected with
// ErrNonFinite rather than emitted.
package snapshot
