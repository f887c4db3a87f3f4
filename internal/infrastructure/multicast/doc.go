// Package multicast sends snapshot datagrams to an IPv4 multicast group.
//
// A Publisher binds the group port on all interfaces with SO_REUSEADDR,
// so any number of local listeners can share it, enables multicast
// loopback so same-host consumers receive the traffic, and joins the
// group. Broadcast is best effort: one datagram, no retry, no
// acknowledgement.
//
// Usage:
//
//	pub, err := multicast.New(ctx, multicast.Config{Address: "239.255.42.98:50692"})
//	if err != nil {
//	    return err
//	}
//	defer pub.Close()
//
//	if err := pub.Broadcast(payload); err != nil {
//	    log.Warn("broadcast dropped", "error", err)
//	}
//
// The same socket can receive, which is how the listen command and the
// loopback tests consume the group:
//
//	n, from, err := pub.Receive(ctx, buf)
package multicast
