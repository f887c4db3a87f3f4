//go:build !unix && !windows

package multicast

import "syscall"

// reuseAddr is a no-op on platforms without socket options (js, wasip1, plan9).
func reuseAddr(_, _ string, _ syscall.RawConn) error {
	return nil
}
