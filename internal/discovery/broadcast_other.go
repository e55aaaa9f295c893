//go:build !unix

package discovery

import "syscall"

func enableBroadcast(_, _ string, _ syscall.RawConn) error {
	return nil
}
