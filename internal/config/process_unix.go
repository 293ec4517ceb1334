//go:build !windows

package config

import "golang.org/x/sys/unix"

// processAlive reports whether pid exists. Signal 0 probes without
// delivering anything; EPERM still means the process is there.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
