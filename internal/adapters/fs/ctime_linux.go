//go:build linux

package fs

import (
	iofs "io/fs"
	"syscall"
	"time"
)

// changeTime returns the inode change time recorded by the kernel.
func changeTime(info iofs.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	// Cast to int64 for 32-bit platforms where Ctim fields are int32.
	//nolint:unconvert
	return time.Unix(int64(stat.Ctim.Sec), int64(stat.Ctim.Nsec)), true
}
