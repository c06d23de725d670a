//go:build darwin

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
	return time.Unix(stat.Ctimespec.Sec, stat.Ctimespec.Nsec), true
}
