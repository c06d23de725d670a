//go:build !linux && !darwin

package fs

import (
	iofs "io/fs"
	"time"
)

// changeTime is unavailable here; callers fall back to the modification time.
func changeTime(_ iofs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
