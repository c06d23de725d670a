package ports

import (
	"time"

	"go.trai.ch/stale/internal/core/domain"
)

// FileSystem defines the read-only filesystem operations staleness checks need.
//
// Implementations report a missing path with domain.ErrPathNotFound and any
// other failure with domain.ErrFilesystemAccess.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Timestamp returns the configured timestamp (mtime or ctime) of path.
	Timestamp(path string) (time.Time, error)
	// ListFiles returns every file below dir whose name ends with ext, recursively.
	ListFiles(dir, ext string) ([]string, error)
	// Glob returns the sorted paths matching pattern. No match is not an error.
	Glob(pattern string) ([]string, error)
}

// FileSystemOptions configures a FileSystem for one session.
type FileSystemOptions struct {
	Timestamp domain.TimestampSource
	// Ignore holds gitignore-like rules applied while listing files.
	Ignore []string
}

// FileSystemFactory creates FileSystem instances configured per session.
type FileSystemFactory interface {
	New(opts FileSystemOptions) (FileSystem, error)
}
