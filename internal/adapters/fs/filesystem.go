package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem implements ports.FileSystem on the local disk.
type FileSystem struct {
	walker *Walker
	source domain.TimestampSource
}

// NewFileSystem creates a FileSystem reading the given timestamp source.
func NewFileSystem(walker *Walker, source domain.TimestampSource) *FileSystem {
	return &FileSystem{walker: walker, source: source}
}

// Timestamp returns the configured timestamp of path.
func (f *FileSystem) Timestamp(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, pathError(err, "failed to stat path", path)
	}
	return timestampOf(info, f.source), nil
}

// ListFiles returns every file below dir whose name ends with ext.
// An empty ext matches every file.
func (f *FileSystem) ListFiles(dir, ext string) ([]string, error) {
	var files []string
	for path, err := range f.walker.WalkFiles(dir) {
		if err != nil {
			return nil, pathError(err, "failed to list directory", dir)
		}
		if strings.HasSuffix(filepath.Base(path), ext) {
			files = append(files, path)
		}
	}
	return files, nil
}

// Glob returns the sorted paths matching pattern.
func (f *FileSystem) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidTemplate,
			zerr.With(zerr.Wrap(err, "failed to glob path"), "pattern", pattern))
	}
	sort.Strings(matches)
	return matches, nil
}

// pathError classifies err as a missing path or a general access failure.
func pathError(err error, msg, path string) error {
	wrapped := zerr.With(zerr.Wrap(err, msg), "path", path)
	if errors.Is(err, iofs.ErrNotExist) {
		return errors.Join(domain.ErrPathNotFound, wrapped)
	}
	return errors.Join(domain.ErrFilesystemAccess, wrapped)
}

// timestampOf picks the compared timestamp from info.
func timestampOf(info iofs.FileInfo, source domain.TimestampSource) time.Time {
	if source == domain.TimestampChangeTime {
		if t, ok := changeTime(info); ok {
			return t
		}
	}
	return info.ModTime()
}

// Factory creates FileSystem instances for a session.
type Factory struct{}

var _ ports.FileSystemFactory = (*Factory)(nil)

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// New builds a FileSystem honoring the ignore rules and timestamp source.
func (f *Factory) New(opts ports.FileSystemOptions) (ports.FileSystem, error) {
	walker, err := NewWalker(opts.Ignore)
	if err != nil {
		return nil, err
	}
	return NewFileSystem(walker, opts.Timestamp), nil
}
