// Package staleness decides whether compiled artifacts are older than their source folders.
package staleness

import (
	"errors"
	"time"

	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
	"go.trai.ch/zerr"
)

// Evaluator compares source folder timestamps against a reference timestamp.
type Evaluator struct {
	fs    ports.FileSystem
	cache *Cache
}

// NewEvaluator creates an Evaluator reading through fsys and memoizing into cache.
func NewEvaluator(fsys ports.FileSystem, cache *Cache) *Evaluator {
	return &Evaluator{fs: fsys, cache: cache}
}

// HaveOtherFilesBeenModified reports whether any file below dir whose name ends
// with ext has a timestamp strictly after ref. No matching files means false.
func (e *Evaluator) HaveOtherFilesBeenModified(dir, ext string, ref time.Time) (bool, error) {
	return e.cache.Do(FilesKey(dir, ext, ref), func() (bool, error) {
		files, err := e.fs.ListFiles(dir, ext)
		if err != nil {
			return false, accessError(err)
		}

		for _, file := range files {
			ts, err := e.fs.Timestamp(file)
			if err != nil {
				// Removed since listing; the folder timestamp covers deletions.
				if errors.Is(err, domain.ErrPathNotFound) {
					continue
				}
				return false, accessError(err)
			}
			if ts.After(ref) {
				return true, nil
			}
		}

		return false, nil
	})
}

// HasFolderBeenModified reports whether dir's own timestamp is strictly after ref.
// A folder's timestamp moves when entries are added or removed.
func (e *Evaluator) HasFolderBeenModified(dir string, ref time.Time) (bool, error) {
	return e.cache.Do(FolderKey(dir, ref), func() (bool, error) {
		ts, err := e.fs.Timestamp(dir)
		if err != nil {
			return false, accessError(err)
		}
		return ts.After(ref), nil
	})
}

// Glob expands pattern on the evaluator's filesystem. Results are not memoized.
func (e *Evaluator) Glob(pattern string) ([]string, error) {
	return e.fs.Glob(pattern)
}

// Invalidate clears the memoized answers.
func (e *Evaluator) Invalidate() {
	e.cache.Invalidate()
}

// compare runs both checks and reports the first reason the folder is newer than ref.
func (e *Evaluator) compare(dir, ext string, ref time.Time) (domain.Reason, error) {
	modified, err := e.HaveOtherFilesBeenModified(dir, ext, ref)
	if err != nil {
		return "", err
	}
	if modified {
		return domain.ReasonSourcesModified, nil
	}

	modified, err = e.HasFolderBeenModified(dir, ref)
	if err != nil {
		return "", err
	}
	if modified {
		return domain.ReasonFolderModified, nil
	}

	return domain.ReasonFresh, nil
}

// accessError marks err as a filesystem access failure.
func accessError(err error) error {
	if errors.Is(err, domain.ErrFilesystemAccess) {
		return err
	}
	return errors.Join(domain.ErrFilesystemAccess, zerr.Wrap(err, "failed to read source folder"))
}
