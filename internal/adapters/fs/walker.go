// Package fs provides file system adapters for walking, globbing and stat'ing files.
package fs

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"github.com/woozymasta/pathrules"
	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/zerr"
)

// Walker provides file walking functionality.
type Walker struct {
	ignore *pathrules.Matcher
}

// NewWalker creates a new Walker that skips entries matched by the gitignore-like ignore rules.
func NewWalker(ignore []string) (*Walker, error) {
	rules, err := pathrules.ParseRulesString(strings.Join(ignore, "\n"))
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidIgnoreRule, zerr.Wrap(err, "failed to parse ignore rules"))
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{})
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidIgnoreRule, zerr.Wrap(err, "failed to compile ignore rules"))
	}

	return &Walker{ignore: matcher}, nil
}

// WalkFiles yields all files below root.
// Dot-prefixed entries (.git and .jj among them) and ignored entries are skipped.
// A symlinked root is followed; yielded paths stay under root as given.
// A walk error is yielded once with an empty path and ends the iteration.
func (w *Walker) WalkFiles(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resolved, err := filepath.EvalSymlinks(root)
		if err != nil {
			yield("", err)
			return
		}

		stopped := false
		err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path == resolved {
				return nil
			}

			rel, err := filepath.Rel(resolved, path)
			if err != nil {
				return err
			}

			if w.shouldSkip(rel, d) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				return nil
			}

			if !yield(filepath.Join(root, rel), nil) {
				stopped = true
				return filepath.SkipAll
			}

			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

// shouldSkip reports whether the entry at rel is hidden or excluded by the ignore rules.
func (w *Walker) shouldSkip(rel string, d fs.DirEntry) bool {
	if strings.HasPrefix(d.Name(), ".") {
		return true
	}

	return w.ignore.Excluded(filepath.ToSlash(rel), d.IsDir())
}
