package domain

import (
	"errors"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// SourceFile is a file considered for recompilation.
type SourceFile struct {
	// Path is the path as given by the caller.
	Path string
	// Ext is the extension including the leading dot, or empty.
	Ext string
	// Name is the base name without the extension.
	Name string
}

// NewSourceFile derives the extension and base name of path.
func NewSourceFile(path string) SourceFile {
	ext := filepath.Ext(path)
	return SourceFile{
		Path: path,
		Ext:  ext,
		Name: strings.TrimSuffix(filepath.Base(path), ext),
	}
}

// ParentDirectory is the folder containing a source file.
type ParentDirectory struct {
	// Name is the immediate containing folder's name.
	Name string
	// Dir is the full path of the containing folder.
	Dir string
}

// ResolveParentDirectory splits filePath on the platform separator and returns the
// second-to-last segment as the name and every segment but the last as the dir.
// No filesystem access is performed.
func ResolveParentDirectory(filePath string) (ParentDirectory, error) {
	segments := strings.Split(filePath, string(filepath.Separator))
	if len(segments) < 2 {
		return ParentDirectory{}, errors.Join(ErrNoParentDirectory, zerr.With(zerr.New("single path segment"), "path", filePath))
	}

	return ParentDirectory{
		Name: segments[len(segments)-2],
		Dir:  strings.Join(segments[:len(segments)-1], string(filepath.Separator)),
	}, nil
}

// Overrides replaces the directory-derived parent name and dir.
// A nil field keeps the default behavior.
type Overrides struct {
	// ParentName receives the source path and returns the parent name to use.
	ParentName func(path string) string
	// ParentDir receives the (possibly overridden) parent name and returns the directory to scan.
	ParentDir func(parentName string) string
}

// ResolveParent computes the parent directory of source, applying the overrides.
// A path without a parent segment is only an error when no override fills the gap.
func (o Overrides) ResolveParent(source SourceFile) (ParentDirectory, error) {
	parent, err := ResolveParentDirectory(source.Path)
	if err != nil && (o.ParentName == nil || o.ParentDir == nil) {
		return ParentDirectory{}, errors.Join(ErrInvalidTemplate, err)
	}

	if o.ParentName != nil {
		parent.Name = o.ParentName(source.Path)
	}
	if o.ParentDir != nil {
		parent.Dir = o.ParentDir(parent.Name)
	}

	return parent, nil
}
