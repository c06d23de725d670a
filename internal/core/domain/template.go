package domain

import (
	"errors"
	"strings"

	"go.trai.ch/zerr"
)

// Template placeholders.
const (
	PlaceholderName    = ":name"
	PlaceholderDirname = ":dirname"
	PlaceholderExt     = ":ext"
)

// Template is a compiled artifact path containing placeholders.
type Template string

// String returns the raw template.
func (t Template) String() string {
	return string(t)
}

// Resolve substitutes the first occurrence of each placeholder, in the order
// :name, :dirname, :ext.
func (t Template) Resolve(source SourceFile, parent ParentDirectory) (string, error) {
	raw := string(t)
	if strings.TrimSpace(raw) == "" {
		return "", errors.Join(ErrInvalidTemplate, zerr.With(zerr.New("empty template"), "source", source.Path))
	}
	if strings.Contains(raw, PlaceholderDirname) && parent.Name == "" {
		return "", errors.Join(ErrInvalidTemplate,
			zerr.With(zerr.With(zerr.New("parent directory name is empty"), "template", raw), "source", source.Path))
	}

	resolved := strings.Replace(raw, PlaceholderName, source.Name, 1)
	resolved = strings.Replace(resolved, PlaceholderDirname, parent.Name, 1)
	resolved = strings.Replace(resolved, PlaceholderExt, source.Ext, 1)

	return resolved, nil
}

// ResolveSource resolves the parent directory of source with the overrides applied,
// then the template against it.
func (t Template) ResolveSource(source SourceFile, overrides Overrides) (string, ParentDirectory, error) {
	parent, err := overrides.ResolveParent(source)
	if err != nil {
		return "", ParentDirectory{}, err
	}

	if parent.Dir == "" {
		return "", ParentDirectory{}, errors.Join(ErrInvalidTemplate,
			zerr.With(zerr.New("parent directory is empty"), "source", source.Path))
	}

	resolved, err := t.Resolve(source, parent)
	if err != nil {
		return "", ParentDirectory{}, err
	}

	return resolved, parent, nil
}

// HasGlobMeta reports whether path contains characters filepath.Match treats specially.
func HasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[")
}
