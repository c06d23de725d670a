package domain

import (
	"errors"
	"strings"

	"go.trai.ch/zerr"
)

// Reason explains a Verdict.
type Reason string

const (
	// ReasonFresh means no source file nor the folder changed after the artifact.
	ReasonFresh Reason = "fresh"
	// ReasonArtifactMissing means no compiled artifact exists for the source.
	ReasonArtifactMissing Reason = "artifact-missing"
	// ReasonSourcesModified means a file in the source folder is newer than the artifact.
	ReasonSourcesModified Reason = "sources-modified"
	// ReasonFolderModified means the source folder itself is newer than the artifact,
	// typically because an entry was added or removed.
	ReasonFolderModified Reason = "folder-modified"
)

// Verdict is the staleness decision for one source file.
type Verdict struct {
	Rule     string `json:"rule,omitzero"`
	Source   string `json:"source"`
	Stale    bool   `json:"stale"`
	Reason   Reason `json:"reason"`
	Artifact string `json:"artifact,omitzero"`
}

// TimestampSource selects which file timestamp is compared.
type TimestampSource uint8

const (
	// TimestampModTime compares the modification time.
	TimestampModTime TimestampSource = iota
	// TimestampChangeTime compares the inode change time where the platform provides it.
	TimestampChangeTime
)

// ParseTimestampSource parses "mtime" or "ctime". The empty string yields mtime.
func ParseTimestampSource(s string) (TimestampSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mtime":
		return TimestampModTime, nil
	case "ctime":
		return TimestampChangeTime, nil
	default:
		return 0, errors.Join(ErrInvalidTimestampSource, zerr.With(zerr.New("unknown timestamp source"), "timestamp", s))
	}
}

// String returns the config spelling of the source.
func (s TimestampSource) String() string {
	if s == TimestampChangeTime {
		return "ctime"
	}
	return "mtime"
}

// MissingPolicy decides what a missing compiled artifact means.
type MissingPolicy uint8

const (
	// MissingStale treats a missing artifact as stale.
	MissingStale MissingPolicy = iota
	// MissingError reports a missing artifact as ErrArtifactMissing.
	MissingError
)

// ParseMissingPolicy parses "stale" or "error". The empty string yields stale.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stale":
		return MissingStale, nil
	case "error":
		return MissingError, nil
	default:
		return 0, errors.Join(ErrInvalidMissingPolicy, zerr.With(zerr.New("unknown missing policy"), "missing", s))
	}
}

// String returns the config spelling of the policy.
func (p MissingPolicy) String() string {
	if p == MissingError {
		return "error"
	}
	return "stale"
}
