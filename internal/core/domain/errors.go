package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidTemplate is returned when a compiled path template cannot be resolved for a source file.
	ErrInvalidTemplate = zerr.New("invalid compiled path template")

	// ErrNoParentDirectory is returned when a path has no parent directory segment.
	ErrNoParentDirectory = zerr.New("path has no parent directory")

	// ErrFilesystemAccess is returned when a stat, list or glob operation fails for reasons
	// other than the path not existing.
	ErrFilesystemAccess = zerr.New("filesystem access failed")

	// ErrPathNotFound is returned when a path that was stat'ed does not exist.
	ErrPathNotFound = zerr.New("path not found")

	// ErrArtifactMissing is returned when a compiled artifact does not exist and the
	// missing policy is "error".
	ErrArtifactMissing = zerr.New("compiled artifact missing")

	// ErrInvalidTimestampSource is returned when a timestamp source is neither "mtime" nor "ctime".
	ErrInvalidTimestampSource = zerr.New("invalid timestamp source, expected 'mtime' or 'ctime'")

	// ErrInvalidMissingPolicy is returned when a missing policy is neither "stale" nor "error".
	ErrInvalidMissingPolicy = zerr.New("invalid missing policy, expected 'stale' or 'error'")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file does not exist.
	ErrConfigNotFound = zerr.New("could not find config file")

	// ErrInvalidRule is returned when a rule definition is incomplete or malformed.
	ErrInvalidRule = zerr.New("invalid rule")

	// ErrRuleNotFound is returned when a requested rule is not defined in the config.
	ErrRuleNotFound = zerr.New("rule not found")

	// ErrInvalidIgnoreRule is returned when an ignore pattern cannot be compiled.
	ErrInvalidIgnoreRule = zerr.New("invalid ignore rule")

	// ErrNoSourcesMatched is returned when a rule's source patterns match no files.
	ErrNoSourcesMatched = zerr.New("no source files matched")

	// ErrStaleSources is returned by check when at least one source is stale and the
	// caller asked for a failing exit status.
	ErrStaleSources = zerr.New("stale sources found")
)
