// Package config provides the configuration loader for stale.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

var validRuleNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the rules at path. When path is a directory, stale.yaml is
// searched for in it and then in each parent directory.
func (l *Loader) Load(path string) (*domain.Config, error) {
	configPath, err := findConfiguration(path)
	if err != nil {
		return nil, err
	}

	var stalefile Stalefile
	if err := readAndUnmarshalYAML(configPath, &stalefile); err != nil {
		return nil, err
	}

	return l.buildConfig(configPath, &stalefile)
}

func findConfiguration(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errors.Join(domain.ErrConfigNotFound, zerr.With(zerr.New("config path does not exist"), "path", path))
		}
		return "", errors.Join(domain.ErrConfigReadFailed, zerr.With(zerr.Wrap(err, "failed to stat config path"), "path", path))
	}
	if !info.IsDir() {
		return path, nil
	}

	currentDir, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Join(domain.ErrConfigReadFailed, zerr.Wrap(err, "failed to resolve config directory"))
	}

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", errors.Join(domain.ErrConfigNotFound,
		zerr.With(zerr.With(zerr.New("no config file in directory or its parents"), "file", domain.ConfigFileName), "cwd", path))
}

func (l *Loader) buildConfig(configPath string, stalefile *Stalefile) (*domain.Config, error) {
	timestamp, err := domain.ParseTimestampSource(stalefile.Timestamp)
	if err != nil {
		return nil, errors.Join(err, zerr.With(zerr.New("invalid timestamp setting"), "config", configPath))
	}

	cfg := domain.NewConfig(resolveRoot(configPath, stalefile.Root))
	cfg.Timestamp = timestamp
	cfg.Ignore = slices.Clone(stalefile.Ignore)

	if len(stalefile.Rules) == 0 {
		l.Logger.Warn(fmt.Sprintf("%s defines no rules", configPath))
	}

	for name, dto := range stalefile.Rules {
		rule, err := buildRule(cfg.Root, name, dto)
		if err != nil {
			return nil, err
		}

		if rule.Glob && !domain.HasGlobMeta(rule.Template.String()) {
			l.Logger.Warn(fmt.Sprintf("rule %q enables glob but %q has no glob characters", name, dto.Compiled))
		}

		cfg.AddRule(rule)
	}

	return cfg, nil
}

func buildRule(root, name string, dto RuleDTO) (*domain.Rule, error) {
	if err := validateRuleName(name); err != nil {
		return nil, err
	}

	if dto.Compiled == "" {
		return nil, invalidRule(name, "compiled path is required")
	}
	if len(dto.Sources) == 0 {
		return nil, invalidRule(name, "at least one source pattern is required")
	}

	missing, err := domain.ParseMissingPolicy(dto.Missing)
	if err != nil {
		return nil, errors.Join(err, zerr.With(zerr.New("invalid missing policy"), "rule", name))
	}

	sources := make([]string, 0, len(dto.Sources))
	for _, pattern := range dto.Sources {
		if pattern == "" {
			return nil, invalidRule(name, "source pattern is empty")
		}
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, errors.Join(domain.ErrInvalidRule,
				zerr.With(zerr.With(zerr.Wrap(err, "malformed source pattern"), "pattern", pattern), "rule", name))
		}
		sources = append(sources, resolvePath(root, pattern))
	}

	rule := &domain.Rule{
		Name:       name,
		Sources:    sources,
		Template:   domain.Template(resolvePath(root, dto.Compiled)),
		Glob:       dto.Glob,
		Missing:    missing,
		ParentName: dto.ParentName,
	}
	if dto.ParentDir != "" {
		rule.ParentDir = resolvePath(root, dto.ParentDir)
	}

	return rule, nil
}

func invalidRule(name, msg string) error {
	return errors.Join(domain.ErrInvalidRule, zerr.With(zerr.New(msg), "rule", name))
}

// validateRuleName checks that the rule name is usable on the command line.
func validateRuleName(name string) error {
	if !validRuleNameRegex.MatchString(name) {
		return invalidRule(name, "rule name must match "+validRuleNameRegex.String())
	}
	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	return resolvePath(configDir, configuredRoot)
}

// resolvePath anchors a relative path at base.
func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// readAndUnmarshalYAML reads a YAML file and decodes it strictly into target.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is provided by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Join(domain.ErrConfigReadFailed, zerr.With(zerr.Wrap(err, "failed to read file"), "path", configPath))
	}

	decoder := yaml.NewDecoder(bytes.NewReader(configFile))
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(domain.ErrConfigParseFailed, zerr.With(zerr.Wrap(err, "failed to decode yaml"), "path", configPath))
	}

	return nil
}
