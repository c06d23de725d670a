package domain

import (
	"slices"
	"strings"
)

// Rule ties a set of source files to the compiled artifact they produce.
type Rule struct {
	Name     string
	Sources  []string
	Template Template
	Glob     bool
	Missing  MissingPolicy
	// ParentName, when set, replaces the derived parent folder name.
	ParentName string
	// ParentDir, when set, replaces the derived parent directory. ":dirname"
	// is substituted with the parent name.
	ParentDir string
}

// Overrides builds the override functions described by the rule.
func (r *Rule) Overrides() Overrides {
	var o Overrides
	if r.ParentName != "" {
		name := r.ParentName
		o.ParentName = func(string) string { return name }
	}
	if r.ParentDir != "" {
		dir := r.ParentDir
		o.ParentDir = func(parentName string) string {
			return strings.ReplaceAll(dir, PlaceholderDirname, parentName)
		}
	}
	return o
}

// Config is the loaded rule file.
type Config struct {
	// Root is the directory relative paths are resolved against.
	Root      string
	Timestamp TimestampSource
	Ignore    []string
	rules     map[string]*Rule
}

// NewConfig creates an empty Config rooted at root.
func NewConfig(root string) *Config {
	return &Config{
		Root:  root,
		rules: make(map[string]*Rule),
	}
}

// AddRule registers r, replacing any rule with the same name.
func (c *Config) AddRule(r *Rule) {
	c.rules[r.Name] = r
}

// Rule returns the named rule.
func (c *Config) Rule(name string) (*Rule, bool) {
	r, ok := c.rules[name]
	return r, ok
}

// RuleNames returns the rule names in sorted order.
func (c *Config) RuleNames() []string {
	names := make([]string, 0, len(c.rules))
	for name := range c.rules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ConfigFileName is the rule file looked up when no explicit file is given.
const ConfigFileName = "stale.yaml"
