package config

// Stalefile represents the structure of the stale.yaml configuration file.
type Stalefile struct {
	Version   string             `yaml:"version"`
	Root      string             `yaml:"root"`
	Timestamp string             `yaml:"timestamp"`
	Ignore    []string           `yaml:"ignore"`
	Rules     map[string]RuleDTO `yaml:"rules"`
}

// RuleDTO represents a rule definition in the configuration.
type RuleDTO struct {
	Sources    []string `yaml:"sources"`
	Compiled   string   `yaml:"compiled"`
	Glob       bool     `yaml:"glob"`
	Missing    string   `yaml:"missing"`
	ParentName string   `yaml:"parentName"`
	ParentDir  string   `yaml:"parentDir"`
}
