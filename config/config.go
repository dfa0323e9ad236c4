// Package config loads the analysis configuration from YAML, applying
// defaults for anything unset.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sonnes/lekhak/parser"
	"github.com/sonnes/lekhak/pattern"
)

// Merge policy names accepted in config and flags.
const (
	PolicySameSentence = "same_sentence"
	PolicyTinyDelete   = "tiny_delete"
)

// Config is the full analysis configuration.
type Config struct {
	// MergePolicy selects the level 1 merge strategy.
	MergePolicy string `yaml:"merge_policy"`

	// DeleteThreshold is the largest delete that merges into an insertion.
	DeleteThreshold int `yaml:"delete_threshold"`

	// Plugins are the active level 3 detectors, in dispatch order.
	Plugins []string `yaml:"plugins"`

	Intervention Intervention `yaml:"intervention"`

	// Priority optionally relabels action_type from the first matching
	// level 1/2/3 label, in list order.
	Priority []string `yaml:"priority"`
}

// Intervention configures the threshold evaluator window.
type Intervention struct {
	Window    int `yaml:"window"`
	Threshold int `yaml:"threshold"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		MergePolicy:     PolicySameSentence,
		DeleteThreshold: parser.DefaultDeleteThreshold,
		Plugins: []string{
			"major_insert_mindless_echo",
			"minor_insert_mindless_edit",
		},
		Intervention: Intervention{
			Window:    pattern.DefaultWindowSize,
			Threshold: pattern.DefaultCountThreshold,
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.MergePolicy {
	case PolicySameSentence, PolicyTinyDelete:
	default:
		return fmt.Errorf("unknown merge policy %q", c.MergePolicy)
	}
	if c.DeleteThreshold <= 0 {
		return fmt.Errorf("delete threshold must be positive, got %d", c.DeleteThreshold)
	}
	if c.Intervention.Window <= 0 || c.Intervention.Threshold <= 0 {
		return fmt.Errorf("intervention window and threshold must be positive")
	}
	return nil
}

// Merger constructs the configured merge policy.
func (c *Config) Merger() parser.Merger {
	if c.MergePolicy == PolicyTinyDelete {
		return parser.TinyDelete{DeleteThreshold: c.DeleteThreshold}
	}
	return parser.SameSentence{DeleteThreshold: c.DeleteThreshold}
}
