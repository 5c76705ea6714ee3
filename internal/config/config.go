package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level ledgerscan.yaml configuration.
type Config struct {
	Account    AccountConfig    `yaml:"account"`
	Locale     string           `yaml:"locale"`
	Tiers      TiersConfig      `yaml:"tiers"`
	Confidence ConfidenceConfig `yaml:"confidence"`
	Log        LogConfig        `yaml:"log"`
}

// AccountConfig holds the account-type hint applied when the caller does
// not pass one explicitly.
type AccountConfig struct {
	// Type is "cash", "credit", or "unknown" (infer automatically).
	Type string `yaml:"type"`
}

// TiersConfig tunes the recovery chain.
type TiersConfig struct {
	StrictFuzzyDistance  int     `yaml:"strict_fuzzy_distance"`
	RelaxedFuzzyDistance int     `yaml:"relaxed_fuzzy_distance"`
	MinimalPatternScore  float64 `yaml:"minimal_pattern_score"`
}

// ConfidenceConfig holds confidence thresholds and constants.
type ConfidenceConfig struct {
	LowPolicyWarn float64 `yaml:"low_policy_warn"`
	LowTableWarn  float64 `yaml:"low_table_warn"`
	DegradedTable float64 `yaml:"degraded_table"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a ledgerscan.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{Type: "unknown"},
		Locale:  "auto",
		Tiers: TiersConfig{
			StrictFuzzyDistance:  1,
			RelaxedFuzzyDistance: 4,
			MinimalPatternScore:  0.05,
		},
		Confidence: ConfidenceConfig{
			LowPolicyWarn: 0.5,
			LowTableWarn:  0.6,
			DegradedTable: 0.25,
		},
		Log: LogConfig{Level: "info"},
	}
}
