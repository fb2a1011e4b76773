package perfdash

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AccountConfig describes one account to process.
type AccountConfig struct {
	Name       string `yaml:"name"`
	Ledger     string `yaml:"ledger"`     // transaction CSV export
	Statements string `yaml:"statements"` // directory of statement documents

	// OpeningBalance overrides the first statement balance as the initial
	// principal, for accounts whose earliest statement predates digitized
	// transaction history. Zero means "use the first statement balance".
	OpeningBalance float64 `yaml:"opening_balance"`
}

// BenchmarkConfig is the on-disk form of one benchmark: display metadata
// plus its monthly returns table keyed by "YYYY-MM".
type BenchmarkConfig struct {
	ID          string             `yaml:"id"`
	DisplayName string             `yaml:"display_name"`
	Color       string             `yaml:"color"`
	Returns     map[string]float64 `yaml:"returns"`
}

// Config holds all application configuration.
type Config struct {
	OutputDir string `yaml:"output_dir"`
	AuditDB   string `yaml:"audit_db"` // optional sqlite path for the audit recorder

	Thresholds struct {
		LargeFee     float64 `yaml:"large_fee"`
		AnomalyFloor float64 `yaml:"anomaly_floor"`
		AnomalyDrop  float64 `yaml:"anomaly_drop"`
	} `yaml:"thresholds"`

	Accounts   []AccountConfig   `yaml:"accounts"`
	Benchmarks []BenchmarkConfig `yaml:"benchmarks"`
}

// LoadConfig reads config from a YAML file, then applies environment
// variable overrides and defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("PERFDASH_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("PERFDASH_AUDIT_DB"); v != "" {
		cfg.AuditDB = v
	}

	// Defaults
	if cfg.OutputDir == "" {
		cfg.OutputDir = "out"
	}
	if cfg.Thresholds.LargeFee == 0 {
		cfg.Thresholds.LargeFee = 1000
	}
	if cfg.Thresholds.AnomalyFloor == 0 {
		cfg.Thresholds.AnomalyFloor = 10_000
	}
	if cfg.Thresholds.AnomalyDrop == 0 {
		cfg.Thresholds.AnomalyDrop = 0.90
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("no accounts configured")
	}
	for _, a := range c.Accounts {
		if a.Name == "" {
			return fmt.Errorf("account with empty name")
		}
		if a.Ledger == "" {
			return fmt.Errorf("account %q: ledger is required", a.Name)
		}
		if a.Statements == "" {
			return fmt.Errorf("account %q: statements directory is required", a.Name)
		}
	}
	for _, b := range c.Benchmarks {
		if b.ID == "" {
			return fmt.Errorf("benchmark with empty id")
		}
	}
	return nil
}

// BuildBenchmarks resolves the configured benchmark definitions into the
// runtime registry, parsing the "YYYY-MM" return table keys.
func (c *Config) BuildBenchmarks() (*Benchmarks, error) {
	defs := make([]Benchmark, 0, len(c.Benchmarks))
	for _, bc := range c.Benchmarks {
		returns := make(map[Month]float64, len(bc.Returns))
		for key, r := range bc.Returns {
			mo, err := ParseMonth(key)
			if err != nil {
				return nil, fmt.Errorf("benchmark %q: %w", bc.ID, err)
			}
			returns[mo] = r
		}
		defs = append(defs, Benchmark{
			ID:          bc.ID,
			DisplayName: bc.DisplayName,
			Color:       bc.Color,
			Returns:     returns,
		})
	}
	return NewBenchmarks(defs...)
}
