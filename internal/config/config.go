package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/collectivites/m57/internal/id"
)

// FileName is the workspace configuration file.
const FileName = "m57.yaml"

// Config represents the top-level m57.yaml configuration.
type Config struct {
	Entity  EntityConfig  `yaml:"entity"`
	Source  SourceConfig  `yaml:"source"`
	Engine  EngineConfig  `yaml:"engine"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Git     GitConfig     `yaml:"git"`
}

// EntityConfig identifies the default municipality.
type EntityConfig struct {
	SIREN string `yaml:"siren"`
	Name  string `yaml:"name"`
}

// SourceConfig controls retrieval from the public balance datasets.
type SourceConfig struct {
	BaseURL           string        `yaml:"base_url"` // contains {year}
	DirectoryURL      string        `yaml:"directory_url"`
	PageSize          int           `yaml:"page_size"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	Timeout           time.Duration `yaml:"timeout"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

// EngineConfig tunes aggregation and validation.
type EngineConfig struct {
	PrincipalBudget string `yaml:"principal_budget"`
	Tolerance       string `yaml:"tolerance"`
}

// OutputConfig controls where reports go.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads an m57.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
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

// Default returns a Config with sensible defaults for a new workspace.
func Default(siren, name string) *Config {
	return &Config{
		Entity: EntityConfig{
			SIREN: siren,
			Name:  name,
		},
		Source: SourceConfig{
			BaseURL:           "https://data.economie.gouv.fr/api/explore/v2.1/catalog/datasets/balances-comptables-des-communes-en-{year}/records",
			DirectoryURL:      "https://data.ofgl.fr/api/explore/v2.1/catalog/datasets/ofgl-base-communes-consolidee/records",
			PageSize:          100,
			RequestsPerSecond: 5,
			Burst:             5,
			Timeout:           30 * time.Second,
			CacheTTL:          time.Hour,
		},
		Engine: EngineConfig{
			PrincipalBudget: "1",
			Tolerance:       "0.01",
		},
		Output: OutputConfig{
			Dir: "reports",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "M57 Reports",
			AuthorEmail: "reports@m57.local",
		},
	}
}

// LoadDotEnv loads <dir>/.env into the process environment when present.
// Variables already set win.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Environment variables overriding the file.
const (
	EnvBaseURL      = "M57_BASE_URL"
	EnvDirectoryURL = "M57_DIRECTORY_URL"
	EnvSIREN        = "M57_SIREN"
	EnvLogLevel     = "M57_LOG_LEVEL"
	EnvOutputDir    = "M57_OUTPUT_DIR"
)

// ApplyEnv overrides cfg with the M57_* environment variables that are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv(EnvDirectoryURL); v != "" {
		c.Source.DirectoryURL = v
	}
	if v := os.Getenv(EnvSIREN); v != "" {
		c.Entity.SIREN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
}

// Tolerance returns the validation tolerance.
func (c *Config) Tolerance() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Engine.Tolerance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("engine.tolerance %q: %w", c.Engine.Tolerance, err)
	}
	return d, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Entity.SIREN != "" && !id.ValidSIREN(c.Entity.SIREN) {
		errs = append(errs, fmt.Errorf("entity.siren %q: expected 9 digits", c.Entity.SIREN))
	}
	if !strings.Contains(c.Source.BaseURL, "{year}") {
		errs = append(errs, fmt.Errorf("source.base_url must contain {year}"))
	}
	if c.Source.PageSize < 1 || c.Source.PageSize > 100 {
		errs = append(errs, fmt.Errorf("source.page_size %d: expected 1..100", c.Source.PageSize))
	}
	if c.Source.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("source.requests_per_second must be positive"))
	}
	if c.Engine.PrincipalBudget == "" {
		errs = append(errs, fmt.Errorf("engine.principal_budget is empty"))
	}
	if tol, err := c.Tolerance(); err != nil {
		errs = append(errs, err)
	} else if tol.IsNegative() {
		errs = append(errs, fmt.Errorf("engine.tolerance must not be negative"))
	}
	if c.Output.Dir == "" {
		errs = append(errs, fmt.Errorf("output.dir is empty"))
	}
	return errors.Join(errs...)
}
