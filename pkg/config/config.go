package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for chemtab.
// Configuration can come from a YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values.
type Config struct {
	// Upstream REST API base URL.
	BaseURL string `yaml:"base_url" env:"CHEMTAB_BASE_URL" env-default:"https://www.ebi.ac.uk/chembl/api/data"`

	// Requests-per-second cap enforced before each chunk's first request.
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"CHEMTAB_REQUESTS_PER_SECOND" env-default:"5"`

	// Page size requested from the paginator; capped at each entity's
	// chunk size. Zero or negative means "use the chunk size".
	PageSize int `yaml:"page_size" env:"CHEMTAB_PAGE_SIZE" env-default:"0"`

	// FailFast aborts an encode on the first record with an invariant
	// violation instead of logging and proceeding.
	FailFast bool `yaml:"fail_fast" env:"CHEMTAB_FAIL_FAST" env-default:"false"`

	// EntitiesPath is the YAML file of entity descriptors.
	EntitiesPath string `yaml:"entities_path" env:"CHEMTAB_ENTITIES_PATH" env-default:"entities.yaml"`

	// PoliciesPath is the YAML file of QC metric policies. Empty disables
	// policy merging.
	PoliciesPath string `yaml:"policies_path" env:"CHEMTAB_POLICIES_PATH" env-default:""`

	// SeverityThreshold is the minimum effective severity at which a
	// failing metric fails the batch.
	SeverityThreshold string `yaml:"severity_threshold" env:"CHEMTAB_SEVERITY_THRESHOLD" env-default:"error"`

	// OutputDir receives the CSV output and the QC report.
	OutputDir string `yaml:"output_dir" env:"CHEMTAB_OUTPUT_DIR" env-default:"out"`

	// Log level: debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"CHEMTAB_LOG_LEVEL" env-default:"info"`

	// Version is set at load time, not from config.
	Version string `yaml:"-"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. A missing config.yaml is not an error; defaults and
// environment variables apply. The version parameter is injected at build
// time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %g", c.RequestsPerSecond)
	}
	if strings.TrimSpace(c.EntitiesPath) == "" {
		return fmt.Errorf("entities_path must not be empty")
	}
	return nil
}
