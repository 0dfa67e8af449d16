package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"retail-analytics/internal/model"
)

// Config is the application configuration, loaded from the environment.
type Config struct {
	// Analysis input/output
	InputFile string
	OutputDir string
	ChartsDir string

	// Analysis parameters
	TopN      int
	Window    int
	BinPolicy string
	ExportJSON bool

	// Run store and API
	DBPath     string
	ListenAddr string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying
// defaults, and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		InputFile:  getEnv("RETAIL_INPUT_FILE", ""),
		OutputDir:  getEnv("RETAIL_OUTPUT_DIR", "data"),
		ChartsDir:  getEnv("RETAIL_CHARTS_DIR", "charts"),
		TopN:       getEnvAsInt("RETAIL_TOP_N", 10),
		Window:     getEnvAsInt("RETAIL_SMA_WINDOW", 3),
		BinPolicy:  getEnv("RETAIL_BIN_POLICY", model.BinPolicyRank),
		ExportJSON: getEnvAsBool("RETAIL_EXPORT_JSON", false),
		DBPath:     getEnv("RETAIL_DB_PATH", "runs.db"),
		ListenAddr: getEnv("RETAIL_LISTEN_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configuration is usable. InputFile is allowed to
// be empty here: the API server takes input files per run, only the
// batch CLI requires one and checks for it itself.
func (c *Config) Validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("RETAIL_TOP_N must be positive, got %d", c.TopN)
	}
	if c.Window < 1 {
		return fmt.Errorf("RETAIL_SMA_WINDOW must be positive, got %d", c.Window)
	}
	if c.BinPolicy != model.BinPolicyRank && c.BinPolicy != model.BinPolicyStrict {
		return fmt.Errorf("RETAIL_BIN_POLICY must be %q or %q, got %q",
			model.BinPolicyRank, model.BinPolicyStrict, c.BinPolicy)
	}
	if c.DBPath == "" {
		return errors.New("RETAIL_DB_PATH cannot be empty")
	}
	return nil
}

// Spec builds the analysis spec the configuration describes.
func (c *Config) Spec() model.AnalysisSpec {
	spec := model.AnalysisSpec{
		Input:     model.Input{File: c.InputFile, HasHead: true},
		TopN:      c.TopN,
		Window:    c.Window,
		BinPolicy: c.BinPolicy,
		Export:    &model.Export{Dir: c.OutputDir, JSON: c.ExportJSON},
		Charts:    &model.Charts{Dir: c.ChartsDir},
	}
	spec.Normalize()
	return spec
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
