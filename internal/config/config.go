package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"stilidash/domain/survey"
	"stilidash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	API       APIConfig
	Panel     PanelConfig
	Logging   LoggingConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DataConfig points at the file the table is loaded from
type DataConfig struct {
	File  string
	Sheet string
}

// DatabaseConfig holds the optional SQL table source
type DatabaseConfig struct {
	URL   string
	Table string
}

// APIConfig holds the optional JSON endpoint the table is fetched from
type APIConfig struct {
	URL      string
	DataPath string // gjson path of the record array, "" for a top-level array
	Token    string
	Timeout  time.Duration
}

// PanelConfig holds presentation defaults
type PanelConfig struct {
	Title         string
	Metrics       []string
	DefaultMetric string
	DefaultTheme  string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Enabled bool
}

// UsesAPI reports whether the table is fetched from a JSON endpoint. A data file
// takes precedence.
func (c *Config) UsesAPI() bool {
	return c.Data.File == "" && c.API.URL != ""
}

// UsesDatabase reports whether the table is read from Postgres. A data file and an
// endpoint both take precedence.
func (c *Config) UsesDatabase() bool {
	return c.Data.File == "" && c.API.URL == "" && c.Database.URL != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Database:  *loadDatabaseConfig(),
		API:       *loadAPIConfig(),
		Panel:     *loadPanelConfig(),
		Logging:   *loadLoggingConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:  getEnvOrDefault("DATA_FILE", ""),
		Sheet: getEnvOrDefault("DATA_SHEET", "Sheet1"),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:   getEnvOrDefault("DATABASE_URL", ""),
		Table: getEnvOrDefault("DATA_TABLE", ""),
	}
}

func loadAPIConfig() *APIConfig {
	return &APIConfig{
		URL:      getEnvOrDefault("DATA_URL", ""),
		DataPath: getEnvOrDefault("DATA_PATH", ""),
		Token:    getEnvOrDefault("DATA_TOKEN", ""),
		Timeout:  getEnvDurationOrDefault("DATA_TIMEOUT", 30*time.Second),
	}
}

func loadPanelConfig() *PanelConfig {
	metrics := getEnvListOrDefault("METRICS", survey.DefaultMetrics)
	return &PanelConfig{
		Title:         getEnvOrDefault("PAGE_TITLE", "Stili alimentari"),
		Metrics:       metrics,
		DefaultMetric: getEnvOrDefault("DEFAULT_METRIC", metrics[0]),
		DefaultTheme:  getEnvOrDefault("DEFAULT_THEME", "blue"),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Data.File == "" && config.API.URL == "" && config.Database.URL == "" {
		return errors.ConfigInvalid("one of DATA_FILE, DATA_URL or DATABASE_URL is required")
	}
	if config.UsesDatabase() && config.Database.Table == "" {
		return errors.ConfigInvalid("DATA_TABLE is required when loading from DATABASE_URL")
	}
	if len(config.Panel.Metrics) == 0 {
		return errors.ConfigInvalid("at least one metric is required")
	}
	found := false
	for _, m := range config.Panel.Metrics {
		if m == config.Panel.DefaultMetric {
			found = true
			break
		}
	}
	if !found {
		return errors.ConfigInvalid("DEFAULT_METRIC must be one of METRICS")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable, dropping empty items
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		out := make([]string, len(defaultValue))
		copy(out, defaultValue)
		return out
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultValue...)
	}
	return out
}
