package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "retailreports/internal/errors"
)

// EnvPrefix namespaces every environment variable, e.g. RETAIL_SERVER_PORT
const EnvPrefix = "RETAIL"

// Storage backends
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	S3        S3Config        `yaml:"s3" envconfig:"S3"`
	History   HistoryConfig   `yaml:"history" envconfig:"HISTORY"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" envconfig:"MAX_BODY_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// RateLimitConfig limits export requests per client IP
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system locations, relative to the base directory
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// ExportConfig controls report rendering and where artifacts are stored
type ExportConfig struct {
	Backend     string        `yaml:"backend" envconfig:"BACKEND"`
	Compression bool          `yaml:"compression" envconfig:"COMPRESSION"`
	ColumnWidth float64       `yaml:"column_width" envconfig:"COLUMN_WIDTH"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// S3Config is used when Export.Backend is "s3"
type S3Config struct {
	Bucket string `yaml:"bucket" envconfig:"BUCKET"`
	Prefix string `yaml:"prefix" envconfig:"PREFIX"`
	Region string `yaml:"region" envconfig:"REGION"`
}

// HistoryConfig controls the export history ledger
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled" envconfig:"ENABLED"`
	DatabasePath string `yaml:"database_path" envconfig:"DATABASE_PATH"`
}

// TelemetryConfig controls OpenTelemetry setup
type TelemetryConfig struct {
	Enabled        bool   `yaml:"enabled" envconfig:"ENABLED"`
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	ServiceVersion string `yaml:"service_version" envconfig:"SERVICE_VERSION"`
	TraceStdout    bool   `yaml:"trace_stdout" envconfig:"TRACE_STDOUT"`
}

// Load builds the configuration from defaults, then the YAML file if one is
// found, then environment variables. Later sources win.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err)
		}
	}

	// Fields without a matching variable are left untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive when enabled")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %q", c.Logging.Output)
	}

	switch c.Export.Backend {
	case BackendLocal:
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required for the s3 backend")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("s3 region is required for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid export backend: %q", c.Export.Backend)
	}

	if c.Export.ColumnWidth <= 0 {
		return fmt.Errorf("export column width must be positive")
	}

	if c.History.Enabled && c.History.DatabasePath == "" {
		return fmt.Errorf("history database path is required when history is enabled")
	}

	return nil
}

// getConfigFilePath returns RETAIL_CONFIG_FILE or the first config file found
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			MaxBodyBytes:    10 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     DefaultRateLimit,
			Burst:   DefaultBurstSize,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
		Export: ExportConfig{
			Backend:     BackendLocal,
			Compression: true,
			ColumnWidth: DefaultColumnWidth,
			Timeout:     DefaultExportTimeout,
		},
		S3: S3Config{
			Prefix: "reports",
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: DefaultHistoryDB,
		},
		Telemetry: TelemetryConfig{
			Enabled:        true,
			ServiceName:    AppName,
			ServiceVersion: AppVersion,
		},
	}
}
