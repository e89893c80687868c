// Package config loads and validates the server configuration from
// environment variables and an optional YAML file. Environment variables
// use the ADPULSE prefix and take precedence over the file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the root configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Sheets   SheetsConfig   `yaml:"sheets" envconfig:"SHEETS"`
	Feeds    FeedsConfig    `yaml:"feeds" envconfig:"FEEDS"`
	Media    MediaConfig    `yaml:"media" envconfig:"MEDIA"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080" validate:"min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// SheetsConfig points the server at the sheets proxy and tunes the
// in-memory cache.
type SheetsConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	SpreadsheetID  string        `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID" validate:"required"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
	MaxRetries     int           `yaml:"max_retries" envconfig:"MAX_RETRIES" default:"2"`
	CacheTTL       time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"5m"`
	SnapshotFile   string        `yaml:"snapshot_file" envconfig:"SNAPSHOT_FILE"`
	RefreshOnStart bool          `yaml:"refresh_on_start" envconfig:"REFRESH_ON_START" default:"true"`
}

// FeedsConfig overrides per-feed sheet ranges and the corrected Meta ad.
type FeedsConfig struct {
	// Ranges maps a feed name to a sheet range, overriding the built-in
	// default for that feed.
	Ranges map[string]string `yaml:"ranges" envconfig:"RANGES"`
	// MetaAdName is the exact ad name of the corrected single-ad Meta
	// view.
	MetaAdName string `yaml:"meta_ad_name" envconfig:"META_AD_NAME"`
}

// MediaConfig configures the Drive-backed media library.
type MediaConfig struct {
	CredentialsFile string            `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	Folders         map[string]string `yaml:"folders" envconfig:"FOLDERS"`
	RefreshInterval time.Duration     `yaml:"refresh_interval" envconfig:"REFRESH_INTERVAL" default:"1h"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ADPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Sheets.BaseURL == "" {
		envConfig.Sheets.BaseURL = fileConfig.Sheets.BaseURL
	}
	if envConfig.Sheets.SpreadsheetID == "" {
		envConfig.Sheets.SpreadsheetID = fileConfig.Sheets.SpreadsheetID
	}
	if envConfig.Sheets.SnapshotFile == "" {
		envConfig.Sheets.SnapshotFile = fileConfig.Sheets.SnapshotFile
	}
	if len(envConfig.Feeds.Ranges) == 0 {
		envConfig.Feeds.Ranges = fileConfig.Feeds.Ranges
	}
	if envConfig.Feeds.MetaAdName == "" {
		envConfig.Feeds.MetaAdName = fileConfig.Feeds.MetaAdName
	}
	if envConfig.Media.CredentialsFile == "" {
		envConfig.Media.CredentialsFile = fileConfig.Media.CredentialsFile
	}
	if len(envConfig.Media.Folders) == 0 {
		envConfig.Media.Folders = fileConfig.Media.Folders
	}
	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
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
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Sheets: SheetsConfig{
			BaseURL:        "http://localhost:9090",
			SpreadsheetID:  "local",
			Timeout:        30 * time.Second,
			MaxRetries:     2,
			CacheTTL:       5 * time.Minute,
			RefreshOnStart: true,
		},
		Media: MediaConfig{
			RefreshInterval: time.Hour,
		},
	}
}
