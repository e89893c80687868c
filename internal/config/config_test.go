package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5*time.Minute, cfg.Sheets.CacheTTL)
	assert.True(t, cfg.Security.RateLimit.Enabled)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative read timeout", func(c *Config) { c.Server.ReadTimeout = -1 }, true},
		{"no allowed origins", func(c *Config) { c.Security.AllowedOrigins = nil }, true},
		{"missing sheets base url", func(c *Config) { c.Sheets.BaseURL = "" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9999
sheets:
  base_url: https://proxy.example.com
  spreadsheet_id: abc123
feeds:
  meta_ad_name: "residencial_video_final"
  ranges:
    pinterest: Pinterest_custom
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "https://proxy.example.com", cfg.Sheets.BaseURL)
	assert.Equal(t, "abc123", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "residencial_video_final", cfg.Feeds.MetaAdName)
	assert.Equal(t, "Pinterest_custom", cfg.Feeds.Ranges["pinterest"])
}

func TestMergeConfigs_EnvWins(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Sheets.BaseURL = "https://file.example.com"
	fileCfg.Sheets.SpreadsheetID = "from-file"
	fileCfg.Feeds.MetaAdName = "file-ad"

	envCfg := Config{}
	envCfg.Sheets.BaseURL = "https://env.example.com"

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, "https://env.example.com", merged.Sheets.BaseURL)
	assert.Equal(t, "from-file", merged.Sheets.SpreadsheetID)
	assert.Equal(t, "file-ad", merged.Feeds.MetaAdName)
}
