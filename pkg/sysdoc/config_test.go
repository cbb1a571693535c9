package sysdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 11906, config.PageWidth)
	assert.Equal(t, 16838, config.PageHeight)
	assert.Equal(t, 1440, config.PageMargin)
	assert.Equal(t, 9026, config.TextWidth())
	assert.Equal(t, CompressionDeflate, config.Compression)
	assert.NoError(t, config.Validate())
}

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, config *Config)
	}{
		{
			name:    "log level",
			envVars: map[string]string{"SYSDOC_LOG_LEVEL": "DEBUG"},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, "debug", config.LogLevel)
			},
		},
		{
			name: "page geometry",
			envVars: map[string]string{
				"SYSDOC_PAGE_WIDTH":  "12240",
				"SYSDOC_PAGE_HEIGHT": "15840",
				"SYSDOC_PAGE_MARGIN": "720",
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, 12240, config.PageWidth)
				assert.Equal(t, 15840, config.PageHeight)
				assert.Equal(t, 720, config.PageMargin)
			},
		},
		{
			name: "rasterization",
			envVars: map[string]string{
				"SYSDOC_RASTER_DPI":     "300",
				"SYSDOC_RASTER_WORKERS": "2",
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, 300, config.RasterDPI)
				assert.Equal(t, 2, config.RasterWorkers)
			},
		},
		{
			name: "fonts and compression",
			envVars: map[string]string{
				"SYSDOC_DEFAULT_FONT":      "Arial",
				"SYSDOC_DEFAULT_FONT_SIZE": "10",
				"SYSDOC_COMPRESSION":       "store",
			},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, "Arial", config.DefaultFont)
				assert.Equal(t, 10, config.DefaultFontSize)
				assert.Equal(t, CompressionStore, config.Compression)
			},
		},
		{
			name:    "invalid integer keeps default",
			envVars: map[string]string{"SYSDOC_PAGE_WIDTH": "wide"},
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, 11906, config.PageWidth)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			tt.check(t, ConfigFromEnvironment())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: "invalid log level"},
		{name: "zero page", modify: func(c *Config) { c.PageWidth = 0 }, wantErr: "page size"},
		{name: "margins too wide", modify: func(c *Config) { c.PageMargin = 6000 }, wantErr: "no room for text"},
		{name: "bad compression", modify: func(c *Config) { c.Compression = "lzma" }, wantErr: "invalid compression"},
		{name: "no workers", modify: func(c *Config) { c.RasterWorkers = 0 }, wantErr: "raster workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidateReportsAllProblems(t *testing.T) {
	config := DefaultConfig()
	config.LogLevel = "loud"
	config.DefaultFont = ""
	err := config.Validate()
	require.Error(t, err)
	var multi *MultiError
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 2, multi.Len())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SYSDOC_TEST_FONT", "Liberation Sans")

	file := filepath.Join(dir, "sysdoc.yaml")
	require.NoError(t, os.WriteFile(file, []byte("page_margin: 1134\ndefault_font: ${SYSDOC_TEST_FONT}\n"), 0o644))
	config, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, 1134, config.PageMargin)
	assert.Equal(t, "Liberation Sans", config.DefaultFont)
	assert.Equal(t, 11906, config.PageWidth, "unset keys keep defaults")

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("page_colour: red\n"), 0o644))
	_, err = LoadConfig(unknown)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	config, err = LoadConfig(empty)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().PageWidth, config.PageWidth)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNewConfigWithDefaults(t *testing.T) {
	config := NewConfigWithDefaults(&Config{PageMargin: 720})
	assert.Equal(t, 720, config.PageMargin)
	assert.Equal(t, 11906, config.PageWidth)
	assert.Equal(t, "info", config.LogLevel)
	assert.NoError(t, config.Validate())

	assert.Equal(t, DefaultConfig().PageWidth, NewConfigWithDefaults(nil).PageWidth)
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	config := DefaultConfig()
	config.LogLevel = "error"
	SetGlobalConfig(config)

	got := GetGlobalConfig()
	assert.Equal(t, "error", got.LogLevel)
	got.LogLevel = "debug"
	assert.Equal(t, "error", GetGlobalConfig().LogLevel, "GetGlobalConfig returns a copy")
	assert.False(t, GetLogger().IsDebugMode())
}
