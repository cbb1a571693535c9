package sysdoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	derrors "github.com/benjaminschreck/go-sysdoc/pkg/sysdoc/errors"
)

// Compression methods for archive entries.
const (
	CompressionDeflate = "deflate"
	CompressionStore   = "store"
)

// Config contains all configuration options for building packages
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// PageWidth and PageHeight are the page size in twips
	PageWidth  int `yaml:"page_width"`
	PageHeight int `yaml:"page_height"`
	// PageMargin applies to all four sides, in twips
	PageMargin int `yaml:"page_margin"`
	// RasterDPI is the resolution of generated PNG fallbacks for vector images
	RasterDPI int `yaml:"raster_dpi"`
	// RasterWorkers bounds concurrent rasterization
	RasterWorkers int `yaml:"raster_workers"`
	// DefaultFont and DefaultFontSize (points) go into the styles part
	DefaultFont     string `yaml:"default_font"`
	DefaultFontSize int    `yaml:"default_font_size"`
	// Compression is the archive entry method: deflate or store
	Compression string `yaml:"compression"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration: A4 portrait with one
// inch margins, Calibri 11pt, deflated entries.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		PageWidth:       11906,
		PageHeight:      16838,
		PageMargin:      1440,
		RasterDPI:       192,
		RasterWorkers:   runtime.NumCPU(),
		DefaultFont:     "Calibri",
		DefaultFontSize: 11,
		Compression:     CompressionDeflate,
	}
}

// ConfigFromEnvironment creates a configuration from SYSDOC_* environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("SYSDOC_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(strings.TrimSpace(val))
	}
	envInt("SYSDOC_PAGE_WIDTH", &config.PageWidth)
	envInt("SYSDOC_PAGE_HEIGHT", &config.PageHeight)
	envInt("SYSDOC_PAGE_MARGIN", &config.PageMargin)
	envInt("SYSDOC_RASTER_DPI", &config.RasterDPI)
	envInt("SYSDOC_RASTER_WORKERS", &config.RasterWorkers)
	if val := os.Getenv("SYSDOC_DEFAULT_FONT"); val != "" {
		config.DefaultFont = val
	}
	envInt("SYSDOC_DEFAULT_FONT_SIZE", &config.DefaultFontSize)
	if val := os.Getenv("SYSDOC_COMPRESSION"); val != "" {
		config.Compression = strings.ToLower(strings.TrimSpace(val))
	}

	return config
}

// envInt overwrites dst when the variable holds an integer
func envInt(name string, dst *int) {
	if val := os.Getenv(name); val != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			*dst = n
		}
	}
}

// LoadConfig reads a YAML configuration file. Environment variables in the
// file are expanded, unset keys keep their defaults and unknown keys are
// rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	config := DefaultConfig()
	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.PageWidth == 0 {
		config.PageWidth = defaults.PageWidth
	}
	if config.PageHeight == 0 {
		config.PageHeight = defaults.PageHeight
	}
	if config.PageMargin == 0 {
		config.PageMargin = defaults.PageMargin
	}
	if config.RasterDPI == 0 {
		config.RasterDPI = defaults.RasterDPI
	}
	if config.RasterWorkers == 0 {
		config.RasterWorkers = defaults.RasterWorkers
	}
	if config.DefaultFont == "" {
		config.DefaultFont = defaults.DefaultFont
	}
	if config.DefaultFontSize == 0 {
		config.DefaultFontSize = defaults.DefaultFontSize
	}
	if config.Compression == "" {
		config.Compression = defaults.Compression
	}

	return &config
}

// Validate checks if the configuration is valid. All problems are reported.
func (c *Config) Validate() error {
	errs := derrors.NewMultiError()

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[c.LogLevel] {
		errs.Add(fmt.Errorf("invalid log level: %s", c.LogLevel))
	}
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		errs.Add(fmt.Errorf("page size must be positive, got %dx%d", c.PageWidth, c.PageHeight))
	}
	if c.PageMargin < 0 {
		errs.Add(fmt.Errorf("page margin cannot be negative"))
	}
	if c.PageWidth > 0 && 2*c.PageMargin >= c.PageWidth {
		errs.Add(fmt.Errorf("page margins (%d) leave no room for text on a %d wide page", c.PageMargin, c.PageWidth))
	}
	if c.RasterDPI <= 0 {
		errs.Add(fmt.Errorf("raster DPI must be positive"))
	}
	if c.RasterWorkers <= 0 {
		errs.Add(fmt.Errorf("raster workers must be positive"))
	}
	if c.DefaultFont == "" {
		errs.Add(fmt.Errorf("default font cannot be empty"))
	}
	if c.DefaultFontSize <= 0 {
		errs.Add(fmt.Errorf("default font size must be positive"))
	}
	if c.Compression != CompressionDeflate && c.Compression != CompressionStore {
		errs.Add(fmt.Errorf("invalid compression: %s", c.Compression))
	}

	return errs.Err()
}

// TextWidth returns the width of the text column in twips
func (c *Config) TextWidth() int {
	return c.PageWidth - 2*c.PageMargin
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}
