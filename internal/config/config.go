// Package config loads uistate settings from YAML or TOML files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rshade/uistate/internal/batch"
	"github.com/rshade/uistate/internal/logging"
)

// Environment variables that override file values.
const (
	EnvConfigPath = "UISTATE_CONFIG"
	EnvBatchSize  = "UISTATE_BATCH_SIZE"
	EnvTimeout    = "UISTATE_TIMEOUT"
	EnvLogLevel   = "UISTATE_LOG_LEVEL"
	EnvLogFormat  = "UISTATE_LOG_FORMAT"
)

// DefaultTimeout is the per-request timeout used when none is configured.
const DefaultTimeout = "30s"

// Common configuration errors.
var (
	ErrInvalidBatchSize = errors.New("batch.size must be at least 1")
	ErrInvalidTimeout   = errors.New("batch.timeout must be a non-negative duration")
	ErrInvalidBounds    = errors.New("counter.min must not exceed counter.max")
	ErrUnknownFormat    = errors.New("unsupported config file extension")
)

// Config is the full uistate configuration.
type Config struct {
	Batch   BatchConfig   `yaml:"batch" toml:"batch" json:"batch"`
	Logging LoggingConfig `yaml:"logging" toml:"logging" json:"logging"`
	Counter CounterConfig `yaml:"counter" toml:"counter" json:"counter"`
}

// BatchConfig configures batch runs started from the CLI.
type BatchConfig struct {
	// Size is the number of items dispatched concurrently per batch.
	Size int `yaml:"size" toml:"size" json:"size"`

	// Timeout is the per-request timeout as a Go duration string ("0" disables it).
	Timeout string `yaml:"timeout" toml:"timeout" json:"timeout"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" json:"level"`
	Format string `yaml:"format" toml:"format" json:"format"`
	File   string `yaml:"file,omitempty" toml:"file,omitempty" json:"file,omitempty"`
}

// CounterConfig holds the defaults for the counter command.
type CounterConfig struct {
	Min     *int `yaml:"min,omitempty" toml:"min,omitempty" json:"min,omitempty"`
	Max     *int `yaml:"max,omitempty" toml:"max,omitempty" json:"max,omitempty"`
	Initial int  `yaml:"initial" toml:"initial" json:"initial"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Batch: BatchConfig{
			Size:    batch.DefaultBatchSize,
			Timeout: DefaultTimeout,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// DefaultPath returns ~/.uistate/config.yaml, or "" when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".uistate", "config.yaml")
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	projectDir string
}

// WithProjectDir merges dir/.uistate.yaml over the config file. An empty dir
// or a missing overlay is ignored.
func WithProjectDir(dir string) LoadOption {
	return func(o *loadOptions) {
		o.projectDir = dir
	}
}

// Load builds a Config from, in increasing precedence: defaults, the config
// file, the project overlay and the environment. The result is validated once
// every layer is applied.
//
// When path is empty, $UISTATE_CONFIG is used, then DefaultPath. A missing
// default file is not an error; a missing explicit file is.
func Load(path string, opts ...LoadOption) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	if o.projectDir != "" {
		if _, err := mergeOverlay(cfg, o.projectDir); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile decodes path on top of cfg, choosing the codec by extension.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides values from environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBatchSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBatchSize, err)
		}
		c.Batch.Size = n
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		c.Batch.Timeout = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	return nil
}

// Validate checks the configuration for values the runner cannot use.
func (c *Config) Validate() error {
	if c.Batch.Size < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidBatchSize, c.Batch.Size)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	if c.Counter.Min != nil && c.Counter.Max != nil && *c.Counter.Min > *c.Counter.Max {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidBounds, *c.Counter.Min, *c.Counter.Max)
	}
	return nil
}

// RequestTimeout parses Batch.Timeout. An empty or zero value means no timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Batch.Timeout == "" || c.Batch.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Batch.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, c.Batch.Timeout)
	}
	return d, nil
}

// LoggingConfig converts the logging section for the logging package.
func (c *Config) LoggingConfig() logging.Config {
	output := logging.OutputStderr
	if c.Logging.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: output,
		File:   c.Logging.File,
	}
}
