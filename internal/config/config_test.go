package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/uistate/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.Batch.Size)
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())

	timeout, err := cfg.RequestTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfigPath, "")

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "config.yaml", `
batch:
  size: 4
  timeout: 2s
logging:
  level: debug
counter:
  min: 0
  max: 9
  initial: 3
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Batch.Size)
		assert.Equal(t, "debug", cfg.Logging.Level)
		require.NotNil(t, cfg.Counter.Max)
		assert.Equal(t, 9, *cfg.Counter.Max)
		assert.Equal(t, 3, cfg.Counter.Initial)

		timeout, err := cfg.RequestTimeout()
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, timeout)
	})

	t.Run("toml", func(t *testing.T) {
		path := writeFile(t, "config.toml", `
[batch]
size = 7
timeout = "0"

[counter]
min = -5
initial = 1
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Batch.Size)
		require.NotNil(t, cfg.Counter.Min)
		assert.Equal(t, -5, *cfg.Counter.Min)
		assert.Nil(t, cfg.Counter.Max)

		timeout, err := cfg.RequestTimeout()
		require.NoError(t, err)
		assert.Zero(t, timeout)
	})

	t.Run("missing default file is fine", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default().Batch, cfg.Batch)
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("env path", func(t *testing.T) {
		path := writeFile(t, "env.yml", "batch:\n  size: 2\n")
		t.Setenv(EnvConfigPath, path)
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Batch.Size)
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := writeFile(t, "config.ini", "size=1")
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "{{{{not yaml")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid batch size", func(t *testing.T) {
		path := writeFile(t, "zero.yaml", "batch:\n  size: 0\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvBatchSize: "25",
		EnvTimeout:   "1m",
		EnvLogLevel:  "warn",
		EnvLogFormat: "json",
	}))
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Batch.Size)
	assert.Equal(t, "1m", cfg.Batch.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	err = cfg.ApplyEnv(envMap(map[string]string{EnvBatchSize: "lots"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	low, high := 5, 1

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "negative size", mutate: func(c *Config) { c.Batch.Size = -1 }, wantErr: ErrInvalidBatchSize},
		{name: "bad timeout", mutate: func(c *Config) { c.Batch.Timeout = "soon" }, wantErr: ErrInvalidTimeout},
		{name: "negative timeout", mutate: func(c *Config) { c.Batch.Timeout = "-1s" }, wantErr: ErrInvalidTimeout},
		{name: "inverted bounds", mutate: func(c *Config) {
			c.Counter.Min = &low
			c.Counter.Max = &high
		}, wantErr: ErrInvalidBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	cfg := Default()
	lc := cfg.LoggingConfig()
	assert.Equal(t, logging.OutputStderr, lc.Output)

	cfg.Logging.File = "/tmp/uistate.log"
	lc = cfg.LoggingConfig()
	assert.Equal(t, logging.OutputFile, lc.Output)
	assert.Equal(t, "/tmp/uistate.log", lc.File)
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvBatchSize, "")
	t.Setenv(EnvTimeout, "")

	path := writeFile(t, "config.yaml", "batch:\n  size: 4\n  timeout: 10s\n")
	projectDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ProjectOverlayName), []byte("batch:\n  size: 20\n"), 0o600))

	t.Run("overlay beats file", func(t *testing.T) {
		cfg, err := Load(path, WithProjectDir(projectDir))
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.Batch.Size)
		assert.Equal(t, DefaultTimeout, cfg.Batch.Timeout)
	})

	t.Run("env beats overlay", func(t *testing.T) {
		t.Setenv(EnvBatchSize, "5")
		t.Setenv(EnvTimeout, "2s")

		cfg, err := Load(path, WithProjectDir(projectDir))
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Batch.Size)

		timeout, err := cfg.RequestTimeout()
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, timeout)
	})

	t.Run("env repairs invalid overlay value", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectOverlayName), []byte("batch:\n  size: 0\n"), 0o600))
		t.Setenv(EnvBatchSize, "3")

		cfg, err := Load(path, WithProjectDir(dir))
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Batch.Size)
	})

	t.Run("missing overlay", func(t *testing.T) {
		cfg, err := Load(path, WithProjectDir(t.TempDir()))
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Batch.Size)
		assert.Equal(t, "10s", cfg.Batch.Timeout)
	})
}
