package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullYAML = `
server:
  host: "127.0.0.1"
  port: 8081
  shutdown_timeout_seconds: 15
  max_upload_size_mb: 20
processing:
  task_timeout_seconds: 120
  cache_ttl_minutes: 30
sharing:
  item_ttl_hours: 48
logging:
  level: "info"
`

const partialYAML = `
server:
  port: 9000
logging:
  level: "debug"
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func TestLoadFromYAML(t *testing.T) {
	t.Run("полная конфигурация", func(t *testing.T) {
		path := createTempConfigFile(t, fullYAML)
		cfg, err := loadFromYAML(path)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 8081, cfg.Server.Port)
		assert.Equal(t, 15, cfg.Server.ShutdownTimeoutSeconds)
		assert.Equal(t, 20, cfg.Server.MaxUploadSizeMB)
		assert.Equal(t, "127.0.0.1:8081", cfg.Address())

		assert.Equal(t, 120, cfg.Processing.TaskTimeoutSeconds)
		assert.Equal(t, 30, cfg.Processing.CacheTTLMinutes)
		assert.Equal(t, 48, cfg.Sharing.ItemTTLHours)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("файл не найден", func(t *testing.T) {
		_, err := loadFromYAML("non_existent_file.yml")
		assert.Error(t, err)
	})

	t.Run("некорректный yaml", func(t *testing.T) {
		path := createTempConfigFile(t, "invalid yaml: {")
		_, err := loadFromYAML(path)
		assert.Error(t, err)
	})
}

func TestApplyDefaults(t *testing.T) {
	path := createTempConfigFile(t, partialYAML)
	cfg, err := loadFromYAML(path)
	require.NoError(t, err)

	cfg.applyDefaults()

	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port, "явно заданное значение не перезаписывается")
	assert.Equal(t, int(DefaultShutdownTimeout.Seconds()), cfg.Server.ShutdownTimeoutSeconds)
	assert.Equal(t, DefaultMaxUploadSizeMB, cfg.Server.MaxUploadSizeMB)
	assert.Equal(t, int(DefaultTaskTimeout.Seconds()), cfg.Processing.TaskTimeoutSeconds)
	assert.Equal(t, int(DefaultCacheTTL.Minutes()), cfg.Processing.CacheTTLMinutes)
	assert.Equal(t, int(DefaultItemTTL.Hours()), cfg.Sharing.ItemTTLHours)
	assert.Equal(t, "debug", cfg.Logging.Level, "явно заданный уровень не перезаписывается")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_HOST", "localhost")
	t.Setenv("SERVER_PORT", "8090")
	t.Setenv("TASK_TIMEOUT_SECONDS", "45")
	t.Setenv("CACHE_TTL_MINUTES", "15")
	t.Setenv("ITEM_TTL_HOURS", "24")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := loadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 45, cfg.Processing.TaskTimeoutSeconds)
	assert.Equal(t, 15, cfg.Processing.CacheTTLMinutes)
	assert.Equal(t, 24, cfg.Sharing.ItemTTLHours)
	assert.Equal(t, "warn", cfg.Logging.Level)

	t.Run("некорректный порт", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "not-a-port")
		_, err := loadFromEnv()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	validConfig := func(t *testing.T) *Config {
		cfg, err := loadFromYAML(createTempConfigFile(t, fullYAML))
		require.NoError(t, err)
		cfg.applyDefaults()
		return cfg
	}

	testCases := []struct {
		name    string
		mutator func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"invalid port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"invalid shutdown timeout", func(c *Config) { c.Server.ShutdownTimeoutSeconds = 0 }, true},
		{"invalid max upload", func(c *Config) { c.Server.MaxUploadSizeMB = 0 }, true},
		{"negative task_timeout", func(c *Config) { c.Processing.TaskTimeoutSeconds = -1 }, true},
		{"zero task_timeout is unlimited", func(c *Config) { c.Processing.TaskTimeoutSeconds = 0 }, false},
		{"invalid cache_ttl", func(c *Config) { c.Processing.CacheTTLMinutes = 0 }, true},
		{"invalid item_ttl", func(c *Config) { c.Sharing.ItemTTLHours = 0 }, true},
		{"invalid logging level", func(c *Config) { c.Logging.Level = "wrong" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutator(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
