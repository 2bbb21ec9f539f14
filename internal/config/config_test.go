package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"TADA_STORAGE", "TADA_PATH", "TADA_DSN", "TADA_KEY", "TADA_LOG_LEVEL", "TADA_THEME"} {
		t.Setenv(name, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, DefaultKey, cfg.Storage.Key)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "classic", cfg.UI.Theme)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
storage:
  backend: sqlite
  path: /tmp/tada.db
  key: work
logging:
  level: debug
ui:
  theme: neon
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/tada.db", cfg.Storage.Path)
	assert.Equal(t, "work", cfg.Storage.Key)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "neon", cfg.UI.Theme)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: sqlite\n"), 0o644))

	t.Setenv("TADA_STORAGE", "memory")
	t.Setenv("TADA_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "from-env", cfg.Storage.Key)
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, true},
		{"mysql without dsn", func(c *Config) { c.Storage.Backend = BackendMySQL }, true},
		{"mysql with dsn", func(c *Config) {
			c.Storage.Backend = BackendMySQL
			c.Storage.DSN = "user:pw@tcp(localhost:3306)/tada"
		}, false},
		{"empty key", func(c *Config) { c.Storage.Key = "  " }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), expandHome("~/data"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
}

func TestLoad_LeavesValidationToCaller(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: MySQL\n  path: ~/todos\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMySQL, cfg.Storage.Backend)
	assert.Error(t, cfg.Validate())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "todos"), cfg.Storage.Path)

	cfg.Storage.Backend = " Memory "
	cfg.Normalize()
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.NoError(t, cfg.Validate())
}
