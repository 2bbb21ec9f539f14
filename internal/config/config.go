package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends understood by storage.Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// DefaultKey names the persisted record when no key is configured.
const DefaultKey = "tada-todos"

// Config holds all tada configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
	UI      UI      `yaml:"ui"`
}

// Storage selects where the todo list is persisted.
type Storage struct {
	Backend string `yaml:"backend"` // file, sqlite, mysql, memory, none
	Path    string `yaml:"path"`    // directory for file, database file for sqlite
	DSN     string `yaml:"dsn"`     // mysql only
	Key     string `yaml:"key"`
}

// Logging configures the diagnostic logger (not user-facing output).
type Logging struct {
	Level string `yaml:"level"`
}

// UI configures the CLI renderer.
type UI struct {
	Theme string `yaml:"theme"`
}

// Dir returns ~/.tada, the home of the config file and the default data dir.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tada"), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	path := ".tada"
	if dir, err := Dir(); err == nil {
		path = dir
	}
	return &Config{
		Storage: Storage{
			Backend: BackendFile,
			Path:    path,
			Key:     DefaultKey,
		},
		Logging: Logging{Level: "warn"},
		UI:      UI{Theme: "classic"},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path means ~/.tada/config.yaml; a missing
// file is not an error. A .env file in the working directory, if present,
// is loaded into the environment first.
//
// Load does not validate: callers layer their own overrides on top, call
// Normalize, then Validate.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		dir, err := Dir()
		if err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	cfg.Normalize()
	return cfg, nil
}

// Normalize lower-cases the backend name and expands a leading ~ in the
// storage path.
func (c *Config) Normalize() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Storage.Path = expandHome(c.Storage.Path)
}

func (c *Config) applyEnv() {
	set := func(dst *string, name string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	set(&c.Storage.Backend, "TADA_STORAGE")
	set(&c.Storage.Path, "TADA_PATH")
	set(&c.Storage.DSN, "TADA_DSN")
	set(&c.Storage.Key, "TADA_KEY")
	set(&c.Logging.Level, "TADA_LOG_LEVEL")
	set(&c.UI.Theme, "TADA_THEME")
}

// Validate reports configuration that storage.Open could not honour.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory, BackendNone:
	case BackendMySQL:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage: mysql backend requires a dsn")
		}
	default:
		return fmt.Errorf("storage: unknown backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage: empty key")
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
