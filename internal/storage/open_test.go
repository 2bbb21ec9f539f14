package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Makepad-fr/tada/internal/config"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.Storage
		want any
	}{
		{"file", config.Storage{Backend: config.BackendFile, Path: dir}, &File{}},
		{"sqlite", config.Storage{Backend: config.BackendSQLite, Path: filepath.Join(dir, "db")}, &SQL{}},
		{"memory", config.Storage{Backend: config.BackendMemory}, &Memory{}},
		{"none", config.Storage{Backend: config.BackendNone}, Disabled{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, closer, err := Open(tt.cfg, nil)
			require.NoError(t, err)
			defer closer.Close()
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestOpen_SQLiteDefaultsFileName(t *testing.T) {
	dir := t.TempDir()
	_, closer, err := Open(config.Storage{Backend: config.BackendSQLite, Path: dir}, nil)
	require.NoError(t, err)
	defer closer.Close()

	_, err = os.Stat(filepath.Join(dir, "tada.db"))
	assert.NoError(t, err)
}

func TestOpen_DegradesToDisabled(t *testing.T) {
	// A regular file where the data directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	s, closer, err := Open(config.Storage{Backend: config.BackendFile, Path: filepath.Join(blocker, "data")}, zap.New(core))
	require.NoError(t, err)
	defer closer.Close()

	assert.IsType(t, Disabled{}, s)
	assert.Equal(t, 1, logs.FilterMessage("storage unavailable, changes will not be persisted").Len())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, _, err := Open(config.Storage{Backend: "redis"}, nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
