package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the backend named by cfg. A backend that cannot be brought up
// on this host degrades to Disabled with a warning, so the caller still gets
// a working memory-only store. Only an unknown backend name is an error.
func Open(cfg config.Storage, log *zap.Logger) (Storage, io.Closer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	degrade := func(err error) (Storage, io.Closer, error) {
		log.Warn("storage unavailable, changes will not be persisted",
			zap.String("backend", cfg.Backend), zap.Error(err))
		return Disabled{}, nopCloser{}, nil
	}

	switch cfg.Backend {
	case config.BackendFile, "":
		f, err := NewFile(cfg.Path)
		if err != nil {
			return degrade(err)
		}
		log.Debug("storage opened", zap.String("backend", "file"), zap.String("dir", cfg.Path))
		return f, nopCloser{}, nil

	case config.BackendSQLite:
		path := cfg.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "tada.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return degrade(fmt.Errorf("mkdir: %w", err))
		}
		s, err := OpenSQL(DialectSQLite, path)
		if err != nil {
			return degrade(err)
		}
		log.Debug("storage opened", zap.String("backend", "sqlite"), zap.String("path", path))
		return s, s, nil

	case config.BackendMySQL:
		s, err := OpenSQL(DialectMySQL, cfg.DSN)
		if err != nil {
			return degrade(err)
		}
		log.Debug("storage opened", zap.String("backend", "mysql"))
		return s, s, nil

	case config.BackendMemory:
		return NewMemory(), nopCloser{}, nil

	case config.BackendNone:
		return Disabled{}, nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
