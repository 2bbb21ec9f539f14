package store

import (
	"time"

	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/idgen"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/storage"
)

// Option configures a Store.
type Option func(*Store)

// WithStorage sets the backend the collection is persisted into.
// Without it the store is memory-only.
func WithStorage(s storage.Storage) Option {
	return func(st *Store) {
		if s != nil {
			st.storage = s
		}
	}
}

// WithKey sets the key of the persisted record.
func WithKey(key string) Option {
	return func(st *Store) {
		if key != "" {
			st.key = key
		}
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(st *Store) {
		if now != nil {
			st.now = now
		}
	}
}

// WithIDGenerator replaces the id source for new todos.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(st *Store) {
		if gen != nil {
			st.newID = gen
		}
	}
}

// WithLogger sets where persistence failures are reported.
func WithLogger(log *zap.Logger) Option {
	return func(st *Store) {
		if log != nil {
			st.log = log
		}
	}
}

func defaults() *Store {
	return &Store{
		storage: storage.Disabled{},
		key:     config.DefaultKey,
		now:     time.Now,
		newID:   idgen.Default(),
		log:     zap.NewNop(),
		items:   []model.Todo{},
	}
}
