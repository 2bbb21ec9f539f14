// Package store holds the observable todo collection.
//
// A Store keeps an ordered list of todos in memory, newest first, and
// mirrors it into a single record of a storage.Storage after every
// mutation. Observers registered with Subscribe see the whole list each
// time it changes. Mutations never fail from the caller's point of view:
// bad input is ignored and persistence failures are only logged.
//
// A Store is not safe for concurrent use. Drive it from one goroutine;
// the TUI routes file-watcher events through its update loop for this
// reason.
package store

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/idgen"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/storage"
)

// Observer receives the current collection. The slice is the observer's own
// copy.
type Observer func([]model.Todo)

type subscription struct {
	id int
	fn Observer
}

// Store is the observable todo collection.
type Store struct {
	items []model.Todo

	subs    []subscription
	nextSub int

	storage storage.Storage
	key     string
	now     func() time.Time
	newID   idgen.Generator
	log     *zap.Logger
}

// New returns an empty store. Call Load to pick up the persisted record.
func New(opts ...Option) *Store {
	s := defaults()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn and calls it immediately with the current
// collection. The returned function removes the registration; calling it
// again does nothing.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	fn(model.Clone(s.items))

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Todos returns a copy of the current collection.
func (s *Store) Todos() []model.Todo {
	return model.Clone(s.items)
}

// Load replaces the collection with the persisted record. An absent record
// leaves the collection as it is. An unreadable or malformed record resets
// the collection to empty.
func (s *Store) Load() {
	payload, ok, err := s.storage.Get(s.key)
	if err != nil {
		s.log.Error("load todos: read failed, starting empty", zap.String("key", s.key), zap.Error(err))
		s.set([]model.Todo{})
		return
	}
	if !ok || payload == "" {
		return
	}
	todos, err := decode(payload)
	if err != nil {
		s.log.Error("load todos: malformed record, starting empty", zap.String("key", s.key), zap.Error(err))
		s.set([]model.Todo{})
		return
	}
	s.log.Debug("todos loaded", zap.String("key", s.key), zap.Int("count", len(todos)))
	s.set(todos)
}

// Save writes todos to the persisted record. Failures are logged; the
// in-memory collection is not touched either way.
func (s *Store) Save(todos []model.Todo) {
	payload, err := encode(todos)
	if err != nil {
		s.log.Error("save todos: encode failed", zap.String("key", s.key), zap.Error(err))
		return
	}
	if err := s.storage.Set(s.key, payload); err != nil {
		s.log.Error("save todos: write failed", zap.String("key", s.key), zap.Int("count", len(todos)), zap.Error(err))
	}
}

// Add prepends a new pending todo. Blank text is ignored.
func (s *Store) Add(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	now := s.now()
	todo := model.Todo{
		ID:        s.newID(),
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.update(func(todos []model.Todo) []model.Todo {
		return append([]model.Todo{todo}, todos...)
	})
}

// Update replaces the text of the todo with id. Blank text is ignored. An
// unknown id still persists and notifies.
func (s *Store) Update(id, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	now := s.now()
	s.update(func(todos []model.Todo) []model.Todo {
		for i := range todos {
			if todos[i].ID == id {
				todos[i].Text = text
				todos[i].UpdatedAt = now
			}
		}
		return todos
	})
}

// Toggle flips the completion state of the todo with id.
func (s *Store) Toggle(id string) {
	now := s.now()
	s.update(func(todos []model.Todo) []model.Todo {
		for i := range todos {
			if todos[i].ID == id {
				todos[i].Completed = !todos[i].Completed
				todos[i].UpdatedAt = now
			}
		}
		return todos
	})
}

// Delete removes the todo with id, if present.
func (s *Store) Delete(id string) {
	s.update(func(todos []model.Todo) []model.Todo {
		return filter(todos, func(t model.Todo) bool { return t.ID != id })
	})
}

// ClearCompleted removes every completed todo.
func (s *Store) ClearCompleted() {
	s.update(func(todos []model.Todo) []model.Todo {
		return filter(todos, func(t model.Todo) bool { return !t.Completed })
	})
}

// ClearAll empties the collection and deletes the persisted record
// instead of writing an empty list.
func (s *Store) ClearAll() {
	if err := s.storage.Remove(s.key); err != nil {
		s.log.Error("clear todos: remove failed", zap.String("key", s.key), zap.Error(err))
	}
	s.set([]model.Todo{})
}

// update recomputes the collection from a private copy, persists the
// result and notifies.
func (s *Store) update(fn func([]model.Todo) []model.Todo) {
	next := fn(model.Clone(s.items))
	s.Save(next)
	s.set(next)
}

func (s *Store) set(todos []model.Todo) {
	s.items = todos
	subs := append([]subscription(nil), s.subs...)
	for _, sub := range subs {
		sub.fn(model.Clone(todos))
	}
}

func filter(todos []model.Todo, keep func(model.Todo) bool) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
