package store

import (
	"encoding/json"
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

// encode renders the persisted record: a JSON array of todos with
// RFC 3339 timestamps.
func encode(todos []model.Todo) (string, error) {
	if todos == nil {
		todos = []model.Todo{}
	}
	b, err := json.Marshal(todos)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// decode parses a persisted record. Timestamps come back as time.Time.
func decode(payload string) ([]model.Todo, error) {
	var todos []model.Todo
	if err := json.Unmarshal([]byte(payload), &todos); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if todos == nil {
		// "null" decodes without error
		todos = []model.Todo{}
	}
	return todos, nil
}
