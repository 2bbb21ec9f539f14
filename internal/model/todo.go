package model

import "time"

// Todo is the domain model for a todo entry.
// ID and CreatedAt never change after creation; UpdatedAt follows every
// change to Text or Completed.
type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a copy of todos that shares no backing array with it.
// A nil input yields an empty, non-nil slice.
func Clone(todos []Todo) []Todo {
	out := make([]Todo, len(todos))
	copy(out, todos)
	return out
}

// Stats counts completed and pending items.
func Stats(todos []Todo) (done, pending int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
