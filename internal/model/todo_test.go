package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClone(t *testing.T) {
	t.Run("Nil Yields Empty", func(t *testing.T) {
		got := Clone(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Does Not Share Backing Array", func(t *testing.T) {
		src := []Todo{{ID: "a", Text: "one"}}
		got := Clone(src)
		got[0].Text = "changed"
		assert.Equal(t, "one", src[0].Text)
	})
}

func TestStats(t *testing.T) {
	todos := []Todo{
		{ID: "a", Completed: true},
		{ID: "b"},
		{ID: "c"},
	}
	done, pending := Stats(todos)
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, pending)

	done, pending = Stats(nil)
	assert.Zero(t, done)
	assert.Zero(t, pending)
}
