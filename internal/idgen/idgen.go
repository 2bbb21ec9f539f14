// Package idgen provides the unique-id sources used for new todos.
package idgen

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on every call.
type Generator func() string

// Default prefers a random (v4) UUID and falls back to a timestamp-based id
// when the system's cryptographic randomness source cannot be read.
func Default() Generator {
	return func() string {
		id, err := uuid.NewRandom()
		if err != nil {
			return Fallback(time.Now)()
		}
		return id.String()
	}
}

// Fallback builds ids from the base-36 millisecond timestamp followed by a
// base-36 random suffix.
func Fallback(now func() time.Time) Generator {
	return func() string {
		return strconv.FormatInt(now().UnixMilli(), 36) + strconv.FormatUint(rand.Uint64(), 36)
	}
}

// Sequence returns "<prefix>1", "<prefix>2", ... Useful for deterministic tests.
func Sequence(prefix string) Generator {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}
