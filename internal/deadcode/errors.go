package deadcode

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a lookup miss in the archive store, including records
// that have already expired via TTL eviction.
var ErrNotFound = errors.New("not found")

// NotFoundError wraps ErrNotFound with the identifier that missed.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("archive item not found: %s", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
