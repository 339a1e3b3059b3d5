package journal

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no live entry matches the requested ID.
//
// It is a normal outcome: the store is left unchanged.
var ErrNotFound = errors.New("entry not found")

// ErrInvalidEntry is returned when an entry cannot be written in a form the
// journal reads back. The store is left unchanged.
var ErrInvalidEntry = errors.New("invalid entry")

// ErrIDsExhausted is returned by Add once the largest entry ID has been used.
var ErrIDsExhausted = errors.New("no entry ID left")

// PersistError reports that the journal could not be written back to its file.
//
// Memory and disk have diverged when it happens, the store refuses any further
// mutation and callers are expected to stop the process.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("could not persist journal to %q: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// IsFatal reports whether err leaves the journal in an unrecoverable state.
func IsFatal(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
