package store

import (
	"errors"
	"fmt"
)

// Op names the persistence step that failed.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
	OpLock  Op = "lock"
)

// ErrEmptyCity is returned by Add for a blank city name.
var ErrEmptyCity = errors.New("city must not be empty")

// PersistenceError wraps a failure to read, write or lock the history file.
type PersistenceError struct {
	Op   Op
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
