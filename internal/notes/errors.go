package notes

import "errors"

var (
	ErrNotFound      = errors.New("note not found")
	ErrAlreadyExists = errors.New("note already exists")
	ErrInvalidInput  = errors.New("missing required fields")

	// ErrStorage marks failures of the persisted collection (I/O, corrupt data).
	// It is never returned bare; the underlying cause is always wrapped with it.
	ErrStorage = errors.New("note storage failure")
)
