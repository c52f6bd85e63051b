package database

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when an operation needs the store before
	// Connect succeeded, after Close, or while the server is unreachable.
	ErrNotConnected = errors.New("not connected to the data store")

	// ErrConnection matches any *ConnectionError.
	ErrConnection = errors.New("data store connection failed")

	// ErrRepository matches any *RepositoryError.
	ErrRepository = errors.New("data store operation failed")
)

// ConnectionError is returned when the store endpoint is unreachable or
// rejects the handshake.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// RepositoryError wraps a failed store operation.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

func (e *RepositoryError) Is(target error) bool {
	return target == ErrRepository
}

// NewRepositoryError wraps err for op. A nil err stays nil.
func NewRepositoryError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RepositoryError{Op: op, Err: err}
}

// IsNotConnected reports whether err means the store link is down.
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}
