package service

import (
	"errors"
	"fmt"

	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
)

var (
	ErrClusterNotFound    = errors.New("cluster not found")
	ErrDatabaseNotFound   = errors.New("database not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError is returned for malformed input; its message is meant for
// the caller.
type ValidationError = domain.ValidationError

// UnavailableError wraps a failing collaborator (metadata store or live
// cluster connection). Callers may retry; the service never does.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func unavailable(op string, err error) error {
	return &UnavailableError{Op: op, Err: err}
}

// lookupError maps a repository lookup failure onto notFound when no row
// matched and onto an UnavailableError otherwise.
func lookupError(op string, err error, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return unavailable(op, err)
}
