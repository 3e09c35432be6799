package service

import (
	"errors"
	"fmt"

	"github.com/akshayds23/Whizrobo/internal/model"
)

// Error kinds surfaced by the core. Callers match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrAccessDenied = errors.New("access denied")
)

// NotFoundError names the record that did not resolve
type NotFoundError struct {
	Entity model.EntityType
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity model.EntityType, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func accessDenied(reason string) error {
	return fmt.Errorf("%w: %s", ErrAccessDenied, reason)
}
