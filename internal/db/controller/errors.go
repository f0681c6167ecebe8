// Package controller holds the errors shared by the CRUD controllers below it.
package controller

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNotFound is wrapped by every controller's not found error.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is wrapped by every controller's duplicate error.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput is wrapped by every controller's validation error.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden is wrapped when an operation is never allowed, whatever the privileges.
	ErrForbidden = errors.New("forbidden")
)

// Translate maps gorm errors onto the given sentinels and passes everything else through.
func Translate(err, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate
	default:
		return fmt.Errorf("database: %w", err)
	}
}
