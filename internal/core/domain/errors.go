package domain

import (
	"errors"
	"fmt"
)

// Error categories. The transport layer maps each category to exactly one
// status code; anything that matches none of them is an internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

var (
	ErrMissingCredentials = fmt.Errorf("%w: username and password are required", ErrValidation)
	ErrPasswordTooLong    = fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
	ErrInvalidDay         = fmt.Errorf("%w: date is required to be positive integer", ErrValidation)
	ErrDayNotAligned      = fmt.Errorf("%w: date must be aligned to 00:00 UTC", ErrValidation)
	ErrInvalidImportRow   = fmt.Errorf("%w: invalid import row", ErrValidation)

	ErrUserExists = fmt.Errorf("%w: username already exists", ErrConflict)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)

	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrAmenityNotFound = fmt.Errorf("%w: amenity not found", ErrNotFound)
)
