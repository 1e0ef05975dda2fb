package database

import "errors"

// Shared errors returned by the data layer. Handlers translate these to
// HTTP statuses with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrDuplicate  = errors.New("already exists")
	ErrValidation = errors.New("invalid input")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
