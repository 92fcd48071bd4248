package services

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist or is
	// not visible to the caller
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller may not touch the record
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when a unique value is already taken or a row is
	// still referenced
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput is returned for requests that fail business validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrDeleteInProgress is returned when the same project is already being deleted
	ErrDeleteInProgress = errors.New("a delete for this project is already in progress")
	// ErrInvalidCredentials is returned for a wrong email or password
	ErrInvalidCredentials = errors.New("invalid email or password")
)
