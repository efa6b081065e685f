package domain

import "errors"

// Common domain errors.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the caller supplied invalid parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidResponse indicates the backend returned a payload that
	// does not carry the fields a successful response must have.
	ErrInvalidResponse = errors.New("invalid response")
)
