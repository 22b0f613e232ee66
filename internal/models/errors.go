package models

import "errors"

var (
	// ErrTypeMismatch is returned when a cache payload slot does not hold the
	// type its position requires.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrData is returned when an export document does not match the canonical shape.
	ErrData = errors.New("malformed document")
	// ErrValidation is returned for rejected user input.
	ErrValidation = errors.New("validation failed")
)
