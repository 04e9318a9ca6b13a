package repository

import "errors"

var (
	// ErrNotFound is returned when an article id does not exist.
	ErrNotFound = errors.New("article not found")

	// ErrConflict is returned by Create when the source URL is already
	// stored. Ingestion treats it the same as a dedup-gate hit.
	ErrConflict = errors.New("article already exists")

	// ErrValidation is returned when a required article field is missing.
	ErrValidation = errors.New("missing required field")
)
