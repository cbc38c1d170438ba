package analytics

import "errors"

var (
	// ErrRecordRepositoryRequired is returned when a record repository is not provided.
	ErrRecordRepositoryRequired = errors.New("record repository required")

	// ErrInvalidCriteria is returned when analysis criteria are incomplete or inconsistent.
	ErrInvalidCriteria = errors.New("invalid analysis criteria")
)
