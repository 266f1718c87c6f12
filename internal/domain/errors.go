package domain

import "errors"

var (
	// ErrNotFound indicates no record carries the requested sync_id.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates an entity failed field validation and was not persisted.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedRow indicates a remote row could not be decoded.
	ErrMalformedRow = errors.New("malformed row")

	// ErrGateway indicates the remote tabular backend failed.
	ErrGateway = errors.New("remote gateway failure")

	// ErrCascade indicates deleteActivity tombstoned the activity but could
	// not rewrite every referencing session.
	ErrCascade = errors.New("cascade failed")
)
