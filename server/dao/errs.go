package dao

import "errors"

// Errors returned by every Store implementation. They may be wrapped, so
// compare against them with errors.Is.
var (
	// ErrConstraintViolation is returned when a write would give two users the
	// same username, or two records the same ID.
	ErrConstraintViolation = errors.New("another crunchd record already has that unique value")

	// ErrNotFound is returned when no user or simplification has the ID,
	// username, or owner that was asked for.
	ErrNotFound = errors.New("no matching user or simplification is stored")

	// ErrDecodingFailure is returned when a stored grammar, role, email, or
	// timestamp no longer decodes into its DAO type.
	ErrDecodingFailure = errors.New("stored grammar or account data could not be decoded")
)
