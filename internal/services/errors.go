package services

import "errors"

// Sentinel errors forming the service error taxonomy. Services wrap these
// with fmt.Errorf("...: %w", ...) so callers can branch with errors.Is while
// the message keeps the specifics.
var (
	// ErrNotFound: the addressed inquiry, product or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: authenticated, but the role or ownership check failed.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation: a required field is missing or has an invalid value.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated: credentials did not resolve to a principal.
	ErrUnauthenticated = errors.New("invalid credentials")
)
