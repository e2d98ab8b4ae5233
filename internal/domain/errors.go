package domain

import "errors"

// Failure taxonomy surfaced by every operation of the subsystem.
// Callers match with errors.Is; adapters map these onto transport codes.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")
)
