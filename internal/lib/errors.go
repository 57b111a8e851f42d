package lib

import (
	"errors"
)

// Error kinds shared across services. Handlers map these onto HTTP statuses;
// anything that does not match is reported as a generic server failure and the
// detail stays in the logs.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrAlreadyReacted = errors.New("already reacted")
	ErrUnauthorized   = errors.New("invalid credentials")
	ErrConflict       = errors.New("conflict")
	ErrUpstream       = errors.New("upstream failure")
	ErrStorage        = errors.New("storage failure")
)

// IsClientError reports whether err is one of the kinds a caller can recover
// from, as opposed to a storage or upstream failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrAlreadyReacted) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrConflict)
}
