package common

import "errors"

// Sentinel errors shared across services. Handlers map these to transport
// codes; everything else surfaces as an internal error.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrForbidden  = errors.New("operation not permitted")
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("conflicting state")
)
