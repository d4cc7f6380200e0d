package apperrors

import "errors"

var (
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrInvalidDescriptor  = errors.New("invalid entity descriptor")
	ErrMalformedPayload   = errors.New("malformed payload")
	ErrInvariantViolation = errors.New("encoding invariant violation")
	ErrRegistrySealed     = errors.New("metric registry is sealed")
)
