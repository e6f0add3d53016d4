// Package common defines shared sentinel errors used across the
// data-access layer. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorUnknownEntity = errors.New("unknown entity type")
	ErrorUnknownField  = errors.New("unknown field")

	// Service-level errors.
	ErrorValidation       = errors.New("validation failed")
	ErrorStoreUnavailable = errors.New("store unavailable")

	// ErrorCacheInconsistency signals an internal cache invariant
	// violation. Must not occur in production by construction; tests
	// treat it as fatal.
	ErrorCacheInconsistency = errors.New("cache inconsistency")
)
