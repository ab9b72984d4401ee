package model

import "errors"

// Error taxonomy shared by the store, the inventory services and the API.
var (
	// ErrValidationFailed marks caller-supplied data that violates a contract.
	ErrValidationFailed = errors.New("validation failed")
	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrStoreUnavailable marks a transient storage failure, including timeouts.
	// Safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound marks a referenced entity that does not exist for the tenant.
	ErrNotFound = errors.New("not found")
)

// IsKnown reports whether err already belongs to the taxonomy.
func IsKnown(err error) bool {
	return errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrNotFound)
}
