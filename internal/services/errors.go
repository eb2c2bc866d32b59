package services

import "errors"

// Sentinel errors shared by the services. "No active contract" is not here on
// purpose: it is a valid resolution outcome, not a failure (see RateResolution).
var (
	ErrNotFound        = errors.New("not_found")
	ErrVersionConflict = errors.New("version_conflict")
	ErrInvalidState    = errors.New("invalid_state")
)
