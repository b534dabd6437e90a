// Package common defines shared constants and sentinel errors used across
// the branchsync components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Backend/auth errors.
	ErrAuthExpired   = errors.New("authorization expired")
	ErrQuotaExceeded = errors.New("remote storage quota exceeded")
	ErrNotConfigured = errors.New("backend not configured")

	// Expected-absent resources (a valid state, not a fault).
	ErrNotFound = errors.New("not found")

	// Local storage / payload errors.
	ErrStorage    = errors.New("local storage failure")
	ErrValidation = errors.New("validation error")

	// Archival errors.
	ErrEmptyData = errors.New("no data in selected range")

	// Transient transport errors (safe to retry manually, never retried
	// automatically).
	ErrUpload  = errors.New("upload failed")
	ErrNetwork = errors.New("network error")
)
