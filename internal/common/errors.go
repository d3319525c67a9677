// Package common defines shared constants and sentinel errors used across
// the server and client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Registration / login errors.
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrWrongPassword     = errors.New("incorrect password")

	// Auth errors (missing, invalid or malformed token).
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")

	// Plan generation errors.
	ErrUpstreamGenerationFailed = errors.New("upstream generation failed")
	ErrRateLimited              = errors.New("rate limit exceeded")

	ErrValidation     = errors.New("validation error")
	ErrExportDisabled = errors.New("plan export is disabled")
)
