// Package common defines shared constants and sentinel errors used across
// the StormBuddi mobile client. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// API transport errors, mapped from HTTP status codes.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNoContent    = errors.New("no content")
	ErrUnavailable  = errors.New("server unavailable")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrNoToken      = errors.New("no stored token")
)
