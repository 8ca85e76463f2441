// Package common defines sentinel errors shared by the storage, registration
// and transport layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid, malformed or expired admin token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AccessTokenHeaderName is the gRPC metadata key carrying the admin token.
const AccessTokenHeaderName = "access_token"
