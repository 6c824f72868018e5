// Package common defines sentinel errors shared across the service layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal = errors.New("internal error")

	// ErrAuthenticationFailed is returned for any credential failure.
	// Unknown email and wrong password are deliberately indistinguishable.
	ErrAuthenticationFailed = errors.New("invalid credentials")

	// Registration validation errors.
	ErrPasswordMismatch = errors.New("password does not match")
	ErrDuplicateEmail   = errors.New("email already exists")

	// Token validation errors. Exactly one of these is returned per failure;
	// signature failures that fit no other kind map to ErrTokenMalformed.
	ErrTokenMalformed   = errors.New("malformed token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenUnsupported = errors.New("unsupported token")
	ErrInvalidArgument  = errors.New("empty or missing claims")
)
