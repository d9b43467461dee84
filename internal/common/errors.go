// Package common defines shared constants and sentinel errors used across
// the store, service and transport layers. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("email already exists")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// ErrAlreadyRegistered is returned by registration when the email is taken.
	// It matches ErrConflict as well.
	ErrAlreadyRegistered = fmt.Errorf("user with this email already exists: %w", ErrConflict)

	// Auth errors. Login never says which half of the credentials was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// ErrTokenExpired matches ErrInvalidToken as well.
	ErrTokenExpired = fmt.Errorf("token expired: %w", ErrInvalidToken)
)
