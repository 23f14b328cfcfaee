// Package common defines shared sentinel errors used across the storage and
// service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNoConnection = errors.New("no connection")
	ErrQuery        = errors.New("query failed")
	ErrDuplicate    = errors.New("duplicate key")

	// Service-level errors.
	ErrorInternal  = errors.New("internal error")
	ErrAuthFailure = errors.New("incorrect email or password")

	// Seed data errors.
	ErrInvalidSeed = errors.New("invalid seed data")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
