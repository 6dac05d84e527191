// Package common defines shared constants and sentinel errors used across
// the client layers of restorder. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Transport-level errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation error")
	ErrUnavailable  = errors.New("server unavailable")

	// Session errors.
	ErrAuthentication = errors.New("invalid credentials")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrSessionPending = errors.New("session check pending")

	// Cart / checkout errors.
	ErrEmptyCart     = errors.New("cart is empty")
	ErrPaymentFailed = errors.New("payment failed")

	// Order-specific errors.
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStaleUpdate       = errors.New("stale order update")
)
