// Package client contains the transport-side building blocks of the
// restorder terminal client.
//
// # Overview
//
// The package provides:
//  1. The API contract of the restaurant backend, split by concern (AuthAPI,
//     AddressAPI, MenuAPI, OrderAPI, PaymentAPI, ImageAPI) and composed into
//     Client.
//  2. HTTPClient, a JSON-over-HTTP implementation that injects the bearer
//     token of the current session through a RoundTripper and maps failed
//     responses to APIError values.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations, NewRepositories)
//     for the SQLite file that replaces browser storage.
//  4. ParseTokenClaims, which reads expiry and role from a bearer token
//     without verifying it.
//
// # Error Handling
//
// APIError unwraps to the sentinel errors of internal/common so callers can
// match with errors.Is: ErrValidation, ErrUnauthorized, ErrForbidden,
// ErrNotFound and ErrUnavailable. Network failures are reported as
// ErrUnavailable.
package client
