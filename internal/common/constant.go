// Package common contains shared constants and sentinel errors used across
// restorder client components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// REST calls and on the push-channel handshake.
const AuthorizationHeaderName = "Authorization"

// Storage keys under which the client persists its state as JSON blobs.
const (
	SessionStorageKey = "session"
	CartStorageKey    = "cart"
)
