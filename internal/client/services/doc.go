// Package services contains the application services of the restorder
// terminal client: the session and cart stores that own persisted client
// state, and thin guarded wrappers over the backend for addresses, menu,
// orders, checkout and image upload.
//
// Stores are constructed once and injected into the views that need them.
// Guarded operations check the session first and fail with
// common.ErrSessionPending, common.ErrNotLoggedIn or common.ErrForbidden
// before any network call is made. These guards shape the UI only; the
// backend enforces authorization on its own.
package services
