// Package ordersync keeps an order list view consistent with the backend.
//
// A Feed fetches the current snapshot through the plain read endpoint,
// opens a push subscription for the view's channel and merges every pushed
// update into a List. Updates for known orders replace them in place
// unless they are older than what is shown; unknown orders are prepended in
// admin mode and ignored for customers. Snapshots are cached locally so a
// client that cannot reach the backend still shows the last known list.
package ordersync
