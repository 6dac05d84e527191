// Package push implements the client side of the backend's order push
// channel: a WebSocket connection carrying JSON event frames.
//
// Frames have the shape {"event": <name>, "data": <payload>}. After the
// handshake the subscriber announces the channel it wants (joinRoom with the
// user id for customers, joinAdmin for staff) and then delivers every
// orderUpdated payload to its callback. Other events are ignored.
//
// A Subscriber serves one connection. It never reconnects; Close is
// idempotent and safe to call from any goroutine, which makes it suitable
// as the disconnect hook handed to the session on logout.
package push
