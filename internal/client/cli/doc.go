// Package cli provides the interactive restorder terminal client.
//
// It wires configuration, local storage, the REST client and the order push
// channel behind a REPL. Typical flow: restore the stored session, start a
// background connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login (password or emailed one-time code) / Logout
//   - Browse the menu, keep a persistent cart, check out with a payment step
//   - Manage delivery addresses
//   - Follow order status live ('watch'), with a bell on new admin orders
//   - Admin: list and advance orders, edit the menu, upload images
//
// Commands that need a session start the login flow when nobody is logged
// in. The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
