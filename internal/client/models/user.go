// Package models defines the client-side data models of the restorder CLI:
// the session identity, menu items, cart lines, orders and addresses as the
// backend serializes them.
package models

// Role distinguishes customers from restaurant staff.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the authenticated identity returned by the auth endpoints. Token
// is the opaque bearer token sent with every authorized call.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"number,omitempty"`
	Role  Role   `json:"role"`
	Token string `json:"token"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Registration is the payload of the register endpoint.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"number"`
	Password string `json:"password"`
}
