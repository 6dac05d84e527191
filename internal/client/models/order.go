package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OrderStatus is the server-owned lifecycle state of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusAccepted       OrderStatus = "Accepted"
	StatusPreparing      OrderStatus = "Preparing"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// OrderStatuses lists the statuses in lifecycle order; Cancelled is the
// escape branch and sits last.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// ParseOrderStatus matches s case-insensitively against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Rank is the position along the forward sequence, -1 for Cancelled or
// unknown values.
func (s OrderStatus) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusAccepted:
		return 1
	case StatusPreparing:
		return 2
	case StatusOutForDelivery:
		return 3
	case StatusDelivered:
		return 4
	default:
		return -1
	}
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether moving from s to next keeps the lifecycle
// monotonic: forward along the sequence, or Cancelled from any non-terminal
// status.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.IsTerminal() || s.Rank() < 0 {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return next.Rank() > s.Rank()
}

// UserRef is the order owner. The backend sends either the bare id or the
// populated user document.
type UserRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (r *UserRef) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		*r = UserRef{ID: id}
		return nil
	}
	type plain UserRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = UserRef(p)
	return nil
}

// OrderItem references the menu item snapshot taken when the order was placed.
type OrderItem struct {
	MenuItem *MenuItem `json:"menuItem"`
	Quantity int       `json:"quantity"`
}

// Order is the client's read-only copy of a server-side order.
type Order struct {
	// ID is the server-assigned identifier.
	ID string `json:"_id"`

	User            UserRef     `json:"user"`
	Items           []OrderItem `json:"items"`
	TotalPrice      float64     `json:"totalPrice"`
	Status          OrderStatus `json:"status"`
	DeliveryAddress Address     `json:"deliveryAddress"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Version is an optional monotonic counter; zero when the backend does
	// not send one.
	Version int64 `json:"version,omitempty"`
}

// ShortID is the tail of the id used in notifications.
func (o Order) ShortID() string {
	if len(o.ID) <= 5 {
		return o.ID
	}
	return o.ID[len(o.ID)-5:]
}

// OlderThan reports whether o is a strictly older revision of the same
// order than current. Versions win when both sides carry one, otherwise
// UpdatedAt timestamps are compared. Without either, nothing is older.
func (o Order) OlderThan(current Order) bool {
	if o.Version > 0 && current.Version > 0 {
		return o.Version < current.Version
	}
	if !o.UpdatedAt.IsZero() && !current.UpdatedAt.IsZero() {
		return o.UpdatedAt.Before(current.UpdatedAt)
	}
	return false
}

// OrderPage is one page of the admin order listing.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
}
