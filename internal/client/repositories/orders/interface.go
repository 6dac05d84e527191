package orders

import (
	"context"

	"github.com/dmitrijs2005/restorder/internal/client/models"
)

const (
	ScopeMine  = "mine"
	ScopeAdmin = "admin"
)

// UserScope is the scope holding one customer's own orders.
func UserScope(userID string) string {
	if userID == "" {
		return ScopeMine
	}
	return ScopeMine + ":" + userID
}

// Repository persists order snapshots per scope.
type Repository interface {
	// ReplaceAll drops every order in scope and stores list in its order.
	// Callers run it inside dbx.WithTx.
	ReplaceAll(ctx context.Context, scope string, list []models.Order) error

	// Upsert stores o, keeping its position when already present.
	Upsert(ctx context.Context, scope string, o models.Order) error

	// GetAll returns the snapshot of scope, empty when nothing was stored.
	GetAll(ctx context.Context, scope string) ([]models.Order, error)

	DeleteScope(ctx context.Context, scope string) error
}
