package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/restorder/internal/client/models"
)

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, r models.Registration) (*models.User, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*models.User, error)
	Profile(ctx context.Context) (*models.User, error)
}

type AddressAPI interface {
	ListAddresses(ctx context.Context) ([]models.Address, error)
	CreateAddress(ctx context.Context, a models.Address) (*models.Address, error)
	UpdateAddress(ctx context.Context, a models.Address) (*models.Address, error)
	DeleteAddress(ctx context.Context, id string) error
	SetDefaultAddress(ctx context.Context, id string) (*models.Address, error)
}

type MenuAPI interface {
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item models.MenuItem) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item models.MenuItem) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
}

type OrderAPI interface {
	MyOrders(ctx context.Context) ([]models.Order, error)
	AdminOrders(ctx context.Context, page, limit int, search string) (*models.OrderPage, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

type PaymentAPI interface {
	CreatePayment(ctx context.Context, amount int64, currency, receipt string) (*models.PaymentOrder, error)
	// VerifyPayment returns the materialized order, or nil when the backend
	// does not echo it.
	VerifyPayment(ctx context.Context, v models.PaymentVerification) (*models.Order, error)
}

type ImageAPI interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (*models.Image, error)
}

// Client is the full backend surface used by the terminal client.
type Client interface {
	AuthAPI
	AddressAPI
	MenuAPI
	OrderAPI
	PaymentAPI
	ImageAPI

	// Ping reports whether the backend answers at all.
	Ping(ctx context.Context) error
}
