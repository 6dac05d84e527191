package services

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/client/migrations"
	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/restorder/internal/common"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func setupRepo(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	return metadata.NewSQLiteRepository(setupDB(t))
}

// ---- fake guard ----

type fakeGuard struct {
	user models.User
	err  error
}

func (g fakeGuard) RequireUser() (models.User, error) { return g.user, g.err }

func (g fakeGuard) RequireAdmin() (models.User, error) {
	if g.err != nil {
		return g.user, g.err
	}
	if !g.user.IsAdmin() {
		return g.user, common.ErrForbidden
	}
	return g.user, nil
}

var (
	customer = fakeGuard{user: models.User{ID: "u1", Name: "Asha", Role: models.RoleUser, Token: "t"}}
	admin    = fakeGuard{user: models.User{ID: "a1", Name: "Chef", Role: models.RoleAdmin, Token: "t"}}
	nobody   = fakeGuard{err: common.ErrNotLoggedIn}
)

// ---- fake client ----

// fakeAPI implements client.Client. Unset funcs fail the call so a test
// notices when a guard let a request through.
type fakeAPI struct {
	calls int

	LoginFn    func(email, password string) (*models.User, error)
	RegisterFn func(r models.Registration) (*models.User, error)
	SendOTPFn  func(email string) error
	VerifyFn   func(email, code string) (*models.User, error)
	ProfileFn  func() (*models.User, error)

	ListAddressesFn func() ([]models.Address, error)
	CreateAddressFn func(a models.Address) (*models.Address, error)
	UpdateAddressFn func(a models.Address) (*models.Address, error)
	DeleteAddressFn func(id string) error
	SetDefaultFn    func(id string) (*models.Address, error)

	ListMenuFn   func() ([]models.MenuItem, error)
	CreateItemFn func(item models.MenuItem) (*models.MenuItem, error)
	UpdateItemFn func(item models.MenuItem) (*models.MenuItem, error)
	DeleteItemFn func(id string) error

	MyOrdersFn     func() ([]models.Order, error)
	AdminOrdersFn  func(page, limit int, search string) (*models.OrderPage, error)
	UpdateStatusFn func(id string, status models.OrderStatus) (*models.Order, error)

	CreatePaymentFn func(amount int64, currency, receipt string) (*models.PaymentOrder, error)
	VerifyPaymentFn func(v models.PaymentVerification) (*models.Order, error)

	UploadFn func(filename string, r io.Reader) (*models.Image, error)
}

var _ client.Client = (*fakeAPI)(nil)

var errNotStubbed = common.ErrUnavailable

func (f *fakeAPI) Ping(context.Context) error { return nil }

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.User, error) {
	f.calls++
	if f.LoginFn == nil {
		return nil, errNotStubbed
	}
	return f.LoginFn(email, password)
}

func (f *fakeAPI) Register(_ context.Context, r models.Registration) (*models.User, error) {
	f.calls++
	if f.RegisterFn == nil {
		return nil, errNotStubbed
	}
	return f.RegisterFn(r)
}

func (f *fakeAPI) SendOTP(_ context.Context, email string) error {
	f.calls++
	if f.SendOTPFn == nil {
		return errNotStubbed
	}
	return f.SendOTPFn(email)
}

func (f *fakeAPI) VerifyOTP(_ context.Context, email, code string) (*models.User, error) {
	f.calls++
	if f.VerifyFn == nil {
		return nil, errNotStubbed
	}
	return f.VerifyFn(email, code)
}

func (f *fakeAPI) Profile(context.Context) (*models.User, error) {
	f.calls++
	if f.ProfileFn == nil {
		return nil, errNotStubbed
	}
	return f.ProfileFn()
}

func (f *fakeAPI) ListAddresses(context.Context) ([]models.Address, error) {
	f.calls++
	if f.ListAddressesFn == nil {
		return nil, errNotStubbed
	}
	return f.ListAddressesFn()
}

func (f *fakeAPI) CreateAddress(_ context.Context, a models.Address) (*models.Address, error) {
	f.calls++
	if f.CreateAddressFn == nil {
		return nil, errNotStubbed
	}
	return f.CreateAddressFn(a)
}

func (f *fakeAPI) UpdateAddress(_ context.Context, a models.Address) (*models.Address, error) {
	f.calls++
	if f.UpdateAddressFn == nil {
		return nil, errNotStubbed
	}
	return f.UpdateAddressFn(a)
}

func (f *fakeAPI) DeleteAddress(_ context.Context, id string) error {
	f.calls++
	if f.DeleteAddressFn == nil {
		return errNotStubbed
	}
	return f.DeleteAddressFn(id)
}

func (f *fakeAPI) SetDefaultAddress(_ context.Context, id string) (*models.Address, error) {
	f.calls++
	if f.SetDefaultFn == nil {
		return nil, errNotStubbed
	}
	return f.SetDefaultFn(id)
}

func (f *fakeAPI) ListMenu(context.Context) ([]models.MenuItem, error) {
	f.calls++
	if f.ListMenuFn == nil {
		return nil, errNotStubbed
	}
	return f.ListMenuFn()
}

func (f *fakeAPI) CreateMenuItem(_ context.Context, item models.MenuItem) (*models.MenuItem, error) {
	f.calls++
	if f.CreateItemFn == nil {
		return nil, errNotStubbed
	}
	return f.CreateItemFn(item)
}

func (f *fakeAPI) UpdateMenuItem(_ context.Context, item models.MenuItem) (*models.MenuItem, error) {
	f.calls++
	if f.UpdateItemFn == nil {
		return nil, errNotStubbed
	}
	return f.UpdateItemFn(item)
}

func (f *fakeAPI) DeleteMenuItem(_ context.Context, id string) error {
	f.calls++
	if f.DeleteItemFn == nil {
		return errNotStubbed
	}
	return f.DeleteItemFn(id)
}

func (f *fakeAPI) MyOrders(context.Context) ([]models.Order, error) {
	f.calls++
	if f.MyOrdersFn == nil {
		return nil, errNotStubbed
	}
	return f.MyOrdersFn()
}

func (f *fakeAPI) AdminOrders(_ context.Context, page, limit int, search string) (*models.OrderPage, error) {
	f.calls++
	if f.AdminOrdersFn == nil {
		return nil, errNotStubbed
	}
	return f.AdminOrdersFn(page, limit, search)
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	f.calls++
	if f.UpdateStatusFn == nil {
		return nil, errNotStubbed
	}
	return f.UpdateStatusFn(id, status)
}

func (f *fakeAPI) CreatePayment(_ context.Context, amount int64, currency, receipt string) (*models.PaymentOrder, error) {
	f.calls++
	if f.CreatePaymentFn == nil {
		return nil, errNotStubbed
	}
	return f.CreatePaymentFn(amount, currency, receipt)
}

func (f *fakeAPI) VerifyPayment(_ context.Context, v models.PaymentVerification) (*models.Order, error) {
	f.calls++
	if f.VerifyPaymentFn == nil {
		return nil, errNotStubbed
	}
	return f.VerifyPaymentFn(v)
}

func (f *fakeAPI) UploadImage(_ context.Context, filename string, r io.Reader) (*models.Image, error) {
	f.calls++
	if f.UploadFn == nil {
		return nil, errNotStubbed
	}
	return f.UploadFn(filename, r)
}
