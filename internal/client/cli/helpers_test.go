package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/client/config"
	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/services"
	"github.com/dmitrijs2005/restorder/internal/logging"
)

const testPassword = "pw"

// fakeBackend is an in-memory stand-in for the ordering API.
type fakeBackend struct {
	mu        sync.Mutex
	role      models.Role
	down      bool
	revoked   bool
	menu      []models.MenuItem
	addresses []models.Address
	orders    []models.Order
	verified  []models.PaymentVerification
	statuses  map[string]models.OrderStatus
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		role: models.RoleUser,
		menu: []models.MenuItem{
			{ID: "m1", Name: "Paneer Tikka", Price: 200, Discount: 10, Category: "starters"},
			{ID: "m2", Name: "Garlic Naan", Price: 50, Category: "breads"},
		},
		addresses: []models.Address{
			{ID: "a1", Label: "Home", AddressLine: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001", IsDefault: true},
		},
		statuses: map[string]models.OrderStatus{},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		down := b.down
		b.mu.Unlock()
		if down {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "API is running")
	})

	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(req.Body).Decode(&in)
		if in["password"] != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid email or password"})
			return
		}
		b.mu.Lock()
		role := b.role
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, models.User{ID: "u1", Name: "Asha", Email: in["email"], Role: role, Token: "tok"})
	})

	r.Get("/api/menu", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.menu)
	})

	r.Post("/api/menu", func(w http.ResponseWriter, req *http.Request) {
		var it models.MenuItem
		_ = json.NewDecoder(req.Body).Decode(&it)
		b.mu.Lock()
		it.ID = "m" + strconv.Itoa(len(b.menu)+1)
		b.menu = append(b.menu, it)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, it)
	})

	r.Put("/api/addresses/{id}/default", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		b.mu.Lock()
		defer b.mu.Unlock()
		var found *models.Address
		for i := range b.addresses {
			b.addresses[i].IsDefault = b.addresses[i].ID == id
			if b.addresses[i].IsDefault {
				found = &b.addresses[i]
			}
		}
		if found == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Address not found"})
			return
		}
		writeJSON(w, http.StatusOK, found)
	})

	r.Get("/api/addresses", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.addresses)
	})

	r.Post("/api/addresses", func(w http.ResponseWriter, req *http.Request) {
		var a models.Address
		_ = json.NewDecoder(req.Body).Decode(&a)
		b.mu.Lock()
		a.ID = "a" + strconv.Itoa(len(b.addresses)+1)
		b.addresses = append(b.addresses, a)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, a)
	})

	r.Get("/api/order/my", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.revoked {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Not authorized, token failed"})
			return
		}
		writeJSON(w, http.StatusOK, b.orders)
	})

	r.Get("/api/admin/orders", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"orders": b.orders, "page": 1, "pages": 1})
	})

	r.Put("/api/admin/{id}/status", func(w http.ResponseWriter, req *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(req.Body).Decode(&in)
		id := chi.URLParam(req, "id")

		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.orders {
			if b.orders[i].ID == id {
				b.orders[i].Status = models.OrderStatus(in["status"])
				b.statuses[id] = b.orders[i].Status
				writeJSON(w, http.StatusOK, map[string]any{"order": b.orders[i]})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Order not found"})
	})

	r.Post("/api/payment/create-order", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		}
		_ = json.NewDecoder(req.Body).Decode(&in)
		writeJSON(w, http.StatusOK, models.PaymentOrder{ID: "order_1", Amount: in.Amount, Currency: in.Currency})
	})

	r.Post("/api/payment/verify", func(w http.ResponseWriter, req *http.Request) {
		var v models.PaymentVerification
		_ = json.NewDecoder(req.Body).Decode(&v)

		b.mu.Lock()
		defer b.mu.Unlock()
		b.verified = append(b.verified, v)
		o := models.Order{ID: "o-new", Status: models.StatusPending, TotalPrice: 230}
		b.orders = append(b.orders, o)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": o})
	})

	return r
}

func (b *fakeBackend) verifications() []models.PaymentVerification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.PaymentVerification(nil), b.verified...)
}

func (b *fakeBackend) statusOf(id string) (models.OrderStatus, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.statuses[id]
	return st, ok
}

type testApp struct {
	*App
	backend *fakeBackend
	buf     *bytes.Buffer
}

// newTestApp wires a real App against the fake backend and an in-memory
// database. input feeds every prompt and the REPL.
func newTestApp(t *testing.T, backend *fakeBackend, input string) *testApp {
	t.Helper()

	srv := httptest.NewServer(backend.routes())
	t.Cleanup(srv.Close)

	ctx := context.Background()
	db, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repos := client.NewRepositories(db)

	logger := logging.Discard()
	var session services.SessionStore
	api, err := client.NewHTTPClient(srv.URL, 5*time.Second, client.TokenFunc(func() string {
		return session.Token()
	}))
	require.NoError(t, err)
	session = services.NewSessionStore(api, repos.Metadata, logger)
	session.Init(ctx)

	cfg := &config.Config{ServerURL: srv.URL, Currency: "INR", AdminPageSize: 20}
	out := &bytes.Buffer{}
	app := assemble(cfg, logger, api, repos, session, services.NewAPIUploader(api), strings.NewReader(input), out)
	app.db = nil // closed by cleanup above
	app.cart.Load(ctx)

	return &testApp{App: app, backend: backend, buf: out}
}

// stubPassword makes getPassword return pw without touching the terminal.
// A fresh slice is returned each call since callers wipe it.
func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func silenceREPL(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		s := make([]string, 0, len(a))
		for _, v := range a {
			if str, ok := v.(string); ok {
				s = append(s, str)
			}
		}
		lines = append(lines, strings.Join(s, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func login(t *testing.T, a *testApp) {
	t.Helper()
	stubPassword(t, testPassword)
	require.NoError(t, a.Login(context.Background(), []string{"asha@example.com"}))
}

// output reads what the app printed; the console lock keeps it safe against
// the feed goroutine.
func (a *testApp) output() string {
	a.out.mu.Lock()
	defer a.out.mu.Unlock()
	return a.buf.String()
}

func (a *testApp) resetOutput() {
	a.out.mu.Lock()
	defer a.out.mu.Unlock()
	a.buf.Reset()
}
