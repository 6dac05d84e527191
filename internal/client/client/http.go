package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/common"
	"github.com/dmitrijs2005/restorder/internal/netx"
)

const maxResponseSize = 10 << 20

// TokenSource yields the bearer token of the current session, or "" when
// nobody is logged in.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// bearerTransport adds the Authorization header to every outgoing request
// when a token is available.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := ""
	if t.tokens != nil {
		token = t.tokens.Token()
	}
	if token == "" || req.Header.Get(common.AuthorizationHeaderName) != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	return t.base.RoundTrip(r)
}

// HTTPClient talks JSON to the restaurant REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client rooted at baseURL. A zero timeout leaves
// requests bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &bearerTransport{base: http.DefaultTransport, tokens: tokens},
		},
	}, nil
}

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send executes req and decodes a successful JSON body into out (if not nil).
func (c *HTTPClient) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return mapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return mapError(err)
	}

	var env envelope
	if len(data) > 0 && bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		_ = json.Unmarshal(data, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "operation failed"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return mapError(err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	in := map[string]string{"email": email, "password": password}
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Register(ctx context.Context, r models.Registration) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", r, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/send-otp", map[string]string{"email": email}, nil)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, code string) (*models.User, error) {
	in := map[string]string{"email": email, "otp": code}
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) ListAddresses(ctx context.Context) ([]models.Address, error) {
	var out []models.Address
	if err := c.do(ctx, http.MethodGet, "/api/addresses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateAddress(ctx context.Context, a models.Address) (*models.Address, error) {
	var out models.Address
	if err := c.do(ctx, http.MethodPost, "/api/addresses", a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateAddress(ctx context.Context, a models.Address) (*models.Address, error) {
	var out models.Address
	if err := c.do(ctx, http.MethodPut, "/api/addresses/"+url.PathEscape(a.ID), a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteAddress(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/addresses/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) SetDefaultAddress(ctx context.Context, id string) (*models.Address, error) {
	var out models.Address
	if err := c.do(ctx, http.MethodPut, "/api/addresses/"+url.PathEscape(id)+"/default", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	var out []models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/api/menu", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateMenuItem(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	var out models.MenuItem
	if err := c.do(ctx, http.MethodPost, "/api/menu", item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateMenuItem(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	var out models.MenuItem
	if err := c.do(ctx, http.MethodPut, "/api/menu/"+url.PathEscape(item.ID), item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/menu/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) MyOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/order/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AdminOrders(ctx context.Context, page, limit int, search string) (*models.OrderPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("search", search)

	var out models.OrderPage
	if err := c.do(ctx, http.MethodGet, "/api/admin/orders?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if out.Pages < 1 {
		out.Pages = 1
	}
	if out.Page < 1 {
		out.Page = page
	}
	return &out, nil
}

func (c *HTTPClient) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	in := map[string]string{"status": string(status)}
	var out struct {
		Order *models.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/admin/"+url.PathEscape(id)+"/status", in, &out); err != nil {
		return nil, err
	}
	if out.Order == nil {
		return nil, fmt.Errorf("update status of order %s: empty response", id)
	}
	return out.Order, nil
}

func (c *HTTPClient) CreatePayment(ctx context.Context, amount int64, currency, receipt string) (*models.PaymentOrder, error) {
	in := struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency,omitempty"`
		Receipt  string `json:"receipt,omitempty"`
	}{amount, currency, receipt}

	var out models.PaymentOrder
	if err := c.do(ctx, http.MethodPost, "/api/payment/create-order", in, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("create payment: response has no order id")
	}
	return &out, nil
}

func (c *HTTPClient) VerifyPayment(ctx context.Context, v models.PaymentVerification) (*models.Order, error) {
	var out struct {
		Order *models.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/payment/verify", v, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *HTTPClient) UploadImage(ctx context.Context, filename string, r io.Reader) (*models.Image, error) {
	body, contentType, err := netx.MultipartFile("image", filename, r)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/image/upload/image", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	var out struct {
		Data models.Image `json:"data"`
	}
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	if out.Data.URL == "" {
		return nil, fmt.Errorf("upload image: response has no url")
	}
	return &out.Data, nil
}
