package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/restorder/internal/common"
	"github.com/dmitrijs2005/restorder/internal/logging"
)

// Disconnector is the only capability the session needs from a live push
// subscription: the ability to end it.
type Disconnector interface {
	Close() error
}

// Guard answers whether the current session may use a gated operation.
type Guard interface {
	RequireUser() (models.User, error)
	RequireAdmin() (models.User, error)
}

// SessionStore owns the identity of the single logged-in user of this
// client instance.
type SessionStore interface {
	Guard

	// Init restores the persisted identity. Until it runs the session is
	// SessionUnknown.
	Init(ctx context.Context) models.Session
	Current() models.Session
	// Token is the bearer token of the current user, "" when logged out.
	Token() string

	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, r models.Registration) (*models.User, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*models.User, error)
	Profile(ctx context.Context) (*models.User, error)

	// Logout forgets the identity and closes every attached subscription.
	Logout(ctx context.Context)
	// Attach registers d to be closed on logout. The returned func removes
	// the registration without closing d.
	Attach(d Disconnector) (detach func())
}

type sessionStore struct {
	api    client.AuthAPI
	repo   metadata.Repository
	logger logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	state   models.Session
	handles map[int]Disconnector
	nextID  int
}

func NewSessionStore(api client.AuthAPI, repo metadata.Repository, logger logging.Logger) SessionStore {
	return &sessionStore{
		api:     api,
		repo:    repo,
		logger:  logger.With("component", "session"),
		now:     time.Now,
		state:   models.SessionUnknown{},
		handles: make(map[int]Disconnector),
	}
}

func (s *sessionStore) Init(ctx context.Context) models.Session {
	state := s.restore(ctx)

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return state
}

func (s *sessionStore) restore(ctx context.Context) models.Session {
	raw, err := s.repo.Get(ctx, common.SessionStorageKey)
	if err != nil {
		s.logger.Warn(ctx, "failed to read stored session", "error", err)
		return models.SessionLoggedOut{}
	}
	if len(raw) == 0 {
		return models.SessionLoggedOut{}
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil || u.Token == "" {
		s.logger.Warn(ctx, "discarding unreadable stored session", "error", err)
		return models.SessionLoggedOut{}
	}

	if claims, err := client.ParseTokenClaims(u.Token); err == nil && claims.Expired(s.now()) {
		s.logger.Info(ctx, "stored session expired", "user_id", u.ID)
		s.forget(ctx)
		return models.SessionLoggedOut{}
	}

	return models.SessionLoggedIn{User: u}
}

func (s *sessionStore) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *sessionStore) Token() string {
	if in, ok := s.Current().(models.SessionLoggedIn); ok {
		return in.User.Token
	}
	return ""
}

func (s *sessionStore) RequireUser() (models.User, error) {
	switch st := s.Current().(type) {
	case models.SessionLoggedIn:
		return st.User, nil
	case models.SessionLoggedOut:
		return models.User{}, common.ErrNotLoggedIn
	default:
		return models.User{}, common.ErrSessionPending
	}
}

func (s *sessionStore) RequireAdmin() (models.User, error) {
	u, err := s.RequireUser()
	if err != nil {
		return u, err
	}
	if !u.IsAdmin() {
		return u, common.ErrForbidden
	}
	return u, nil
}

func (s *sessionStore) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, authError("login", err)
	}
	return s.establish(ctx, u)
}

func (s *sessionStore) Register(ctx context.Context, r models.Registration) (*models.User, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrValidation)
	}

	u, err := s.api.Register(ctx, r)
	if err != nil {
		return nil, authError("register", err)
	}
	return s.establish(ctx, u)
}

func (s *sessionStore) SendOTP(ctx context.Context, email string) error {
	if err := s.api.SendOTP(ctx, strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

func (s *sessionStore) VerifyOTP(ctx context.Context, email, code string) (*models.User, error) {
	u, err := s.api.VerifyOTP(ctx, strings.TrimSpace(email), strings.TrimSpace(code))
	if err != nil {
		return nil, authError("verify otp", err)
	}
	return s.establish(ctx, u)
}

func (s *sessionStore) Profile(ctx context.Context) (*models.User, error) {
	if _, err := s.RequireUser(); err != nil {
		return nil, err
	}
	u, err := s.api.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return u, nil
}

// establish makes u the current identity and persists it. A storage
// failure is logged; the in-memory session stays valid.
func (s *sessionStore) establish(ctx context.Context, u *models.User) (*models.User, error) {
	if u == nil || u.Token == "" {
		return nil, fmt.Errorf("%w: response carries no token", common.ErrAuthentication)
	}

	s.mu.Lock()
	s.state = models.SessionLoggedIn{User: *u}
	s.mu.Unlock()

	raw, err := json.Marshal(u)
	if err == nil {
		err = s.repo.Set(ctx, common.SessionStorageKey, raw)
	}
	if err != nil {
		s.logger.Warn(ctx, "failed to persist session", "error", err)
	}

	s.logger.Info(ctx, "logged in", "user_id", u.ID, "role", string(u.Role))
	return u, nil
}

func (s *sessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.state = models.SessionLoggedOut{}
	handles := s.handles
	s.handles = make(map[int]Disconnector)
	s.mu.Unlock()

	for _, h := range handles {
		if err := h.Close(); err != nil {
			s.logger.Warn(ctx, "failed to close subscription", "error", err)
		}
	}
	s.forget(ctx)
	s.logger.Info(ctx, "logged out")
}

func (s *sessionStore) forget(ctx context.Context) {
	if err := s.repo.Delete(ctx, common.SessionStorageKey); err != nil {
		s.logger.Warn(ctx, "failed to clear stored session", "error", err)
	}
}

func (s *sessionStore) Attach(d Disconnector) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.handles[id] = d
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.handles, id)
		s.mu.Unlock()
	}
}

// authError marks credential rejections with common.ErrAuthentication and
// leaves availability problems as they are.
func authError(op string, err error) error {
	if errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrValidation) ||
		errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrForbidden) {
		return fmt.Errorf("%s: %w: %w", op, common.ErrAuthentication, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
