package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/common"
	"github.com/dmitrijs2005/restorder/internal/logging"
)

type fakeDisconnector struct {
	closed int
}

func (d *fakeDisconnector) Close() error {
	d.closed++
	return nil
}

func userWithToken(token string) *models.User {
	return &models.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: models.RoleUser, Token: token}
}

func jwtToken(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1", "exp": exp.Unix()}).
		SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestSession_UnknownBeforeInit(t *testing.T) {
	s := NewSessionStore(&fakeAPI{}, setupRepo(t), logging.Discard())

	assert.IsType(t, models.SessionUnknown{}, s.Current())
	_, err := s.RequireUser()
	require.ErrorIs(t, err, common.ErrSessionPending)
	assert.Empty(t, s.Token())
}

func TestSession_InitWithoutStoredIdentity(t *testing.T) {
	s := NewSessionStore(&fakeAPI{}, setupRepo(t), logging.Discard())

	assert.IsType(t, models.SessionLoggedOut{}, s.Init(context.Background()))
	_, err := s.RequireUser()
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
}

func TestSession_InitWithMalformedStorageIsLoggedOut(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, common.SessionStorageKey, []byte("{broken")))

	s := NewSessionStore(&fakeAPI{}, repo, logging.Discard())
	assert.IsType(t, models.SessionLoggedOut{}, s.Init(ctx))
}

func TestSession_LoginPersistsAndRestores(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	api := &fakeAPI{LoginFn: func(email, password string) (*models.User, error) {
		assert.Equal(t, "asha@example.com", email)
		assert.Equal(t, "secret", password)
		return userWithToken("opaque-token"), nil
	}}

	s := NewSessionStore(api, repo, logging.Discard())
	s.Init(ctx)
	u, err := s.Login(ctx, "  asha@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "opaque-token", s.Token())

	raw, err := repo.Get(ctx, common.SessionStorageKey)
	require.NoError(t, err)
	var stored models.User
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, *u, stored)

	restarted := NewSessionStore(&fakeAPI{}, repo, logging.Discard())
	in, ok := restarted.Init(ctx).(models.SessionLoggedIn)
	require.True(t, ok)
	assert.Equal(t, *u, in.User)
}

func TestSession_LoginRejectedIsAuthenticationError(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	api := &fakeAPI{LoginFn: func(string, string) (*models.User, error) {
		return nil, &client.APIError{StatusCode: 401, Message: "Invalid email or password"}
	}}

	s := NewSessionStore(api, repo, logging.Discard())
	s.Init(ctx)
	_, err := s.Login(ctx, "a@b.c", "bad")
	require.ErrorIs(t, err, common.ErrAuthentication)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, 1, api.calls)
	assert.IsType(t, models.SessionLoggedOut{}, s.Current())

	raw, err := repo.Get(ctx, common.SessionStorageKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestSession_LoginUnavailableIsNotAuthenticationError(t *testing.T) {
	api := &fakeAPI{LoginFn: func(string, string) (*models.User, error) {
		return nil, common.ErrUnavailable
	}}
	s := NewSessionStore(api, setupRepo(t), logging.Discard())

	_, err := s.Login(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, common.ErrUnavailable)
	require.False(t, errors.Is(err, common.ErrAuthentication))
}

func TestSession_LoginWithoutTokenFails(t *testing.T) {
	api := &fakeAPI{LoginFn: func(string, string) (*models.User, error) {
		return userWithToken(""), nil
	}}
	s := NewSessionStore(api, setupRepo(t), logging.Discard())

	_, err := s.Login(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, common.ErrAuthentication)
}

func TestSession_ExpiredTokenIsDroppedOnInit(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	raw, err := json.Marshal(userWithToken(jwtToken(t, time.Now().Add(-time.Hour))))
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, common.SessionStorageKey, raw))

	s := NewSessionStore(&fakeAPI{}, repo, logging.Discard())
	assert.IsType(t, models.SessionLoggedOut{}, s.Init(ctx))

	left, err := repo.Get(ctx, common.SessionStorageKey)
	require.NoError(t, err)
	assert.Nil(t, left)
}

func TestSession_ValidTokenIsKeptOnInit(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	raw, err := json.Marshal(userWithToken(jwtToken(t, time.Now().Add(time.Hour))))
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, common.SessionStorageKey, raw))

	s := NewSessionStore(&fakeAPI{}, repo, logging.Discard())
	assert.IsType(t, models.SessionLoggedIn{}, s.Init(ctx))
}

func TestSession_LogoutClosesAttachedHandles(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	api := &fakeAPI{LoginFn: func(string, string) (*models.User, error) { return userWithToken("tok"), nil }}

	s := NewSessionStore(api, repo, logging.Discard())
	s.Init(ctx)
	_, err := s.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	kept := &fakeDisconnector{}
	detached := &fakeDisconnector{}
	s.Attach(kept)
	detach := s.Attach(detached)
	detach()

	s.Logout(ctx)

	assert.Equal(t, 1, kept.closed)
	assert.Equal(t, 0, detached.closed)
	assert.IsType(t, models.SessionLoggedOut{}, s.Current())
	assert.Empty(t, s.Token())

	raw, err := repo.Get(ctx, common.SessionStorageKey)
	require.NoError(t, err)
	assert.Nil(t, raw)

	// A second logout has nothing left to close.
	s.Logout(ctx)
	assert.Equal(t, 1, kept.closed)
}

func TestSession_RequireAdmin(t *testing.T) {
	ctx := context.Background()
	role := models.RoleUser
	api := &fakeAPI{LoginFn: func(string, string) (*models.User, error) {
		u := userWithToken("tok")
		u.Role = role
		return u, nil
	}}
	s := NewSessionStore(api, setupRepo(t), logging.Discard())
	s.Init(ctx)

	_, err := s.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	_, err = s.RequireAdmin()
	require.ErrorIs(t, err, common.ErrForbidden)

	role = models.RoleAdmin
	_, err = s.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	u, err := s.RequireAdmin()
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
}

func TestSession_RegisterValidatesBeforeCalling(t *testing.T) {
	api := &fakeAPI{}
	s := NewSessionStore(api, setupRepo(t), logging.Discard())

	_, err := s.Register(context.Background(), models.Registration{Email: "a@b.c", Password: "pw"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, api.calls)
}

func TestSession_VerifyOTPEstablishesSession(t *testing.T) {
	api := &fakeAPI{
		SendOTPFn: func(email string) error {
			assert.Equal(t, "a@b.c", email)
			return nil
		},
		VerifyFn: func(email, code string) (*models.User, error) {
			if code != "123456" {
				return nil, &client.APIError{StatusCode: 400, Message: "Invalid OTP"}
			}
			return userWithToken("otp-token"), nil
		},
	}
	s := NewSessionStore(api, setupRepo(t), logging.Discard())
	ctx := context.Background()
	s.Init(ctx)

	require.NoError(t, s.SendOTP(ctx, "a@b.c"))

	_, err := s.VerifyOTP(ctx, "a@b.c", "000000")
	require.ErrorIs(t, err, common.ErrAuthentication)

	_, err = s.VerifyOTP(ctx, "a@b.c", " 123456 ")
	require.NoError(t, err)
	assert.Equal(t, "otp-token", s.Token())
}

func TestSession_ProfileRequiresLogin(t *testing.T) {
	api := &fakeAPI{}
	s := NewSessionStore(api, setupRepo(t), logging.Discard())
	s.Init(context.Background())

	_, err := s.Profile(context.Background())
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
	assert.Zero(t, api.calls)
}
