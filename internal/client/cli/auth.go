package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/repositories/orders"
	"github.com/dmitrijs2005/restorder/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account details and creates a customer account.
// The new account is logged in right away.
func (a *App) Register(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone number", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Register(ctx, models.Registration{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: string(password),
	})
	if err != nil {
		return err
	}

	a.out.Printf("Welcome, %s!\n", u.Name)
	return nil
}

// Login prompts for credentials and opens a session. The email can be given
// as the first argument.
func (a *App) Login(ctx context.Context, args []string) error {
	email, err := a.emailArg(args)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.out.Printf("Logged in as %s\n", u.Name)
	return nil
}

// LoginWithOTP asks the backend to email a one-time code and logs in with it.
func (a *App) LoginWithOTP(ctx context.Context, args []string) error {
	email, err := a.emailArg(args)
	if err != nil {
		return err
	}
	if err := a.session.SendOTP(ctx, email); err != nil {
		return err
	}
	a.out.Printf("A code was sent to %s\n", email)

	code, err := getSimpleText(a.reader, "Enter code", a.out)
	if err != nil {
		return err
	}
	u, err := a.session.VerifyOTP(ctx, email, code)
	if err != nil {
		return err
	}

	a.out.Printf("Logged in as %s\n", u.Name)
	return nil
}

// Logout stops the order feed and forgets the stored session.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.endSession(ctx)
	a.out.Println("Logged out")
	return nil
}

// endSession stops the feed, forgets the session and drops the orders
// cached for it.
func (a *App) endSession(ctx context.Context) {
	var scopes []string
	if s, ok := a.session.Current().(models.SessionLoggedIn); ok {
		scopes = append(scopes, orders.UserScope(s.User.ID))
		if s.User.IsAdmin() {
			scopes = append(scopes, orders.ScopeAdmin)
		}
	}
	scopes = append(scopes, orders.ScopeMine)

	a.stopWatch()
	a.session.Logout(ctx)

	for _, scope := range scopes {
		if err := a.cache.Clear(ctx, scope); err != nil {
			a.logger.Warn(ctx, "failed to clear cached orders", "scope", scope, "error", err)
		}
	}
}

func (a *App) Profile(ctx context.Context, _ []string) error {
	u, err := a.session.Profile(ctx)
	if err != nil {
		return err
	}
	a.out.Printf("Name:  %s\nEmail: %s\nPhone: %s\nRole:  %s\n", u.Name, u.Email, u.Phone, u.Role)
	return nil
}

func (a *App) emailArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", fmt.Errorf("read email: %w", err)
	}
	return email, nil
}
