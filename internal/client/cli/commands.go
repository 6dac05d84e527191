package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// access is the session a command needs before it may run.
type access int

const (
	accessPublic access = iota
	accessUser
	accessAdmin
)

type command struct {
	name   string
	usage  string
	access access
	run    func(ctx context.Context, args []string) error
}

var errUsage = errors.New("usage")

func (a *App) commands() []command {
	return []command{
		{name: "register", usage: "register", run: a.Register},
		{name: "login", usage: "login [email]", run: a.Login},
		{name: "otp", usage: "otp [email]", run: a.LoginWithOTP},
		{name: "menu", usage: "menu [category] [query]", run: a.Menu},

		{name: "logout", usage: "logout", access: accessUser, run: a.Logout},
		{name: "profile", usage: "profile", access: accessUser, run: a.Profile},
		{name: "add", usage: "add <itemID> [qty]", access: accessUser, run: a.AddToCart},
		{name: "cart", usage: "cart", access: accessUser, run: a.ShowCart},
		{name: "qty", usage: "qty <itemID> <n>", access: accessUser, run: a.SetQuantity},
		{name: "inc", usage: "inc <itemID>", access: accessUser, run: a.Increment},
		{name: "dec", usage: "dec <itemID>", access: accessUser, run: a.Decrement},
		{name: "remove", usage: "remove <itemID>", access: accessUser, run: a.RemoveFromCart},
		{name: "clear", usage: "clear", access: accessUser, run: a.ClearCart},
		{name: "addresses", usage: "addresses", access: accessUser, run: a.Addresses},
		{name: "addaddress", usage: "addaddress", access: accessUser, run: a.AddAddress},
		{name: "editaddress", usage: "editaddress <addressID>", access: accessUser, run: a.EditAddress},
		{name: "deladdress", usage: "deladdress <addressID>", access: accessUser, run: a.DeleteAddress},
		{name: "default", usage: "default <addressID>", access: accessUser, run: a.SetDefaultAddress},
		{name: "checkout", usage: "checkout [addressID]", access: accessUser, run: a.Checkout},
		{name: "orders", usage: "orders", access: accessUser, run: a.MyOrders},
		{name: "reorder", usage: "reorder <orderID>", access: accessUser, run: a.Reorder},
		{name: "watch", usage: "watch", access: accessUser, run: a.Watch},
		{name: "unwatch", usage: "unwatch", access: accessUser, run: a.Unwatch},

		{name: "aorders", usage: "aorders [page] [search]", access: accessAdmin, run: a.AdminOrders},
		{name: "status", usage: "status <orderID> <status>", access: accessAdmin, run: a.UpdateStatus},
		{name: "additem", usage: "additem", access: accessAdmin, run: a.AddMenuItem},
		{name: "edititem", usage: "edititem <itemID>", access: accessAdmin, run: a.EditMenuItem},
		{name: "delitem", usage: "delitem <itemID>", access: accessAdmin, run: a.DeleteMenuItem},
		{name: "upload", usage: "upload <path>", access: accessAdmin, run: a.Upload},
	}
}

func needArgs(args []string, n int) error {
	if len(args) < n {
		return errUsage
	}
	return nil
}

func parseInt(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %q", what, s)
	}
	return n, nil
}
