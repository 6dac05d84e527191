package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/ordersync"
	"github.com/dmitrijs2005/restorder/internal/common"
)

// Checkout pays for the cart and places the order. Without an argument the
// default delivery address is used.
func (a *App) Checkout(ctx context.Context, args []string) error {
	if a.cart.Len() == 0 {
		return common.ErrEmptyCart
	}

	list, err := a.addresses.List(ctx)
	if err != nil {
		return err
	}
	var address models.Address
	if len(args) > 0 {
		found := false
		for _, ad := range list {
			if ad.ID == args[0] {
				address, found = ad, true
				break
			}
		}
		if !found {
			return fmt.Errorf("address %s: %w", args[0], common.ErrNotFound)
		}
	} else {
		var ok bool
		if address, ok = a.addresses.Default(list); !ok {
			return fmt.Errorf("%w: no delivery address, add one with 'addaddress'", common.ErrValidation)
		}
	}

	a.out.Printf("Total %s, delivering to %s\n", a.money(a.cart.Total()), address)

	order, err := a.checkout.Checkout(ctx, address.ID, a.widget)
	if err != nil {
		return err
	}
	if order == nil {
		a.out.Println("Order placed")
		return nil
	}
	a.trackOrder(ctx, *order)
	a.out.Printf("Order %s placed (%s)\n", order.ID, order.Status)
	return nil
}

// MyOrders lists the customer's orders. While the feed is running its live
// list is shown instead of fetching again.
func (a *App) MyOrders(ctx context.Context, _ []string) error {
	if list, ok := a.watchedOrders(ordersync.ModeCustomer); ok {
		a.printOrders(list, false)
		return nil
	}
	list, err := a.orders.MyOrders(ctx)
	if err != nil {
		return err
	}
	a.printOrders(list, false)
	return nil
}

// Reorder puts the items of a past order back into the cart.
func (a *App) Reorder(ctx context.Context, args []string) error {
	if err := needArgs(args, 1); err != nil {
		return err
	}
	list, ok := a.watchedOrders(ordersync.ModeCustomer)
	if !ok {
		var err error
		if list, err = a.orders.MyOrders(ctx); err != nil {
			return err
		}
	}
	o, found := findOrder(list, args[0])
	if !found {
		return fmt.Errorf("order %s: %w", args[0], common.ErrNotFound)
	}

	n, err := a.orders.Reorder(ctx, o)
	if err != nil {
		return err
	}
	a.out.Printf("Added %d items to cart (%s)\n", n, a.money(a.cart.Total()))
	return nil
}

// AdminOrders prints one page of all orders. A leading number selects the
// page; the remaining words are the search term.
func (a *App) AdminOrders(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			page = n
			args = args[1:]
		}
	}

	p, err := a.orders.AdminOrders(ctx, page, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.adminOrders = p.Orders
	a.mu.Unlock()

	a.printOrders(p.Orders, true)
	a.out.Printf("Page %d of %d\n", p.Page, p.Pages)
	return nil
}

// UpdateStatus moves an order along its lifecycle. The order must be known
// from 'aorders' or the admin feed; ids may be abbreviated to their tail.
func (a *App) UpdateStatus(ctx context.Context, args []string) error {
	if err := needArgs(args, 2); err != nil {
		return err
	}
	status, err := models.ParseOrderStatus(strings.Join(args[1:], " "))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	list, watching := a.watchedOrders(ordersync.ModeAdmin)
	if !watching {
		a.mu.Lock()
		list = a.adminOrders
		a.mu.Unlock()
	}
	current, ok := findOrder(list, args[0])
	if !ok {
		return fmt.Errorf("order %s: %w (run 'aorders' first)", args[0], common.ErrNotFound)
	}

	updated, err := a.orders.UpdateStatus(ctx, current, status)
	if err != nil {
		return err
	}

	a.mu.Lock()
	for i := range a.adminOrders {
		if a.adminOrders[i].ID == updated.ID {
			a.adminOrders[i] = *updated
		}
	}
	feed := a.feed
	a.mu.Unlock()
	if feed != nil && feed.List().Mode() == ordersync.ModeAdmin {
		feed.List().Merge(*updated)
	}

	a.out.Printf("Order %s is now %s\n", updated.ShortID(), updated.Status)
	return nil
}

// findOrder matches the full id or, failing that, a unique id suffix.
func findOrder(list []models.Order, id string) (models.Order, bool) {
	var match models.Order
	n := 0
	for _, o := range list {
		if o.ID == id {
			return o, true
		}
		if strings.HasSuffix(o.ID, id) {
			match = o
			n++
		}
	}
	return match, n == 1
}
