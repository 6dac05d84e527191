package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/ordersync"
	"github.com/dmitrijs2005/restorder/internal/client/push"
	"github.com/dmitrijs2005/restorder/internal/client/repositories/orders"
)

var errAlreadyWatching = errors.New("already watching orders, use 'unwatch' first")

// Watch loads the order list and follows live updates. Customers follow
// their own orders; admins follow every order.
func (a *App) Watch(ctx context.Context, _ []string) error {
	user, err := a.session.RequireUser()
	if err != nil {
		return err
	}

	a.mu.Lock()
	running := a.feed != nil
	a.mu.Unlock()
	if running {
		return errAlreadyWatching
	}

	opts := ordersync.FeedOptions{
		Mode:     ordersync.ModeCustomer,
		Channel:  push.UserChannel(user.ID),
		Scope:    orders.UserScope(user.ID),
		Fetch:    a.orders.MyOrders,
		Dial:     a.dial,
		Session:  a.session,
		Cache:    a.cache,
		Notifier: a.notifier,
		Logger:   a.logger,
	}
	if user.IsAdmin() {
		opts.Mode = ordersync.ModeAdmin
		opts.Channel = push.AdminChannel()
		opts.Scope = orders.ScopeAdmin
		opts.Fetch = func(ctx context.Context) ([]models.Order, error) {
			p, err := a.orders.AdminOrders(ctx, 1, "")
			if err != nil {
				return nil, err
			}
			return p.Orders, nil
		}
	}

	feed := ordersync.NewFeed(opts)
	if err := feed.Start(ctx); err != nil {
		feed.Stop()
		return err
	}

	a.mu.Lock()
	a.feed = feed
	a.mu.Unlock()

	a.out.Printf("Watching %d orders on %s; 'unwatch' to stop\n", feed.List().Len(), opts.Channel)
	return nil
}

func (a *App) Unwatch(_ context.Context, _ []string) error {
	if !a.stopWatch() {
		a.out.Println("Not watching")
		return nil
	}
	a.out.Println("Stopped watching orders")
	return nil
}

// stopWatch ends the running feed, if any, and reports whether there was one.
func (a *App) stopWatch() bool {
	a.mu.Lock()
	feed := a.feed
	a.feed = nil
	a.mu.Unlock()

	if feed == nil {
		return false
	}
	feed.Stop()
	return true
}

// trackOrder shows an order placed here in the running customer feed.
func (a *App) trackOrder(ctx context.Context, o models.Order) {
	a.mu.Lock()
	feed := a.feed
	a.mu.Unlock()

	if feed == nil || feed.List().Mode() != ordersync.ModeCustomer {
		return
	}
	feed.Track(ctx, o)
}

// watchedOrders returns the live list when a feed in mode is running.
func (a *App) watchedOrders(mode ordersync.Mode) ([]models.Order, bool) {
	a.mu.Lock()
	feed := a.feed
	a.mu.Unlock()

	if feed == nil || feed.List().Mode() != mode {
		return nil, false
	}
	return feed.List().Snapshot(), true
}
