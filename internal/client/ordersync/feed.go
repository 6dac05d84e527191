package ordersync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/push"
	"github.com/dmitrijs2005/restorder/internal/client/repositories/orders"
	"github.com/dmitrijs2005/restorder/internal/client/services"
	"github.com/dmitrijs2005/restorder/internal/logging"
)

// Notifier surfaces feed events to the user.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
	// Bell is the audible cue for a new incoming order.
	Bell()
}

// Subscription is a running push connection.
type Subscription interface {
	Run(ctx context.Context, handle push.OrderHandler) error
	Close() error
}

// Dialer creates a subscription for ch. It must not block.
type Dialer func(ch push.Channel) Subscription

// Attacher receives the subscription's disconnect hook, so logging out ends
// the subscription.
type Attacher interface {
	Attach(d services.Disconnector) (detach func())
}

type FeedOptions struct {
	Mode    Mode
	Channel push.Channel
	// Scope names the cached snapshot. It defaults to the shared scope of
	// the mode.
	Scope string
	// Fetch loads the current snapshot.
	Fetch func(ctx context.Context) ([]models.Order, error)

	Dial     Dialer
	Session  Attacher
	Cache    Cache
	Notifier Notifier
	Logger   logging.Logger

	// OnChange, if set, is called after every merged update.
	OnChange func(o models.Order, outcome Outcome)
}

// ErrFeedStarted is returned by Start on a feed that is already running.
var ErrFeedStarted = errors.New("order feed already started")

type Feed struct {
	opts  FeedOptions
	list  *List
	scope string

	mu     sync.Mutex
	sub    Subscription
	detach func()
	done   chan struct{}
}

func NewFeed(opts FeedOptions) *Feed {
	scope := orders.ScopeMine
	if opts.Mode == ModeAdmin {
		scope = orders.ScopeAdmin
	}
	if opts.Scope != "" {
		scope = opts.Scope
	}
	return &Feed{
		opts:  opts,
		list:  NewList(opts.Mode),
		scope: scope,
	}
}

func (f *Feed) List() *List { return f.list }

// Start fills the list and subscribes to updates. When the fetch fails the
// cached snapshot is shown instead; Start reports an error only when
// neither is available. Subscription failures are logged and leave the
// list as it is.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.done != nil {
		f.mu.Unlock()
		return ErrFeedStarted
	}
	f.done = make(chan struct{})
	f.mu.Unlock()

	loadErr := f.load(ctx)

	sub := f.opts.Dial(f.opts.Channel)
	detach := func() {}
	if f.opts.Session != nil {
		var once sync.Once
		release := f.opts.Session.Attach(sub)
		detach = func() { once.Do(release) }
	}

	f.mu.Lock()
	f.sub = sub
	f.detach = detach
	done := f.done
	f.mu.Unlock()

	go func() {
		defer close(done)
		defer detach()
		if err := sub.Run(ctx, f.handle); err != nil {
			f.opts.Logger.Error(ctx, "order push channel failed", "channel", f.opts.Channel.String(), "error", err)
		}
	}()

	return loadErr
}

func (f *Feed) load(ctx context.Context) error {
	snapshot, err := f.opts.Fetch(ctx)
	if err == nil {
		f.list.Replace(snapshot)
		if f.opts.Cache != nil {
			if cerr := f.opts.Cache.Save(ctx, f.scope, f.list.Snapshot()); cerr != nil {
				f.opts.Logger.Warn(ctx, "failed to cache orders", "error", cerr)
			}
		}
		return nil
	}

	f.opts.Logger.Error(ctx, "failed to fetch orders", "error", err)
	if f.opts.Cache == nil {
		return fmt.Errorf("fetch orders: %w", err)
	}
	cached, cerr := f.opts.Cache.Load(ctx, f.scope)
	if cerr != nil {
		f.opts.Logger.Warn(ctx, "failed to read cached orders", "error", cerr)
		return fmt.Errorf("fetch orders: %w", err)
	}
	f.list.Replace(cached)
	f.opts.Notifier.Error("Failed to load orders, showing saved copy")
	return nil
}

func (f *Feed) handle(o models.Order) {
	ctx := context.Background()
	outcome := f.list.Merge(o)

	switch outcome {
	case Inserted:
		f.opts.Notifier.Bell()
		f.opts.Notifier.Success(fmt.Sprintf("New order %s", o.ShortID()))
	case Updated:
		if f.opts.Mode == ModeCustomer && o.Status == models.StatusDelivered {
			f.opts.Notifier.Success(fmt.Sprintf("Order %s delivered", o.ShortID()))
		} else {
			f.opts.Notifier.Info(fmt.Sprintf("Order %s is now %s", o.ShortID(), o.Status))
		}
	case Stale:
		f.opts.Logger.Debug(ctx, "dropping stale order update", "order_id", o.ID, "version", o.Version)
	default:
		f.opts.Logger.Debug(ctx, "ignoring update for unknown order", "order_id", o.ID)
	}

	if (outcome == Inserted || outcome == Updated) && f.opts.Cache != nil {
		if err := f.opts.Cache.Put(ctx, f.scope, o); err != nil {
			f.opts.Logger.Warn(ctx, "failed to cache order update", "order_id", o.ID, "error", err)
		}
	}

	if f.opts.OnChange != nil {
		f.opts.OnChange(o, outcome)
	}
}

// Track shows an order placed from this client, such as a fresh checkout
// the push channel only announces to admins.
func (f *Feed) Track(ctx context.Context, o models.Order) {
	outcome := f.list.Add(o)
	if outcome == Stale || f.opts.Cache == nil {
		return
	}
	if err := f.opts.Cache.Put(ctx, f.scope, o); err != nil {
		f.opts.Logger.Warn(ctx, "failed to cache order", "order_id", o.ID, "error", err)
	}
}

// Stop closes the subscription and waits for its goroutine. It is safe to
// call on a feed that was never started or already stopped.
func (f *Feed) Stop() {
	f.mu.Lock()
	sub, detach, done := f.sub, f.detach, f.done
	f.mu.Unlock()

	if sub == nil {
		return
	}
	_ = sub.Close()
	detach()
	<-done
}
