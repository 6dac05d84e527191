package ordersync

import (
	"sync"

	"github.com/dmitrijs2005/restorder/internal/client/models"
)

// Mode decides what happens to updates for orders the list has not seen.
type Mode int

const (
	// ModeCustomer shows the user's own orders; unseen ids are ignored.
	ModeCustomer Mode = iota
	// ModeAdmin shows every order; unseen ids are new orders and go first.
	ModeAdmin
)

func (m Mode) String() string {
	if m == ModeAdmin {
		return "admin"
	}
	return "customer"
}

// Outcome is the effect of merging one update.
type Outcome int

const (
	Ignored Outcome = iota
	Updated
	Inserted
	Stale
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case Inserted:
		return "inserted"
	case Stale:
		return "stale"
	default:
		return "ignored"
	}
}

// List is the order list a view displays. Ids are unique and positions of
// known orders never move on update.
type List struct {
	mode Mode

	mu     sync.RWMutex
	orders []models.Order
}

func NewList(mode Mode) *List {
	return &List{mode: mode}
}

func (l *List) Mode() Mode { return l.mode }

// Replace installs a freshly fetched snapshot, dropping duplicate ids after
// their first occurrence.
func (l *List) Replace(snapshot []models.Order) {
	seen := make(map[string]struct{}, len(snapshot))
	orders := make([]models.Order, 0, len(snapshot))
	for _, o := range snapshot {
		if _, ok := seen[o.ID]; ok {
			continue
		}
		seen[o.ID] = struct{}{}
		orders = append(orders, o)
	}

	l.mu.Lock()
	l.orders = orders
	l.mu.Unlock()
}

// Merge applies a pushed update. A known id is replaced in place unless the
// update is older than what is shown; an unknown id is prepended in admin
// mode and ignored otherwise.
func (l *List) Merge(o models.Order) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	if outcome, found := l.updateLocked(o); found {
		return outcome
	}
	if l.mode != ModeAdmin {
		return Ignored
	}
	l.orders = append([]models.Order{o}, l.orders...)
	return Inserted
}

func (l *List) updateLocked(o models.Order) (Outcome, bool) {
	for i := range l.orders {
		if l.orders[i].ID != o.ID {
			continue
		}
		if o.OlderThan(l.orders[i]) {
			return Stale, true
		}
		l.orders[i] = o
		return Updated, true
	}
	return Ignored, false
}

// Add records an order placed from this client. Unlike Merge it prepends an
// unknown id in either mode.
func (l *List) Add(o models.Order) Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	if outcome, found := l.updateLocked(o); found {
		return outcome
	}
	l.orders = append([]models.Order{o}, l.orders...)
	return Inserted
}

// Snapshot returns a copy of the current list.
func (l *List) Snapshot() []models.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

func (l *List) Get(id string) (models.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, o := range l.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}
