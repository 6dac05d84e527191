package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/restorder/internal/common"
	"github.com/dmitrijs2005/restorder/internal/logging"
)

// CartStore holds the pending order lines. Every mutation writes the full
// cart back to local storage before returning; a failed write is logged
// and the in-memory cart stays authoritative.
type CartStore interface {
	Load(ctx context.Context)

	// AddItem merges qty units of item into the cart. qty below 1 counts
	// as 1.
	AddItem(ctx context.Context, item models.MenuItem, qty int)
	// SetQuantity overwrites the quantity of a line. qty below 1 and
	// unknown ids leave the cart untouched and report false.
	SetQuantity(ctx context.Context, itemID string, qty int) bool
	Increment(ctx context.Context, itemID string) bool
	// Decrement never takes a line below 1.
	Decrement(ctx context.Context, itemID string) bool
	RemoveItem(ctx context.Context, itemID string) bool
	Clear(ctx context.Context)

	Lines() []models.CartLine
	Total() float64
	Len() int
}

type cartStore struct {
	repo   metadata.Repository
	logger logging.Logger

	mu    sync.Mutex
	lines []models.CartLine
}

func NewCartStore(repo metadata.Repository, logger logging.Logger) CartStore {
	return &cartStore{repo: repo, logger: logger.With("component", "cart")}
}

func (c *cartStore) Load(ctx context.Context) {
	lines := c.read(ctx)

	c.mu.Lock()
	c.lines = lines
	c.mu.Unlock()
}

func (c *cartStore) read(ctx context.Context) []models.CartLine {
	raw, err := c.repo.Get(ctx, common.CartStorageKey)
	if err != nil {
		c.logger.Warn(ctx, "failed to read stored cart", "error", err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	var stored []models.CartLine
	if err := json.Unmarshal(raw, &stored); err != nil {
		c.logger.Warn(ctx, "discarding unreadable stored cart", "error", err)
		return nil
	}

	// Re-establish the line invariants on whatever was stored.
	lines := make([]models.CartLine, 0, len(stored))
	index := make(map[string]int, len(stored))
	for _, l := range stored {
		if l.ItemID == "" {
			continue
		}
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		if i, ok := index[l.ItemID]; ok {
			lines[i].Quantity += l.Quantity
			continue
		}
		index[l.ItemID] = len(lines)
		lines = append(lines, l)
	}
	return lines
}

// mutate applies fn under the lock and persists the result when fn reports
// a change.
func (c *cartStore) mutate(ctx context.Context, fn func() bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !fn() {
		return false
	}
	c.persistLocked(ctx)
	return true
}

func (c *cartStore) persistLocked(ctx context.Context) {
	lines := c.lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err == nil {
		err = c.repo.Set(ctx, common.CartStorageKey, raw)
	}
	if err != nil {
		c.logger.Warn(ctx, "failed to persist cart", "error", err)
	}
}

func (c *cartStore) find(itemID string) int {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

func (c *cartStore) AddItem(ctx context.Context, item models.MenuItem, qty int) {
	if qty < 1 {
		qty = 1
	}
	c.mutate(ctx, func() bool {
		if i := c.find(item.ID); i >= 0 {
			c.lines[i].Quantity += qty
			return true
		}
		c.lines = append(c.lines, models.LineFromMenuItem(item, qty))
		return true
	})
}

func (c *cartStore) SetQuantity(ctx context.Context, itemID string, qty int) bool {
	if qty < 1 {
		return false
	}
	return c.mutate(ctx, func() bool {
		i := c.find(itemID)
		if i < 0 {
			return false
		}
		c.lines[i].Quantity = qty
		return true
	})
}

func (c *cartStore) Increment(ctx context.Context, itemID string) bool {
	return c.mutate(ctx, func() bool {
		i := c.find(itemID)
		if i < 0 {
			return false
		}
		c.lines[i].Quantity++
		return true
	})
}

func (c *cartStore) Decrement(ctx context.Context, itemID string) bool {
	return c.mutate(ctx, func() bool {
		i := c.find(itemID)
		if i < 0 || c.lines[i].Quantity <= 1 {
			return false
		}
		c.lines[i].Quantity--
		return true
	})
}

func (c *cartStore) RemoveItem(ctx context.Context, itemID string) bool {
	return c.mutate(ctx, func() bool {
		i := c.find(itemID)
		if i < 0 {
			return false
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return true
	})
}

func (c *cartStore) Clear(ctx context.Context) {
	c.mutate(ctx, func() bool {
		c.lines = nil
		return true
	})
}

func (c *cartStore) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *cartStore) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CartTotal(c.lines)
}

func (c *cartStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}
