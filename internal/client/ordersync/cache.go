package ordersync

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/client/repositories/orders"
	"github.com/dmitrijs2005/restorder/internal/dbx"
)

// Cache stores the last snapshot of each view.
type Cache interface {
	Save(ctx context.Context, scope string, list []models.Order) error
	Put(ctx context.Context, scope string, o models.Order) error
	Load(ctx context.Context, scope string) ([]models.Order, error)
	Clear(ctx context.Context, scope string) error
}

type sqliteCache struct {
	db *sql.DB
}

func NewSQLiteCache(db *sql.DB) Cache {
	return &sqliteCache{db: db}
}

func (c *sqliteCache) Save(ctx context.Context, scope string, list []models.Order) error {
	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return orders.NewSQLiteRepository(tx).ReplaceAll(ctx, scope, list)
	})
}

func (c *sqliteCache) Put(ctx context.Context, scope string, o models.Order) error {
	return orders.NewSQLiteRepository(c.db).Upsert(ctx, scope, o)
}

func (c *sqliteCache) Load(ctx context.Context, scope string) ([]models.Order, error) {
	return orders.NewSQLiteRepository(c.db).GetAll(ctx, scope)
}

func (c *sqliteCache) Clear(ctx context.Context, scope string) error {
	return orders.NewSQLiteRepository(c.db).DeleteScope(ctx, scope)
}
