package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/restorder/internal/client/migrations"
	"github.com/dmitrijs2005/restorder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/restorder/internal/client/repositories/orders"
	"github.com/dmitrijs2005/restorder/internal/filex"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Repositories groups the local stores built on one database handle.
type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
	Orders   orders.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
		Orders:   orders.NewSQLiteRepository(db),
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrations.Up(ctx, db)
}

// InitDatabase opens (creating if needed) the SQLite file at dsn and
// brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != ":memory:" {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, fmt.Errorf("prepare database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: consistent.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
