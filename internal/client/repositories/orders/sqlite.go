package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, scope string, list []models.Order) error {
	if err := r.DeleteScope(ctx, scope); err != nil {
		return err
	}

	query := `INSERT INTO orders (scope, id, position, status, version, updated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i, o := range list {
		payload, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("failed to encode order %s: %w", o.ID, err)
		}
		_, err = r.db.ExecContext(ctx, query,
			scope, o.ID, i, string(o.Status), o.Version, formatTime(o.UpdatedAt), payload)
		if err != nil {
			return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, scope string, o models.Order) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to encode order %s: %w", o.ID, err)
	}

	query := `INSERT INTO orders (scope, id, position, status, version, updated_at, payload)
		VALUES (?, ?, COALESCE((SELECT MIN(position) FROM orders WHERE scope = ?), 0) - 1, ?, ?, ?, ?)
		ON CONFLICT(scope, id) DO UPDATE SET
			status = excluded.status,
			version = excluded.version,
			updated_at = excluded.updated_at,
			payload = excluded.payload`
	_, err = r.db.ExecContext(ctx, query,
		scope, o.ID, scope, string(o.Status), o.Version, formatTime(o.UpdatedAt), payload)
	if err != nil {
		return fmt.Errorf("failed to upsert order %s: %w", o.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, scope string) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM orders WHERE scope = ? ORDER BY position`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}
	defer rows.Close()

	result := []models.Order{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		var o models.Order
		if err := json.Unmarshal(payload, &o); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteScope(ctx context.Context, scope string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to delete orders: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
