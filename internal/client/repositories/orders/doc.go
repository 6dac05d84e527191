// Package orders keeps the last known order lists on disk so the client can
// show them while the backend is unreachable.
//
// Snapshots are grouped by scope ("mine" for the customer's own history,
// "admin" for the operator view). Within a scope orders are returned in the
// order they were stored; Upsert places unseen orders in front, matching
// the newest-first lists the backend serves.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    return orders.NewSQLiteRepository(tx).ReplaceAll(ctx, orders.ScopeMine, list)
//	})
package orders
