package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Querier is the subset of pgx methods stock adjustments need. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so the same statement runs standalone or inside a
// checkout transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Decrement reduces a product's stock by qty in a single guarded statement.
// The stock >= qty condition is evaluated by the database, so two concurrent
// decrements can never drive stock negative: one of them affects zero rows.
func Decrement(ctx context.Context, q Querier, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}
	ct, err := q.Exec(ctx, `UPDATE products SET stock = stock - $2, updated_at = now()
                            WHERE id = $1 AND stock >= $2`, productID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// Zero rows affected: either the product is missing or stock is short.
	var stock int
	err = q.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("probe stock: %w", err)
	}
	return fmt.Errorf("product %s: have %d, want %d: %w", productID, stock, qty, ErrInsufficientStock)
}

// Restock adds qty units back to a product.
func Restock(ctx context.Context, q Querier, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}
	ct, err := q.Exec(ctx, `UPDATE products SET stock = stock + $2, updated_at = now()
                            WHERE id = $1`, productID, qty)
	if err != nil {
		return fmt.Errorf("restock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return nil
}

// Adjuster binds the package operations to a fixed Querier for callers that
// run outside an explicit transaction (the admin surface).
type Adjuster struct{ DB Querier }

func (a *Adjuster) Decrement(ctx context.Context, productID string, qty int) error {
	return Decrement(ctx, a.DB, productID, qty)
}

func (a *Adjuster) Restock(ctx context.Context, productID string, qty int) error {
	return Restock(ctx, a.DB, productID, qty)
}
