package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pratamawijaya/teashop/internal/inventory"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// DB matches the pgxpool methods we use so tests can substitute a mock.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repo struct{ DB DB }

// PlaceOrder persists the order header, every line, and the matching stock
// decrements in one transaction. A mid-loop failure (short stock, missing
// product, statement error) rolls everything back: no header, no lines, no
// stock change survive.
func (r *Repo) PlaceOrder(ctx context.Context, o *Order) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.InsertHeader(ctx, tx, o); err != nil {
		return err
	}

	// Lines are written in submission order; each decrement is a single
	// guarded statement so stock can never go negative under concurrency.
	for i := range o.Lines {
		line := &o.Lines[i]
		if err := r.InsertLine(ctx, tx, line); err != nil {
			return err
		}
		if err := inventory.Decrement(ctx, tx, line.ProductID, line.Qty); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *Repo) InsertHeader(ctx context.Context, q inventory.Querier, o *Order) error {
	_, err := q.Exec(ctx, `INSERT INTO orders(id, user_id, order_number, status, total_cents,
                                              ship_name, ship_address, ship_city, ship_postcode)
                           VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		o.ID, o.UserID, o.OrderNumber, o.Status, o.TotalCents,
		o.Shipping.Name, o.Shipping.Address, o.Shipping.City, o.Shipping.Postcode)
	if err != nil {
		return fmt.Errorf("insert order header: %w", err)
	}
	return nil
}

func (r *Repo) InsertLine(ctx context.Context, q inventory.Querier, l *Line) error {
	_, err := q.Exec(ctx, `INSERT INTO order_lines(id, order_id, product_id, qty, unit_price_cents)
                           VALUES ($1,$2,$3,$4,$5)`,
		l.ID, l.OrderID, l.ProductID, l.Qty, l.UnitPriceCents)
	if err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, orderID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `SELECT id, user_id, order_number, status, total_cents,
                                      ship_name, ship_address, ship_city, ship_postcode,
                                      created_at, updated_at
                               FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.TotalCents,
			&o.Shipping.Name, &o.Shipping.Address, &o.Shipping.City, &o.Shipping.Postcode,
			&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	rows, err := r.DB.Query(ctx, `SELECT id, order_id, product_id, qty, unit_price_cents
                                  FROM order_lines WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Qty, &l.UnitPriceCents); err != nil {
			return Order{}, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `SELECT id, user_id, order_number, status, total_cents,
                               ship_name, ship_address, ship_city, ship_postcode,
                               created_at, updated_at
                        FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *Repo) List(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT id, user_id, order_number, status, total_cents,
                               ship_name, ship_address, ship_city, ship_postcode,
                               created_at, updated_at
                        FROM orders ORDER BY created_at DESC`)
}

func (r *Repo) list(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.TotalCents,
			&o.Shipping.Name, &o.Shipping.Address, &o.Shipping.City, &o.Shipping.Postcode,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order along the status machine. The UPDATE is guarded
// by the current status so a concurrent transition loses cleanly instead of
// overwriting.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, to Status) error {
	var cur Status
	err := r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !CanTransition(cur, to) {
		return fmt.Errorf("%s -> %s: %w", cur, to, ErrInvalidTransition)
	}

	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now()
                               WHERE id=$1 AND status=$3`, orderID, to, cur)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s -> %s: %w", cur, to, ErrInvalidTransition)
	}
	return nil
}
