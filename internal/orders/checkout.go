package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

// Store persists a fully-built order atomically: header, lines, and stock
// decrements become visible together or not at all.
type Store interface {
	PlaceOrder(ctx context.Context, o *Order) error
}

// StatusCache is an optional write-through shortcut for order status reads.
type StatusCache interface {
	SetStatus(ctx context.Context, orderID, status string) error
}

type Item struct {
	ProductID      string
	Qty            int
	UnitPriceCents int
}

type PlaceOrderInput struct {
	Items      []Item
	Shipping   ShippingInfo
	TotalCents int
}

type Placed struct {
	OrderID     string
	OrderNumber string
}

// Checkout converts client-submitted cart tuples into a persisted order.
// Submitting the same input twice produces two distinct orders; the operation
// is deliberately not idempotent.
type Checkout struct {
	Store Store
	Cache StatusCache // optional
	Log   *log.Logger
}

func (c *Checkout) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (Placed, error) {
	if userID == "" {
		return Placed{}, fmt.Errorf("missing user id: %w", ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return Placed{}, fmt.Errorf("empty items: %w", ErrInvalidInput)
	}
	if in.TotalCents < 0 {
		return Placed{}, fmt.Errorf("negative total: %w", ErrInvalidInput)
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return Placed{}, fmt.Errorf("item %d: missing product id: %w", i, ErrInvalidInput)
		}
		if it.Qty <= 0 {
			return Placed{}, fmt.Errorf("item %d: quantity must be positive: %w", i, ErrInvalidInput)
		}
		if it.UnitPriceCents < 0 {
			return Placed{}, fmt.Errorf("item %d: negative price: %w", i, ErrInvalidInput)
		}
	}

	o := &Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		OrderNumber: NewOrderNumber(time.Now()),
		Status:      StatusPending,
		TotalCents:  in.TotalCents,
		Shipping:    in.Shipping,
	}
	for _, it := range in.Items {
		o.Lines = append(o.Lines, Line{
			ID:             uuid.NewString(),
			OrderID:        o.ID,
			ProductID:      it.ProductID,
			Qty:            it.Qty,
			UnitPriceCents: it.UnitPriceCents,
		})
	}

	if err := c.Store.PlaceOrder(ctx, o); err != nil {
		return Placed{}, err
	}

	if c.Cache != nil {
		// Best effort; a cache miss falls back to the DB.
		if err := c.Cache.SetStatus(ctx, o.ID, string(o.Status)); err != nil && c.Log != nil {
			c.Log.Printf("status cache write failed for order %s: %v", o.ID, err)
		}
	}
	if c.Log != nil {
		c.Log.Printf("order placed: id=%s number=%s user=%s lines=%d total_cents=%d",
			o.ID, o.OrderNumber, userID, len(o.Lines), in.TotalCents)
	}
	return Placed{OrderID: o.ID, OrderNumber: o.OrderNumber}, nil
}
