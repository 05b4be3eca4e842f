package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratamawijaya/teashop/internal/auth"
	"github.com/pratamawijaya/teashop/internal/inventory"
	"github.com/pratamawijaya/teashop/internal/orders"
)

type fakeResolver struct {
	principals map[string]auth.Principal
}

func (r *fakeResolver) Resolve(ctx context.Context, token string) (auth.Principal, error) {
	p, ok := r.principals[token]
	if !ok {
		return auth.Principal{}, auth.ErrUnauthorized
	}
	return p, nil
}

type fakeCheckout struct {
	placed   orders.Placed
	err      error
	gotUser  string
	gotInput orders.PlaceOrderInput
}

func (c *fakeCheckout) PlaceOrder(ctx context.Context, userID string, in orders.PlaceOrderInput) (orders.Placed, error) {
	c.gotUser = userID
	c.gotInput = in
	if c.err != nil {
		return orders.Placed{}, c.err
	}
	return c.placed, nil
}

type fakeOrderReader struct {
	orders map[string]orders.Order
	err    error
}

func (r *fakeOrderReader) Get(ctx context.Context, orderID string) (orders.Order, error) {
	if r.err != nil {
		return orders.Order{}, r.err
	}
	o, ok := r.orders[orderID]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderReader) ListByUser(ctx context.Context, userID string) ([]orders.Order, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []orders.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func defaultResolver() *fakeResolver {
	return &fakeResolver{principals: map[string]auth.Principal{
		"tok-user":  {UserID: "user-1"},
		"tok-other": {UserID: "user-2"},
		"tok-admin": {UserID: "admin-1", Admin: true},
	}}
}

func newOrdersRouter(checkout CheckoutService, reader OrderReader) http.Handler {
	r := NewRouter()
	h := &OrdersHandler{Checkout: checkout, Orders: reader, Resolver: defaultResolver()}
	h.Register(r)
	return r
}

func checkoutBody() []byte {
	b, _ := json.Marshal(map[string]any{
		"items": []map[string]any{
			{"productId": "p1", "quantity": 3, "price": 450},
		},
		"shippingInfo": map[string]any{"name": "A", "address": "B", "city": "C", "postcode": "D"},
		"totalAmount":  1350,
	})
	return b
}

func TestCreateOrder_MissingAuth(t *testing.T) {
	checkout := &fakeCheckout{}
	router := newOrdersRouter(checkout, &fakeOrderReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(checkoutBody()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if checkout.gotUser != "" {
		t.Fatal("checkout must not run without a principal")
	}
}

func TestCreateOrder_InvalidToken(t *testing.T) {
	router := newOrdersRouter(&fakeCheckout{}, &fakeOrderReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(checkoutBody()))
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateOrder_Success(t *testing.T) {
	checkout := &fakeCheckout{placed: orders.Placed{OrderID: "order-1", OrderNumber: "TEA-1"}}
	router := newOrdersRouter(checkout, &fakeOrderReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(checkoutBody()))
	req.Header.Set("Authorization", "Bearer tok-user")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp createOrderResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OrderID != "order-1" || resp.OrderNumber != "TEA-1" || resp.Message == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if checkout.gotUser != "user-1" {
		t.Fatalf("expected principal user-1, got %q", checkout.gotUser)
	}
	if len(checkout.gotInput.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(checkout.gotInput.Items))
	}
	it := checkout.gotInput.Items[0]
	if it.ProductID != "p1" || it.Qty != 3 || it.UnitPriceCents != 450 {
		t.Fatalf("item not passed through: %+v", it)
	}
	if checkout.gotInput.TotalCents != 1350 {
		t.Fatalf("total not passed through: %d", checkout.gotInput.TotalCents)
	}
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	router := newOrdersRouter(&fakeCheckout{}, &fakeOrderReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer tok-user")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateOrder_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid input", fmt.Errorf("empty items: %w", orders.ErrInvalidInput), http.StatusBadRequest},
		{"insufficient stock", fmt.Errorf("product p1: %w", inventory.ErrInsufficientStock), http.StatusConflict},
		{"unknown product", fmt.Errorf("product p1: %w", inventory.ErrNotFound), http.StatusConflict},
		{"storage failure", errors.New("db unreachable"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			router := newOrdersRouter(&fakeCheckout{err: c.err}, &fakeOrderReader{})

			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(checkoutBody()))
			req.Header.Set("Authorization", "Bearer tok-user")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != c.code {
				t.Fatalf("expected %d, got %d: %s", c.code, rec.Code, rec.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error payload: %v", err)
			}
			if resp.Error == "" {
				t.Fatal("expected error field in payload")
			}
		})
	}
}

func TestGetOrder_OwnerScoping(t *testing.T) {
	reader := &fakeOrderReader{orders: map[string]orders.Order{
		"order-1": {ID: "order-1", UserID: "user-1", Status: orders.StatusPending},
	}}
	router := newOrdersRouter(&fakeCheckout{}, reader)

	cases := []struct {
		token string
		code  int
	}{
		{"tok-user", http.StatusOK},       // owner
		{"tok-other", http.StatusNotFound}, // someone else's order
		{"tok-admin", http.StatusOK},      // admin sees everything
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/order-1", nil)
		req.Header.Set("Authorization", "Bearer "+c.token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != c.code {
			t.Fatalf("token %s: expected %d, got %d", c.token, c.code, rec.Code)
		}
	}
}

func TestGetOrder_Missing(t *testing.T) {
	router := newOrdersRouter(&fakeCheckout{}, &fakeOrderReader{})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ghost", nil)
	req.Header.Set("Authorization", "Bearer tok-user")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListOrders(t *testing.T) {
	reader := &fakeOrderReader{orders: map[string]orders.Order{
		"order-1": {ID: "order-1", UserID: "user-1"},
		"order-2": {ID: "order-2", UserID: "user-2"},
	}}
	router := newOrdersRouter(&fakeCheckout{}, reader)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer tok-user")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []orders.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].ID != "order-1" {
		t.Fatalf("expected only the caller's orders, got %+v", list)
	}
}
