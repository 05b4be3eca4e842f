package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratamawijaya/teashop/internal/auth"
	"github.com/pratamawijaya/teashop/internal/inventory"
	"github.com/pratamawijaya/teashop/internal/orders"
)

type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID string, in orders.PlaceOrderInput) (orders.Placed, error)
}

type OrderReader interface {
	Get(ctx context.Context, orderID string) (orders.Order, error)
	ListByUser(ctx context.Context, userID string) ([]orders.Order, error)
}

type OrdersHandler struct {
	Checkout CheckoutService
	Orders   OrderReader
	Resolver auth.Resolver
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Resolver))
		r.Post("/api/orders", h.createOrder)
		r.Get("/api/orders", h.listOrders)
		r.Get("/api/orders/{id}", h.getOrder)
	})
}

type createOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"` // minor units (cents)
}

type createOrderReq struct {
	Items        []createOrderItem   `json:"items"`
	ShippingInfo orders.ShippingInfo `json:"shippingInfo"`
	TotalAmount  int                 `json:"totalAmount"` // minor units (cents)
}

type createOrderResp struct {
	Message     string `json:"message"`
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input", "malformed json body")
		return
	}

	in := orders.PlaceOrderInput{
		Shipping:   req.ShippingInfo,
		TotalCents: req.TotalAmount,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, orders.Item{
			ProductID:      it.ProductID,
			Qty:            it.Quantity,
			UnitPriceCents: it.Price,
		})
	}

	placed, err := h.Checkout.PlaceOrder(r.Context(), p.UserID, in)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, createOrderResp{
			Message:     "order placed",
			OrderID:     placed.OrderID,
			OrderNumber: placed.OrderNumber,
		})
	case errors.Is(err, orders.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input", err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient stock", err.Error())
	case errors.Is(err, inventory.ErrNotFound):
		writeError(w, http.StatusConflict, "unknown product", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "order creation failed", err.Error())
	}
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	list, err := h.Orders.ListByUser(r.Context(), p.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list orders failed", err.Error())
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	o, err := h.Orders.Get(r.Context(), orderID)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get order failed", err.Error())
		return
	}
	// Orders are visible to their owner and to admins only. Leak nothing
	// about other users' orders: respond 404, not 403.
	if o.UserID != p.UserID && !p.Admin {
		writeError(w, http.StatusNotFound, "not found", "")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
