package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pratamawijaya/teashop/internal/auth"
	"github.com/pratamawijaya/teashop/internal/catalog"
	"github.com/pratamawijaya/teashop/internal/inventory"
	"github.com/pratamawijaya/teashop/internal/orders"
)

type ProductWriter interface {
	Create(ctx context.Context, p *catalog.Product) error
}

type StockAdjuster interface {
	Restock(ctx context.Context, productID string, qty int) error
}

type AdminOrderStore interface {
	List(ctx context.Context) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, orderID string, to orders.Status) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, productID string) error
}

type AdminHandler struct {
	Products  ProductWriter
	Inventory StockAdjuster
	Orders    AdminOrderStore
	Cache     CacheInvalidator // optional
	Resolver  auth.Resolver
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Resolver), RequireAdmin)
		r.Post("/api/admin/products", h.createProduct)
		r.Put("/api/admin/products/{id}/stock", h.restock)
		r.Get("/api/admin/orders", h.listOrders)
		r.Patch("/api/admin/orders/{id}/status", h.updateStatus)
	})
}

type createProductReq struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Price    int    `json:"price"` // minor units (cents)
	Stock    int    `json:"stock"`
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input", "malformed json body")
		return
	}
	if req.Name == "" || req.Price < 0 || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "invalid input", "name required, price and stock must be non-negative")
		return
	}

	p := &catalog.Product{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Category:   req.Category,
		Image:      req.Image,
		PriceCents: req.Price,
		Stock:      req.Stock,
	}
	if err := h.Products.Create(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "create product failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type restockReq struct {
	Quantity int `json:"quantity"`
}

func (h *AdminHandler) restock(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	var req restockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input", "malformed json body")
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "invalid input", "quantity must be positive")
		return
	}

	err := h.Inventory.Restock(r.Context(), productID, req.Quantity)
	if errors.Is(err, inventory.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "restock failed", err.Error())
		return
	}

	if h.Cache != nil {
		_ = h.Cache.Invalidate(r.Context(), productID)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list orders failed", err.Error())
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *AdminHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input", "malformed json body")
		return
	}
	to := orders.Status(req.Status)
	if !orders.ValidStatus(to) {
		writeError(w, http.StatusBadRequest, "invalid input", "unknown status")
		return
	}

	err := h.Orders.UpdateStatus(r.Context(), orderID, to)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": to})
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "")
	case errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid status transition", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "update status failed", err.Error())
	}
}
