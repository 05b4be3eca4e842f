package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratamawijaya/teashop/internal/catalog"
)

type ProductReader interface {
	Get(ctx context.Context, productID string) (catalog.Product, error)
	List(ctx context.Context) ([]catalog.Product, error)
}

// ProductCache returns (nil, nil) on miss. Errors are treated as misses.
type ProductCache interface {
	Get(ctx context.Context, productID string) ([]byte, error)
	Set(ctx context.Context, productID string, payload []byte) error
}

type CatalogHandler struct {
	Products ProductReader
	Cache    ProductCache // optional
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/api/products", h.listProducts)
	r.Get("/api/products/{id}", h.getProduct)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Products.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list products failed", err.Error())
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	if h.Cache != nil {
		if b, err := h.Cache.Get(r.Context(), productID); err == nil && b != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(b)
			return
		}
	}

	p, err := h.Products.Get(r.Context(), productID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get product failed", err.Error())
		return
	}

	b, _ := json.Marshal(p)
	if h.Cache != nil {
		_ = h.Cache.Set(r.Context(), productID, b)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
