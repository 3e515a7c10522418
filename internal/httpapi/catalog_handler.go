package httpapi

import (
	"errors"
	"net/http"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
	"github.com/GOSUGING/levelup-storefront-go/internal/clients"
)

type CatalogHandler struct {
	catalog *clients.CatalogClient
	coupons *clients.CouponsClient
}

func NewCatalogHandler(catalog *clients.CatalogClient, coupons *clients.CouponsClient) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, coupons: coupons}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "product service request failed")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing product id")
		return
	}

	p, err := h.catalog.Get(r.Context(), cart.ID(id))
	if err != nil {
		var se *clients.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, r, http.StatusBadGateway, "product service request failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		writeError(w, r, http.StatusBadRequest, "missing coupon code")
		return
	}

	c, err := h.coupons.FindByCode(r.Context(), code)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "coupon service request failed")
		return
	}
	if c == nil {
		writeError(w, r, http.StatusNotFound, "coupon not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}
