package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
)

type CartHandler struct {
	mgr *cart.Manager
}

func NewCartHandler(mgr *cart.Manager) *CartHandler { return &CartHandler{mgr: mgr} }

type cartView struct {
	Items     []cart.Item     `json:"items"`
	ItemCount int             `json:"itemCount"`
	LineCount int             `json:"lineCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func viewOf(snap cart.Snapshot) cartView {
	items := snap.Items
	if items == nil {
		items = []cart.Item{}
	}
	return cartView{
		Items:     items,
		ItemCount: snap.ItemCount,
		LineCount: snap.LineCount,
		Subtotal:  snap.Subtotal,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(h.mgr.View()))
}

type addItemRequest struct {
	cart.RawProduct
	Qty int `json:"qty"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	p, ok := body.Normalize()
	if !ok {
		writeError(w, r, http.StatusBadRequest, "product has no usable identifier")
		return
	}

	if err := h.mgr.AddItem(r.Context(), p, body.Qty); err != nil {
		h.writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(h.mgr.View()))
}

type setQtyRequest struct {
	Qty int `json:"qty"`
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		writeError(w, r, http.StatusBadRequest, "missing productId")
		return
	}

	var body setQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.mgr.SetQuantity(r.Context(), cart.ID(productID), body.Qty); err != nil {
		h.writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(h.mgr.View()))
}

func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		writeError(w, r, http.StatusBadRequest, "missing productId")
		return
	}

	if err := h.mgr.Increment(r.Context(), cart.ID(productID)); err != nil {
		h.writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(h.mgr.View()))
}

func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		writeError(w, r, http.StatusBadRequest, "missing productId")
		return
	}

	if err := h.mgr.Decrement(r.Context(), cart.ID(productID)); err != nil {
		h.writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(h.mgr.View()))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		writeError(w, r, http.StatusBadRequest, "missing productId")
		return
	}

	if err := h.mgr.RemoveItem(r.Context(), cart.ID(productID)); err != nil {
		h.writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(h.mgr.View()))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.Clear(r.Context()); err != nil {
		h.writeCartError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(h.mgr.View()))
}

// writeCartError maps advisory rejections to 409 with a distinct code and
// everything else to 502 (the cart service call failed; local state is at
// its last known good value).
func (h *CartHandler) writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		writeAdvisory(w, r, http.StatusConflict, "out_of_stock", "product is out of stock")
	case errors.Is(err, cart.ErrStockExhausted):
		writeAdvisory(w, r, http.StatusConflict, "stock_exhausted", "no stock left for this product")
	case errors.Is(err, cart.ErrCeilingReached):
		writeAdvisory(w, r, http.StatusConflict, "ceiling_reached", "quantity exceeds available stock")
	default:
		writeError(w, r, http.StatusBadGateway, "cart operation failed, try again")
	}
}
