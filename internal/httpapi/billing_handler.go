package httpapi

import (
	"errors"
	"net/http"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
	"github.com/GOSUGING/levelup-storefront-go/internal/clients"
	"github.com/GOSUGING/levelup-storefront-go/internal/identity"
)

type BillingHandler struct {
	session *identity.Session
	billing *clients.BillingClient
}

func NewBillingHandler(session *identity.Session, billing *clients.BillingClient) *BillingHandler {
	return &BillingHandler{session: session, billing: billing}
}

// ListBills returns the bills belonging to the current user. The billing
// service returns all bills; filtering by owner happens here.
func (h *BillingHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	u := h.session.Current()
	if u == nil {
		writeError(w, r, http.StatusUnauthorized, "login required")
		return
	}

	bills, err := h.billing.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "billing service request failed")
		return
	}

	own := make([]clients.Bill, 0, len(bills))
	for _, b := range bills {
		if b.UserID == u.ID {
			own = append(own, b)
		}
	}
	writeJSON(w, http.StatusOK, own)
}

func (h *BillingHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	u := h.session.Current()
	if u == nil {
		writeError(w, r, http.StatusUnauthorized, "login required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing bill id")
		return
	}

	b, err := h.billing.Get(r.Context(), cart.ID(id))
	if err != nil {
		var se *clients.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			writeError(w, r, http.StatusNotFound, "bill not found")
			return
		}
		writeError(w, r, http.StatusBadGateway, "billing service request failed")
		return
	}
	if b.UserID != u.ID {
		// Do not leak other users' bills.
		writeError(w, r, http.StatusNotFound, "bill not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}
