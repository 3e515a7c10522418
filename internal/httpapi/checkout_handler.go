package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
	"github.com/GOSUGING/levelup-storefront-go/internal/clients"
	"github.com/GOSUGING/levelup-storefront-go/internal/identity"
)

type CheckoutHandler struct {
	session *identity.Session
	mgr     *cart.Manager
	coupons *clients.CouponsClient
	payment *clients.PaymentClient
	log     *zap.Logger
}

func NewCheckoutHandler(session *identity.Session, mgr *cart.Manager, coupons *clients.CouponsClient, payment *clients.PaymentClient, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{session: session, mgr: mgr, coupons: coupons, payment: payment, log: log}
}

type checkoutRequest struct {
	CouponCode string              `json:"couponCode"`
	Payment    clients.CardDetails `json:"payment"`
}

// Checkout submits the current cart to the payment service, applying an
// optional coupon. The cart is cleared on success.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	u := h.session.Current()
	if u == nil {
		writeError(w, r, http.StatusUnauthorized, "login required to check out")
		return
	}

	var body checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	items := h.mgr.Items()
	if len(items) == 0 {
		writeError(w, r, http.StatusConflict, "cart is empty")
		return
	}

	var coupon *clients.CheckoutCoupon
	discount := decimal.Zero
	if body.CouponCode != "" {
		c, err := h.coupons.FindByCode(r.Context(), body.CouponCode)
		if err != nil {
			writeError(w, r, http.StatusBadGateway, "coupon service request failed")
			return
		}
		if c == nil {
			writeError(w, r, http.StatusUnprocessableEntity, "coupon not found")
			return
		}
		coupon = &clients.CheckoutCoupon{Code: c.Code, Percent: c.DiscountPercent}
		discount = c.DiscountPercent
	}

	req := clients.CheckoutRequest{
		UserID:  u.ID,
		Items:   checkoutLines(items, discount),
		Coupon:  coupon,
		Payment: body.Payment,
	}

	resp, err := h.payment.Checkout(r.Context(), req)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "payment service request failed")
		return
	}

	if err := h.mgr.Clear(r.Context()); err != nil {
		// Paid but not emptied; the next refresh reconciles with the server.
		h.log.Warn("cart clear after checkout failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, resp)
}

// checkoutLines converts cart lines to the payment wire shape, applying the
// discount percentage to each unit price, rounded to whole currency units.
func checkoutLines(items []cart.Item, discountPercent decimal.Decimal) []clients.CheckoutLine {
	hundred := decimal.NewFromInt(100)
	factor := hundred.Sub(discountPercent).Div(hundred)

	lines := make([]clients.CheckoutLine, 0, len(items))
	for _, it := range items {
		price := it.UnitPrice
		if discountPercent.IsPositive() {
			price = price.Mul(factor)
		}
		lines = append(lines, clients.CheckoutLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     price.Round(0),
		})
	}
	return lines
}
