package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
)

// PaymentClient talks to the payment service. Card handling and payment
// processing are owned by that service; the field names below are its wire
// contract.
type PaymentClient struct{ c *Client }

func NewPaymentClient(c *Client) *PaymentClient { return &PaymentClient{c: c} }

// CheckoutLine is one purchased line as the payment service expects it.
type CheckoutLine struct {
	ProductID cart.ID         `json:"productId"`
	Name      string          `json:"nombre"`
	Quantity  int             `json:"cantidad"`
	Price     decimal.Decimal `json:"price"`
}

// CheckoutCoupon is the applied coupon, if any.
type CheckoutCoupon struct {
	Code    string          `json:"codigo"`
	Percent decimal.Decimal `json:"porcentaje"`
}

// CardDetails passes through to the payment service unaltered.
type CardDetails struct {
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

type CheckoutRequest struct {
	UserID  string          `json:"userId"`
	Items   []CheckoutLine  `json:"items"`
	Coupon  *CheckoutCoupon `json:"coupon"`
	Payment CardDetails     `json:"payment"`
}

type CheckoutResponse struct {
	ID     cart.ID `json:"id"`
	Status string  `json:"status"`
}

type Payment struct {
	ID     cart.ID         `json:"id"`
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
}

func (pc *PaymentClient) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	var resp CheckoutResponse
	err := pc.c.doJSON(ctx, http.MethodPost, "/api/payments/checkout", req, &resp)
	return resp, err
}

func (pc *PaymentClient) Payments(ctx context.Context) ([]Payment, error) {
	var out []Payment
	if err := pc.c.doJSON(ctx, http.MethodGet, "/api/payments/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (pc *PaymentClient) Payment(ctx context.Context, id string) (Payment, error) {
	var out Payment
	err := pc.c.doJSON(ctx, http.MethodGet, "/api/payments/"+url.PathEscape(id), nil, &out)
	return out, err
}
