package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
)

// BillingClient reads issued bills from the billing service.
type BillingClient struct{ c *Client }

func NewBillingClient(c *Client) *BillingClient { return &BillingClient{c: c} }

type Bill struct {
	ID     cart.ID         `json:"id"`
	UserID string          `json:"userId"`
	Total  decimal.Decimal `json:"total"`
	Date   string          `json:"date"`
}

func (bc *BillingClient) List(ctx context.Context) ([]Bill, error) {
	var out []Bill
	if err := bc.c.doJSON(ctx, http.MethodGet, "/api/bill/list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (bc *BillingClient) Get(ctx context.Context, id cart.ID) (Bill, error) {
	var out Bill
	err := bc.c.doJSON(ctx, http.MethodGet, "/api/bill/"+url.PathEscape(string(id)), nil, &out)
	return out, err
}
