package clients

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// CouponsClient talks to the coupons service. Validation rules stay
// server-side; this gateway only maps the service's wire shape.
type CouponsClient struct{ c *Client }

func NewCouponsClient(c *Client) *CouponsClient { return &CouponsClient{c: c} }

// Coupon is the storefront-side view of a discount coupon.
type Coupon struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	State           string          `json:"state"`
}

// couponDTO is the coupons service wire shape.
type couponDTO struct {
	ID            string          `json:"id"`
	DiscountCode  string          `json:"discount_code"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	State         string          `json:"state"`
}

func (d couponDTO) coupon() Coupon {
	return Coupon{
		ID:              d.ID,
		Code:            d.DiscountCode,
		DiscountPercent: d.DiscountValue,
		State:           d.State,
	}
}

func toDTO(c Coupon) couponDTO {
	return couponDTO{
		ID:            c.ID,
		DiscountCode:  c.Code,
		DiscountValue: c.DiscountPercent,
		State:         c.State,
	}
}

func (cc *CouponsClient) List(ctx context.Context) ([]Coupon, error) {
	var dtos []couponDTO
	if err := cc.c.doJSON(ctx, http.MethodGet, "/api/v1/coupons", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]Coupon, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.coupon())
	}
	return out, nil
}

func (cc *CouponsClient) Get(ctx context.Context, id string) (Coupon, error) {
	var dto couponDTO
	err := cc.c.doJSON(ctx, http.MethodGet, "/api/v1/coupons/"+url.PathEscape(id), nil, &dto)
	return dto.coupon(), err
}

func (cc *CouponsClient) Create(ctx context.Context, c Coupon) (Coupon, error) {
	var dto couponDTO
	err := cc.c.doJSON(ctx, http.MethodPost, "/api/v1/coupons", toDTO(c), &dto)
	return dto.coupon(), err
}

func (cc *CouponsClient) Update(ctx context.Context, c Coupon) (Coupon, error) {
	var dto couponDTO
	err := cc.c.doJSON(ctx, http.MethodPut, "/api/v1/coupons/"+url.PathEscape(c.ID), toDTO(c), &dto)
	return dto.coupon(), err
}

func (cc *CouponsClient) Delete(ctx context.Context, id string) error {
	return cc.c.doJSON(ctx, http.MethodDelete, "/api/v1/coupons/"+url.PathEscape(id), nil, nil)
}

// FindByCode looks a coupon up by its code, normalized to upper case. An
// unknown code returns (nil, nil) rather than an error.
func (cc *CouponsClient) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if upper == "" {
		return nil, nil
	}

	var dto couponDTO
	err := cc.c.doJSON(ctx, http.MethodGet, "/api/v1/coupons/code/"+url.PathEscape(upper), nil, &dto)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	c := dto.coupon()
	return &c, nil
}
