package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
)

// CartClient is the remote cart gateway. Every mutation returns the server's
// full item list; the server is authoritative after a successful call.
type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

// cartItemDTO is the cart service's wire shape for one line. The service's
// "id" is the line id, not the product id.
type cartItemDTO struct {
	ID        cart.ID         `json:"id"`
	ProductID cart.ID         `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	ImageURL  string          `json:"imageUrl"`
}

type cartEnvelope struct {
	Items []cartItemDTO `json:"items"`
}

type addItemRequest struct {
	ProductID cart.ID         `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	ImageURL  string          `json:"imageUrl,omitempty"`
}

type updateQtyRequest struct {
	Qty int `json:"qty"`
}

func (cc *CartClient) Fetch(ctx context.Context, userID string) ([]cart.Item, error) {
	var env cartEnvelope
	if err := cc.c.doJSON(ctx, http.MethodGet, "/api/cart/"+url.PathEscape(userID), nil, &env); err != nil {
		return nil, err
	}
	return env.normalize(), nil
}

func (cc *CartClient) Add(ctx context.Context, userID string, it cart.Item) ([]cart.Item, error) {
	body := addItemRequest{
		ProductID: it.ProductID,
		Name:      it.Name,
		Price:     it.UnitPrice,
		Qty:       it.Quantity,
		ImageURL:  it.ImageURL,
	}
	var env cartEnvelope
	if err := cc.c.doJSON(ctx, http.MethodPost, "/api/cart/"+url.PathEscape(userID)+"/items", body, &env); err != nil {
		return nil, err
	}
	return env.normalize(), nil
}

func (cc *CartClient) UpdateQuantity(ctx context.Context, userID string, cartItemID cart.ID, qty int) ([]cart.Item, error) {
	path := "/api/cart/" + url.PathEscape(userID) + "/items/" + url.PathEscape(string(cartItemID))
	var env cartEnvelope
	if err := cc.c.doJSON(ctx, http.MethodPatch, path, updateQtyRequest{Qty: qty}, &env); err != nil {
		return nil, err
	}
	return env.normalize(), nil
}

func (cc *CartClient) Remove(ctx context.Context, userID string, cartItemID cart.ID) ([]cart.Item, error) {
	path := "/api/cart/" + url.PathEscape(userID) + "/items/" + url.PathEscape(string(cartItemID))
	var env cartEnvelope
	if err := cc.c.doJSON(ctx, http.MethodDelete, path, nil, &env); err != nil {
		return nil, err
	}
	return env.normalize(), nil
}

func (cc *CartClient) Clear(ctx context.Context, userID string) ([]cart.Item, error) {
	var env cartEnvelope
	if err := cc.c.doJSON(ctx, http.MethodDelete, "/api/cart/"+url.PathEscape(userID), nil, &env); err != nil {
		return nil, err
	}
	return env.normalize(), nil
}

func (env cartEnvelope) normalize() []cart.Item {
	items := make([]cart.Item, 0, len(env.Items))
	for _, dto := range env.Items {
		// A line at zero or below does not exist.
		if dto.Qty <= 0 {
			continue
		}
		items = append(items, cart.Item{
			ProductID:  dto.ProductID,
			CartItemID: dto.ID,
			Name:       dto.Name,
			UnitPrice:  dto.Price,
			Quantity:   dto.Qty,
			ImageURL:   dto.ImageURL,
		})
	}
	return items
}
