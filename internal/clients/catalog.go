package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
)

// CatalogClient talks to the products service. The service may answer a list
// request with a plain array or a paged envelope; both are accepted here.
type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

// Product is a catalog entry. Stock is the purchasable ceiling the cart
// enforces.
type Product struct {
	ID          cart.ID         `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"img"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
}

// CartProduct converts the catalog entry to the cart's add-time reference,
// carrying the stock ceiling along.
func (p Product) CartProduct() cart.Product {
	stock := p.Stock
	return cart.Product{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Stock:     &stock,
		ImageURL:  p.ImageURL,
	}
}

type pagedProducts struct {
	Content []Product `json:"content"`
}

// List fetches all products, accepting either a plain array or a paged
// response with a content field.
func (cc *CatalogClient) List(ctx context.Context) ([]Product, error) {
	var raw json.RawMessage
	if err := cc.c.doJSON(ctx, http.MethodGet, "/api/v1/products", nil, &raw); err != nil {
		return nil, err
	}

	var plain []Product
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain, nil
	}

	var paged pagedProducts
	if err := json.Unmarshal(raw, &paged); err == nil && paged.Content != nil {
		return paged.Content, nil
	}

	return nil, fmt.Errorf("%s: unexpected product list payload", cc.c.Name)
}

func (cc *CatalogClient) Get(ctx context.Context, id cart.ID) (Product, error) {
	var p Product
	err := cc.c.doJSON(ctx, http.MethodGet, "/api/v1/products/"+url.PathEscape(string(id)), nil, &p)
	return p, err
}

func (cc *CatalogClient) Create(ctx context.Context, p Product) (Product, error) {
	var out Product
	err := cc.c.doJSON(ctx, http.MethodPost, "/api/v1/products", p, &out)
	return out, err
}

func (cc *CatalogClient) Update(ctx context.Context, p Product) (Product, error) {
	var out Product
	err := cc.c.doJSON(ctx, http.MethodPut, "/api/v1/products/"+url.PathEscape(string(p.ID)), p, &out)
	return out, err
}

func (cc *CatalogClient) Delete(ctx context.Context, id cart.ID) error {
	return cc.c.doJSON(ctx, http.MethodDelete, "/api/v1/products/"+url.PathEscape(string(id)), nil, nil)
}
