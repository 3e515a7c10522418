package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ID is an opaque product or cart-line identifier. Upstream services are not
// consistent about the JSON type (some send strings, others numbers), so it
// accepts both on the wire and always compares as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	if string(b) == "null" {
		*id = ""
		return nil
	}
	return fmt.Errorf("id: cannot unmarshal %s", string(b))
}

// Item is one line of the cart, unique per product.
type Item struct {
	ProductID ID `json:"productId"`
	// CartItemID identifies the line in the remote cart service. Empty while
	// the cart is local-only.
	CartItemID ID              `json:"cartItemId,omitempty"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"price"`
	Quantity   int             `json:"qty"`
	// Stock is the quantity ceiling known for this product, nil when no
	// ceiling applies.
	Stock    *int   `json:"stock,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Product is the caller-supplied reference used when adding to the cart.
// Name, price and image are snapshot at add time and never re-fetched.
type Product struct {
	ID        ID
	Name      string
	UnitPrice decimal.Decimal
	Stock     *int
	ImageURL  string
}

func itemFromProduct(p Product, qty int) Item {
	return Item{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Quantity:  qty,
		Stock:     p.Stock,
		ImageURL:  p.ImageURL,
	}
}

// ItemCount sums the quantities over all lines.
func ItemCount(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func findLine(items []Item, productID ID) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
