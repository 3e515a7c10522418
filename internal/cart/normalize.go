package cart

import "github.com/shopspring/decimal"

// RawProduct is the alias-tolerant wire shape accepted at the system
// boundary. Backends disagree on the identifier field name, so every
// accepted alias is decoded here and nowhere else.
type RawProduct struct {
	ID        ID              `json:"id"`
	ProductID ID              `json:"productId"`
	MongoID   ID              `json:"_id"`
	LegacyID  ID              `json:"idProducto"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     *int            `json:"stock"`
	ImageURL  string          `json:"imageUrl"`
}

// Normalize maps the raw shape to the canonical Product. The second return
// is false when no usable identifier is present.
func (r RawProduct) Normalize() (Product, bool) {
	id := firstID(r.ID, r.ProductID, r.MongoID, r.LegacyID)
	if id == "" {
		return Product{}, false
	}
	return Product{
		ID:        id,
		Name:      r.Name,
		UnitPrice: r.Price,
		Stock:     r.Stock,
		ImageURL:  r.ImageURL,
	}, true
}

func firstID(candidates ...ID) ID {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
