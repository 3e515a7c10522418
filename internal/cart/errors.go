package cart

import "errors"

// Advisory rejections. These are anticipated outcomes of a mutation, not
// failures: the cart is left untouched and the caller renders the advisory.
var (
	// ErrOutOfStock means the product has a known ceiling of zero.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrStockExhausted means the cart already holds every available unit.
	ErrStockExhausted = errors.New("stock exhausted for product")
	// ErrCeilingReached means the requested quantity exceeds the known ceiling.
	ErrCeilingReached = errors.New("quantity exceeds available stock")
)

// IsAdvisory reports whether err is a validation rejection rather than a
// transport or persistence failure.
func IsAdvisory(err error) bool {
	return errors.Is(err, ErrOutOfStock) ||
		errors.Is(err, ErrStockExhausted) ||
		errors.Is(err, ErrCeilingReached)
}
