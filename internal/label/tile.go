package label

import (
	"errors"

	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

var ErrInvalidPromo = errors.New("promo price must be positive and below the regular price")

type Variant string

const (
	VariantNormal Variant = "normal"
	VariantPromo  Variant = "promo"
)

// Tile is one label design, printed Copies times.
type Tile struct {
	Product    product.Product
	Variant    Variant
	PromoPrice money.Cents
	Copies     int
}

func (t Tile) Validate() error {
	if t.Variant != VariantPromo {
		return nil
	}

	if t.PromoPrice <= 0 || t.PromoPrice >= t.Product.Price {
		return ErrInvalidPromo
	}

	return nil
}

// Price is the price printed in large type.
func (t Tile) Price() money.Cents {
	if t.Variant == VariantPromo {
		return t.PromoPrice
	}

	return t.Product.Price
}

// BarcodeValid reports whether the product barcode can be drawn as EAN-13.
func (t Tile) BarcodeValid() bool {
	return ValidEAN13(t.Product.Barcode)
}

func (t Tile) copies() int {
	if t.Copies < 1 {
		return 1
	}

	return t.Copies
}

// PriceFontSize picks the price size in CSS pixels so that longer amounts
// still fit the tile width.
func PriceFontSize(price money.Cents) float64 {
	switch n := len([]rune(price.String())); {
	case n <= 8:
		return 16
	case n <= 10:
		return 14
	case n <= 12:
		return 12
	default:
		return 10
	}
}
