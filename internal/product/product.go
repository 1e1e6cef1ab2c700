package product

import (
	"errors"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/pdv/internal/money"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrNameRequired = errors.New("product name is required")
	ErrNegativeCost = errors.New("price and cost must not be negative")
	ErrNegativeMin  = errors.New("minimum stock must not be negative")
)

// Product is a catalog item. Stock is not clamped: selling more than is on
// hand drives it negative.
type Product struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       money.Cents `json:"price"`
	Cost        money.Cents `json:"cost"`
	Stock       int         `json:"stock"`
	MinStock    int         `json:"minStock"`
	Category    string      `json:"category"`
	Barcode     string      `json:"barcode"`
	Brand       string      `json:"brand"`
	Model       string      `json:"model"`
	Supplier    string      `json:"supplier"`
	Image       string      `json:"image,omitempty"`
}

// Validate checks the fields a product form requires before anything is
// written.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}

	if p.Price < 0 || p.Cost < 0 {
		return ErrNegativeCost
	}

	if p.MinStock < 0 {
		return ErrNegativeMin
	}

	return nil
}

// Margin is the price minus the cost.
func (p *Product) Margin() money.Cents {
	return p.Price - p.Cost
}

// BelowMinimum reports whether stock has fallen under the product's own
// configured minimum.
func (p *Product) BelowMinimum() bool {
	return p.Stock <= p.MinStock
}

// Matches reports whether term appears in the name, barcode, category or
// brand, ignoring case.
func (p *Product) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	for _, f := range []string{p.Name, p.Barcode, p.Category, p.Brand} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}

	return false
}

// Search returns the products matching term, keeping their order.
func Search(products []Product, term string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Matches(term) {
			out = append(out, p)
		}
	}

	return out
}

// Find returns the product with id.
func Find(products []Product, id int64) (Product, bool) {
	i := slices.IndexFunc(products, func(p Product) bool { return p.ID == id })
	if i < 0 {
		return Product{}, false
	}

	return products[i], true
}

// Categories returns the distinct non-empty categories, sorted.
func Categories(products []Product) []string {
	var out []string

	for _, p := range products {
		if p.Category != "" && !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}

	slices.Sort(out)

	return out
}
