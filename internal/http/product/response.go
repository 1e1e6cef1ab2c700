package product

import (
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

type productResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Price       money.Cents `json:"price"`
	PriceLabel  string      `json:"priceLabel"`
	Cost        money.Cents `json:"cost"`
	Margin      money.Cents `json:"margin"`
	Stock       int         `json:"stock"`
	MinStock    int         `json:"minStock"`
	BelowMin    bool        `json:"belowMinimum"`
	Category    string      `json:"category,omitempty"`
	Barcode     string      `json:"barcode,omitempty"`
	Brand       string      `json:"brand,omitempty"`
	Model       string      `json:"model,omitempty"`
	Supplier    string      `json:"supplier,omitempty"`
	Image       string      `json:"image,omitempty"`
}

func toResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		PriceLabel:  p.Price.String(),
		Cost:        p.Cost,
		Margin:      p.Margin(),
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		BelowMin:    p.BelowMinimum(),
		Category:    p.Category,
		Barcode:     p.Barcode,
		Brand:       p.Brand,
		Model:       p.Model,
		Supplier:    p.Supplier,
		Image:       p.Image,
	}
}

func toResponseList(products []product.Product) []productResponse {
	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}

	return resp
}
