// Package notification builds the transient alerts shown to the operator.
// Notifications are never persisted.
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

type Type string

const (
	TypeLowStock Type = "low_stock"
	TypeSale     Type = "sale"
	TypeExchange Type = "exchange"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultLowStockThreshold flags products with fewer units than this.
const DefaultLowStockThreshold = 2

type Notification struct {
	ID         uuid.UUID `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
	Type       Type      `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	ProductID  int64     `json:"productId,omitempty"`
	SaleID     int64     `json:"saleId,omitempty"`
	ExchangeID int64     `json:"exchangeId,omitempty"`
	Priority   Priority  `json:"priority"`
}

func newNotification(now time.Time, t Type, p Priority, title, msg string) Notification {
	return Notification{
		ID:        uuid.New(),
		Timestamp: now,
		Type:      t,
		Title:     title,
		Message:   msg,
		Priority:  p,
	}
}

func NewSale(now time.Time, saleID int64, total money.Cents) Notification {
	n := newNotification(now, TypeSale, PriorityMedium,
		"Nova Venda Realizada",
		fmt.Sprintf("Venda concluída no valor de %s", total),
	)
	n.SaleID = saleID

	return n
}

func NewExchange(now time.Time, exchangeID, saleID int64, reason string) Notification {
	n := newNotification(now, TypeExchange, PriorityMedium,
		"Nova Troca Registrada",
		fmt.Sprintf("Troca registrada para a venda #%d - Motivo: %s", saleID, reason),
	)
	n.ExchangeID = exchangeID

	return n
}

func NewLowStock(now time.Time, p product.Product) Notification {
	n := newNotification(now, TypeLowStock, PriorityHigh,
		"Estoque Baixo",
		fmt.Sprintf("O produto %q está com estoque baixo (%d unidades restantes)", p.Name, p.Stock),
	)
	n.ProductID = p.ID

	return n
}

// LowStock returns the products whose stock is below threshold.
func LowStock(products []product.Product, threshold int) []product.Product {
	var out []product.Product

	for _, p := range products {
		if p.Stock < threshold {
			out = append(out, p)
		}
	}

	return out
}

// ScanLowStock returns the low-stock notifications to add for products. A
// product that already has an unread low-stock notification is skipped, so
// each product has at most one unread alert at a time.
func ScanLowStock(now time.Time, products []product.Product, existing []Notification, threshold int) []Notification {
	pending := make(map[int64]bool)

	for _, n := range existing {
		if n.Type == TypeLowStock && !n.Read {
			pending[n.ProductID] = true
		}
	}

	var out []Notification

	for _, p := range LowStock(products, threshold) {
		if pending[p.ID] {
			continue
		}

		pending[p.ID] = true
		out = append(out, NewLowStock(now, p))
	}

	return out
}

// Unread counts notifications not yet marked read.
func Unread(ns []Notification) int {
	var n int

	for _, x := range ns {
		if !x.Read {
			n++
		}
	}

	return n
}
