package sale

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/money"
)

var (
	ErrNoItems          = errors.New("sale has no items")
	ErrInvalidQuantity  = errors.New("item quantity must be positive")
	ErrDiscountTooLarge = errors.New("discount exceeds subtotal")
	ErrInvalidPayment   = errors.New("invalid payment method")
	ErrInsufficientCash = errors.New("amount paid is less than the total")
	ErrInstallments     = errors.New("installments must be between 1 and 12")
)

// MaxInstallments is the largest credit card split offered at checkout.
const MaxInstallments = 12

// PaymentMethod values are the labels shown on receipts and reports.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Dinheiro"
	PaymentCredit   PaymentMethod = "Cartão de Crédito"
	PaymentDebit    PaymentMethod = "Cartão de Débito"
	PaymentPix      PaymentMethod = "Pix"
	PaymentTransfer PaymentMethod = "Transferência"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCredit, PaymentDebit, PaymentPix, PaymentTransfer}

func (m PaymentMethod) Valid() bool {
	return slices.Contains(PaymentMethods, m)
}

type PaymentDetails struct {
	Installments int         `json:"installments,omitempty"`
	AmountPaid   money.Cents `json:"amountPaid,omitempty"`
	Change       money.Cents `json:"change,omitempty"`
}

// Settle validates the payment for total and returns the details to store.
// Cash computes the change when an amount paid is given; credit defaults to
// a single installment. Other methods carry no details.
func Settle(method PaymentMethod, details *PaymentDetails, total money.Cents) (*PaymentDetails, error) {
	if !method.Valid() {
		return nil, ErrInvalidPayment
	}

	var d PaymentDetails
	if details != nil {
		d = *details
	}

	switch method {
	case PaymentCash:
		if d.AmountPaid == 0 {
			return nil, nil
		}

		if d.AmountPaid < total {
			return nil, ErrInsufficientCash
		}

		return &PaymentDetails{AmountPaid: d.AmountPaid, Change: d.AmountPaid - total}, nil
	case PaymentCredit:
		if d.Installments == 0 {
			d.Installments = 1
		}

		if d.Installments < 1 || d.Installments > MaxInstallments {
			return nil, ErrInstallments
		}

		return &PaymentDetails{Installments: d.Installments}, nil
	default:
		return nil, nil
	}
}

// Item is one sold line. Name and Price are copied from the product at sale
// time.
type Item struct {
	ProductID int64       `json:"productId"`
	Name      string      `json:"name"`
	Price     money.Cents `json:"price"`
	Quantity  int         `json:"quantity"`
	Total     money.Cents `json:"total"`
}

type Sale struct {
	ID             int64           `json:"id"`
	Date           time.Time       `json:"date"`
	Items          []Item          `json:"items"`
	Subtotal       money.Cents     `json:"subtotal"`
	Discount       money.Cents     `json:"discount"`
	Total          money.Cents     `json:"total"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	PaymentDetails *PaymentDetails `json:"paymentDetails,omitempty"`
	Client         *client.Ref     `json:"client"`
}

// NewItem builds a line with its total computed.
func NewItem(productID int64, name string, price money.Cents, qty int) Item {
	return Item{
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  qty,
		Total:     price.Mul(qty),
	}
}

// Totals computes subtotal and total for items with a flat discount.
func Totals(items []Item, discount money.Cents) (subtotal, total money.Cents) {
	for _, it := range items {
		subtotal += it.Total
	}

	return subtotal, subtotal - discount
}

// ValidateItems checks a checkout before anything is written.
func ValidateItems(items []Item, discount money.Cents) error {
	if len(items) == 0 {
		return ErrNoItems
	}

	for _, it := range items {
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}

	subtotal, _ := Totals(items, 0)
	if discount < 0 || discount > subtotal {
		return ErrDiscountTooLarge
	}

	return nil
}

// ClientName is the name printed for the sale's client.
func (s *Sale) ClientName() string {
	return s.Client.DisplayName()
}

// Filter narrows a sales list the way the sales screen does.
type Filter struct {
	// Client matches a substring of the client name. Sales without a client
	// match when the term is part of "não identificado".
	Client string
	// Date keeps sales on this calendar day (local time of loc) when non-zero.
	Date time.Time
	Loc  *time.Location
}

// Apply returns matching sales sorted newest first.
func (f Filter) Apply(sales []Sale) []Sale {
	term := strings.ToLower(strings.TrimSpace(f.Client))

	loc := f.Loc
	if loc == nil {
		loc = time.Local
	}

	day := ""
	if !f.Date.IsZero() {
		day = f.Date.In(loc).Format(time.DateOnly)
	}

	out := make([]Sale, 0, len(sales))

	for _, s := range sales {
		if term != "" && !clientMatches(s.Client, term) {
			continue
		}

		if day != "" && s.Date.In(loc).Format(time.DateOnly) != day {
			continue
		}

		out = append(out, s)
	}

	slices.SortStableFunc(out, func(a, b Sale) int {
		return b.Date.Compare(a.Date)
	})

	return out
}

func clientMatches(ref *client.Ref, term string) bool {
	if ref == nil {
		return strings.Contains(strings.ToLower(client.Unidentified), term)
	}

	return strings.Contains(strings.ToLower(ref.Name), term)
}

// Find returns the sale with id.
func Find(sales []Sale, id int64) (Sale, bool) {
	i := slices.IndexFunc(sales, func(s Sale) bool { return s.ID == id })
	if i < 0 {
		return Sale{}, false
	}

	return sales[i], true
}
