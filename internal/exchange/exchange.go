package exchange

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pdv/internal/money"
)

var (
	ErrInvalidStatus  = errors.New("invalid exchange status")
	ErrReasonRequired = errors.New("exchange reason is required")
	ErrSaleRequired   = errors.New("exchange must reference a sale")
	ErrNegativeValue  = errors.New("returned value must not be negative")
)

// Status moves freely between the three values; no status is terminal.
type Status string

const (
	StatusPending   Status = "Pendente"
	StatusCompleted Status = "Concluída"
	StatusCanceled  Status = "Cancelada"
)

var Statuses = []Status{StatusPending, StatusCompleted, StatusCanceled}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// ParseStatus accepts a status case-insensitively.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Reasons offered by the exchange form.
var Reasons = []string{
	"Defeito de fabricação",
	"Tamanho/Modelo incorreto",
	"Não gostei do produto",
	"Outro motivo",
}

// Exchange records a customer return against a sale. SaleID is not checked
// against existing sales and nothing here touches stock.
type Exchange struct {
	ID              int64       `json:"id"`
	SaleID          int64       `json:"saleId"`
	Reason          string      `json:"reason"`
	Description     string      `json:"description"`
	Status          Status      `json:"status"`
	ReturnedValue   money.Cents `json:"returnedValue"`
	ReceivedProduct string      `json:"receivedProduct"`
	Date            time.Time   `json:"date"`
}

func (e *Exchange) Validate() error {
	if e.SaleID <= 0 {
		return ErrSaleRequired
	}

	if strings.TrimSpace(e.Reason) == "" {
		return ErrReasonRequired
	}

	if !e.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, e.Status)
	}

	if e.ReturnedValue < 0 {
		return ErrNegativeValue
	}

	return nil
}

// Find returns the exchange with id.
func Find(exchanges []Exchange, id int64) (Exchange, bool) {
	i := slices.IndexFunc(exchanges, func(e Exchange) bool { return e.ID == id })
	if i < 0 {
		return Exchange{}, false
	}

	return exchanges[i], true
}
