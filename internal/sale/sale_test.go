package sale_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

func TestTotals(t *testing.T) {
	items := []sale.Item{
		sale.NewItem(1, "Galaxy S24", 299999, 2),
		sale.NewItem(2, "Capinha", 4990, 1),
	}

	subtotal, total := sale.Totals(items, 990)

	assert.Equal(t, money.Cents(604988), subtotal)
	assert.Equal(t, money.Cents(603998), total)
}

func TestValidateItems(t *testing.T) {
	one := []sale.Item{sale.NewItem(1, "X", 1000, 1)}

	tests := []struct {
		name     string
		items    []sale.Item
		discount money.Cents
		wantErr  error
	}{
		{name: "Valid", items: one},
		{name: "Empty", items: nil, wantErr: sale.ErrNoItems},
		{name: "ZeroQuantity", items: []sale.Item{sale.NewItem(1, "X", 1000, 0)}, wantErr: sale.ErrInvalidQuantity},
		{name: "DiscountAboveSubtotal", items: one, discount: 1001, wantErr: sale.ErrDiscountTooLarge},
		{name: "NegativeDiscount", items: one, discount: -1, wantErr: sale.ErrDiscountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sale.ValidateItems(tt.items, tt.discount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)
	brt := time.FixedZone("BRT", -3*60*60)

	sales := []sale.Sale{
		{ID: 1, Date: day1, Client: &client.Ref{ID: 1, Name: "Maria Souza"}},
		{ID: 2, Date: day2},
		{ID: 3, Date: day2.Add(time.Hour), Client: &client.Ref{ID: 2, Name: "João Lima"}},
	}

	tests := []struct {
		name    string
		filter  sale.Filter
		wantIDs []int64
	}{
		{name: "NoFilterNewestFirst", filter: sale.Filter{Loc: time.UTC}, wantIDs: []int64{3, 2, 1}},
		{name: "ClientSubstring", filter: sale.Filter{Client: "souza", Loc: time.UTC}, wantIDs: []int64{1}},
		{name: "UnidentifiedMatchesNoClient", filter: sale.Filter{Client: "não ident", Loc: time.UTC}, wantIDs: []int64{2}},
		{name: "ByDate", filter: sale.Filter{Date: day2, Loc: time.UTC}, wantIDs: []int64{3, 2}},
		// 02:00 UTC on the 11th is still the 10th in BRT.
		{name: "DateReadInLocation", filter: sale.Filter{Date: time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC), Loc: brt}, wantIDs: []int64{1}},
		{name: "ClientAndDate", filter: sale.Filter{Client: "maria", Date: day2, Loc: time.UTC}, wantIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(sales)

			ids := make([]int64, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSale_ClientName(t *testing.T) {
	assert.Equal(t, client.Unidentified, (&sale.Sale{}).ClientName())
	assert.Equal(t, "Ana", (&sale.Sale{Client: &client.Ref{Name: "Ana"}}).ClientName())
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name    string
		method  sale.PaymentMethod
		details *sale.PaymentDetails
		want    *sale.PaymentDetails
		wantErr error
	}{
		{name: "CashWithChange", method: sale.PaymentCash, details: &sale.PaymentDetails{AmountPaid: 10000}, want: &sale.PaymentDetails{AmountPaid: 10000, Change: 2500}},
		{name: "CashExact", method: sale.PaymentCash, details: &sale.PaymentDetails{AmountPaid: 7500}, want: &sale.PaymentDetails{AmountPaid: 7500}},
		{name: "CashWithoutAmount", method: sale.PaymentCash},
		{name: "CashShort", method: sale.PaymentCash, details: &sale.PaymentDetails{AmountPaid: 5000}, wantErr: sale.ErrInsufficientCash},
		{name: "CreditDefaultsToOne", method: sale.PaymentCredit, want: &sale.PaymentDetails{Installments: 1}},
		{name: "CreditSplit", method: sale.PaymentCredit, details: &sale.PaymentDetails{Installments: 3}, want: &sale.PaymentDetails{Installments: 3}},
		{name: "CreditTooMany", method: sale.PaymentCredit, details: &sale.PaymentDetails{Installments: 13}, wantErr: sale.ErrInstallments},
		{name: "PixDropsDetails", method: sale.PaymentPix, details: &sale.PaymentDetails{Installments: 2}},
		{name: "UnknownMethod", method: "Cheque", wantErr: sale.ErrInvalidPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sale.Settle(tt.method, tt.details, 7500)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
