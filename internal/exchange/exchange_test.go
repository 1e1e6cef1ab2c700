package exchange_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/exchange"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    exchange.Status
		wantErr bool
	}{
		{in: "Pendente", want: exchange.StatusPending},
		{in: "concluída", want: exchange.StatusCompleted},
		{in: " CANCELADA ", want: exchange.StatusCanceled},
		{in: "Aprovada", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := exchange.ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, exchange.ErrInvalidStatus)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExchange_Validate(t *testing.T) {
	valid := exchange.Exchange{SaleID: 3, Reason: exchange.Reasons[0], Status: exchange.StatusPending}

	tests := []struct {
		name    string
		mutate  func(e *exchange.Exchange)
		wantErr error
	}{
		{name: "Valid", mutate: func(*exchange.Exchange) {}},
		{name: "NoSale", mutate: func(e *exchange.Exchange) { e.SaleID = 0 }, wantErr: exchange.ErrSaleRequired},
		{name: "NoReason", mutate: func(e *exchange.Exchange) { e.Reason = "" }, wantErr: exchange.ErrReasonRequired},
		{name: "BadStatus", mutate: func(e *exchange.Exchange) { e.Status = "Aberta" }, wantErr: exchange.ErrInvalidStatus},
		{name: "NegativeValue", mutate: func(e *exchange.Exchange) { e.ReturnedValue = -1 }, wantErr: exchange.ErrNegativeValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)

			err := e.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}
