package cashregister_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

var (
	opening = time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	now     = time.Date(2026, 5, 2, 18, 30, 0, 0, time.UTC)
)

func TestGenerate_EmptyDay(t *testing.T) {
	session := cashregister.Opened(10000, opening)

	report := cashregister.Generate(now, time.UTC, session, nil, nil)

	assert.Equal(t, money.Cents(10000), report.OpeningAmount)
	assert.Equal(t, money.Cents(0), report.TotalSales)
	assert.Zero(t, report.TotalSalesCount)
	assert.Zero(t, report.TotalExchangesCount)
	assert.Equal(t, now, report.ClosingDate)
	require.NotNil(t, report.OpeningDate)
	assert.Equal(t, opening, *report.OpeningDate)
	assert.Equal(t, money.Cents(10000), report.ExpectedCash())
}

func TestGenerate_OnlyToday(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)

	sales := []sale.Sale{
		{ID: 1, Date: now.Add(-time.Hour), Total: 5000, Items: []sale.Item{
			sale.NewItem(1, "Capinha", 2500, 2),
		}},
		{ID: 2, Date: now.Add(-2 * time.Hour), Total: 299999, Items: []sale.Item{
			sale.NewItem(2, "Galaxy S24", 299999, 1),
			sale.NewItem(1, "Capinha", 0, 1),
		}},
		{ID: 3, Date: yesterday, Total: 100000, Items: []sale.Item{
			sale.NewItem(3, "Notebook", 100000, 1),
		}},
	}

	exchanges := []exchange.Exchange{
		{ID: 1, SaleID: 1, Date: now.Add(-30 * time.Minute)},
		{ID: 2, SaleID: 3, Date: yesterday},
	}

	report := cashregister.Generate(now, time.UTC, cashregister.Opened(20000, opening), sales, exchanges)

	assert.Equal(t, money.Cents(304999), report.TotalSales)
	assert.Equal(t, 2, report.TotalSalesCount)
	assert.Equal(t, 1, report.TotalExchangesCount)
	assert.Equal(t, []cashregister.ProductSold{
		{Name: "Capinha", Quantity: 3},
		{Name: "Galaxy S24", Quantity: 1},
	}, report.ProductsSold)
	assert.Equal(t, money.Cents(324999), report.ExpectedCash())
}

func TestSession_OpenClose(t *testing.T) {
	s := cashregister.Opened(5000, opening)
	s.DailySales = append(s.DailySales, sale.Sale{ID: 1})

	closed := s.Closed(now)
	assert.False(t, closed.IsOpen)
	require.NotNil(t, closed.ClosingDate)
	assert.Len(t, closed.DailySales, 1, "closing keeps the logs")

	reopened := cashregister.Opened(0, now)
	assert.True(t, reopened.IsOpen)
	assert.Empty(t, reopened.DailySales)
	assert.Nil(t, reopened.ClosingDate)
}

func TestValidateOpening(t *testing.T) {
	assert.NoError(t, cashregister.ValidateOpening(0))
	assert.ErrorIs(t, cashregister.ValidateOpening(-1), cashregister.ErrNegativeOpening)
}
