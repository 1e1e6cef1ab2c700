package pdv_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/notification"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/product"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

var (
	capinha = product.Product{ID: 1, Name: "Capinha", Price: 2500, Stock: 10}
	fone    = product.Product{ID: 2, Name: "Fone Bluetooth", Price: 15990, Stock: 4}
)

func TestReduce_Cart(t *testing.T) {
	s := pdv.InitialState()

	s = pdv.Reduce(s, pdv.AddToCart{Product: capinha, Quantity: 1})
	s = pdv.Reduce(s, pdv.AddToCart{Product: fone, Quantity: 1})
	s = pdv.Reduce(s, pdv.AddToCart{Product: capinha, Quantity: 2})

	require.Len(t, s.Cart, 2, "same product never gets a second line")
	assert.Equal(t, 3, s.Cart[0].Quantity)
	assert.Equal(t, money.Cents(7500+15990), pdv.CartTotal(s.Cart))

	s = pdv.Reduce(s, pdv.UpdateCartItem{ProductID: fone.ID, Quantity: 5})
	assert.Equal(t, 5, s.Cart[1].Quantity)

	s = pdv.Reduce(s, pdv.RemoveFromCart{ProductID: capinha.ID})
	require.Len(t, s.Cart, 1)
	assert.Equal(t, fone.ID, s.Cart[0].ID)

	items := pdv.CartItems(s.Cart)
	assert.Equal(t, []sale.Item{sale.NewItem(fone.ID, fone.Name, fone.Price, 5)}, items)

	s = pdv.Reduce(s, pdv.ClearCart{})
	assert.Empty(t, s.Cart)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := pdv.Reduce(pdv.InitialState(), pdv.AddToCart{Product: capinha, Quantity: 1})

	after := pdv.Reduce(before, pdv.AddToCart{Product: capinha, Quantity: 4})
	_ = pdv.Reduce(after, pdv.UpdateCartItem{ProductID: capinha.ID, Quantity: 9})
	_ = pdv.Reduce(after, pdv.RemoveFromCart{ProductID: capinha.ID})

	assert.Equal(t, 1, before.Cart[0].Quantity)
	assert.Equal(t, 5, after.Cart[0].Quantity)

	products := []product.Product{capinha}
	s := pdv.Reduce(before, pdv.SetProducts{Products: products})
	products[0].Stock = 0
	assert.Equal(t, 10, s.Products[0].Stock)
}

func TestReduce_UnknownActionKeepsState(t *testing.T) {
	s := pdv.Reduce(pdv.InitialState(), pdv.SetSearchTerm{Term: "galaxy"})

	assert.Equal(t, s, pdv.Reduce(s, nil))
}

func TestReduce_Notifications(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	first := notification.NewSale(now, 1, 1000)
	second := notification.NewExchange(now.Add(time.Minute), 1, 1, "Defeito de fabricação")

	s := pdv.InitialState()
	s = pdv.Reduce(s, pdv.AddNotification{Notification: first})
	s = pdv.Reduce(s, pdv.AddNotification{Notification: second})

	require.Len(t, s.Notifications, 2)
	assert.Equal(t, second.ID, s.Notifications[0].ID, "new notifications are prepended")

	read := pdv.Reduce(s, pdv.MarkNotificationRead{ID: first.ID})
	assert.True(t, read.Notifications[1].Read)
	assert.False(t, s.Notifications[1].Read)

	removed := pdv.Reduce(s, pdv.RemoveNotification{ID: second.ID})
	require.Len(t, removed.Notifications, 1)
	assert.Equal(t, first.ID, removed.Notifications[0].ID)

	assert.Empty(t, pdv.Reduce(s, pdv.ClearNotifications{}).Notifications)
}

func TestReduce_CashRegister(t *testing.T) {
	opened := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

	s := pdv.Reduce(pdv.InitialState(), pdv.OpenCashRegister{Amount: 10000, Date: opened})
	s = pdv.Reduce(s, pdv.AddDailySale{Sale: sale.Sale{ID: 1, Total: 2500}})
	s = pdv.Reduce(s, pdv.AddDailyExchange{Exchange: exchange.Exchange{ID: 1, SaleID: 1}})

	require.True(t, s.CashRegister.IsOpen)
	assert.Len(t, s.CashRegister.DailySales, 1)
	assert.Len(t, s.CashRegister.DailyExchanges, 1)

	t.Run("ReopenResetsLogs", func(t *testing.T) {
		again := pdv.Reduce(s, pdv.OpenCashRegister{Amount: 5000, Date: opened.Add(time.Hour)})

		assert.True(t, again.CashRegister.IsOpen)
		assert.Equal(t, money.Cents(5000), again.CashRegister.OpeningAmount)
		assert.Empty(t, again.CashRegister.DailySales)
		assert.Empty(t, again.CashRegister.DailyExchanges)
		assert.Len(t, s.CashRegister.DailySales, 1)
	})

	t.Run("CloseKeepsLogs", func(t *testing.T) {
		closedAt := opened.Add(10 * time.Hour)
		closed := pdv.Reduce(s, pdv.CloseCashRegister{Date: closedAt})

		assert.False(t, closed.CashRegister.IsOpen)
		require.NotNil(t, closed.CashRegister.ClosingDate)
		assert.Equal(t, closedAt, *closed.CashRegister.ClosingDate)
		assert.Len(t, closed.CashRegister.DailySales, 1)
	})
}
