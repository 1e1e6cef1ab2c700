package notification_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/notification"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

var now = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func TestScanLowStock(t *testing.T) {
	products := []product.Product{
		{ID: 1, Name: "Galaxy S24", Stock: 1},
		{ID: 2, Name: "iPhone 15 Pro", Stock: 2},
		{ID: 3, Name: "Notebook Dell", Stock: -1},
	}

	t.Run("FlagsBelowThreshold", func(t *testing.T) {
		got := notification.ScanLowStock(now, products, nil, notification.DefaultLowStockThreshold)

		require.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].ProductID)
		assert.Equal(t, int64(3), got[1].ProductID)
		assert.Equal(t, notification.TypeLowStock, got[0].Type)
		assert.Equal(t, notification.PriorityHigh, got[0].Priority)
		assert.Equal(t, "Estoque Baixo", got[0].Title)
		assert.Equal(t, `O produto "Galaxy S24" está com estoque baixo (1 unidades restantes)`, got[0].Message)
		assert.False(t, got[0].Read)
	})

	t.Run("SkipsProductWithUnreadAlert", func(t *testing.T) {
		existing := notification.ScanLowStock(now, products[:1], nil, 2)

		got := notification.ScanLowStock(now, products[:1], existing, 2)
		assert.Empty(t, got)
	})

	t.Run("AllowsNewAlertOnceRead", func(t *testing.T) {
		existing := notification.ScanLowStock(now, products[:1], nil, 2)
		existing[0].Read = true

		got := notification.ScanLowStock(now, products[:1], existing, 2)
		require.Len(t, got, 1)
		assert.NotEqual(t, existing[0].ID, got[0].ID)
	})

	t.Run("OtherTypesDoNotSuppress", func(t *testing.T) {
		existing := []notification.Notification{notification.NewSale(now, 1, 1000)}
		existing[0].ProductID = 1

		got := notification.ScanLowStock(now, products[:1], existing, 2)
		assert.Len(t, got, 1)
	})
}

func TestEventNotifications(t *testing.T) {
	sale := notification.NewSale(now, 7, 299999)
	assert.Equal(t, "Nova Venda Realizada", sale.Title)
	assert.Equal(t, "Venda concluída no valor de R$ 2.999,99", sale.Message)
	assert.Equal(t, int64(7), sale.SaleID)
	assert.Equal(t, notification.PriorityMedium, sale.Priority)

	ex := notification.NewExchange(now, 2, 7, "Outro motivo")
	assert.Equal(t, "Troca registrada para a venda #7 - Motivo: Outro motivo", ex.Message)
	assert.Equal(t, int64(2), ex.ExchangeID)

	assert.Equal(t, 2, notification.Unread([]notification.Notification{sale, ex}))
}

func TestDebouncer_Coalesces(t *testing.T) {
	var calls atomic.Int32

	d := notification.NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })

	for range 5 {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	var calls atomic.Int32

	d := notification.NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })
	d.Trigger()
	d.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
