package pdv_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pdv/internal/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/notification"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/product"
	"github.com/MrJamesThe3rd/pdv/internal/record"
	"github.com/MrJamesThe3rd/pdv/internal/record/memory"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

var testNow = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T, store record.Store, opts pdv.Options) *pdv.Service {
	t.Helper()

	opts.Now = func() time.Time { return testNow }
	opts.Location = time.UTC
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := pdv.NewService(store, opts)
	t.Cleanup(svc.Close)

	require.NoError(t, svc.Init(context.Background()))

	return svc
}

func addProduct(t *testing.T, svc *pdv.Service, name string, price money.Cents, stock int) product.Product {
	t.Helper()

	p, err := svc.AddProduct(context.Background(), product.Product{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)

	return p
}

func ofType(ns []notification.Notification, typ notification.Type) []notification.Notification {
	var out []notification.Notification

	for _, n := range ns {
		if n.Type == typ {
			out = append(out, n)
		}
	}

	return out
}

func TestService_Init(t *testing.T) {
	t.Run("SeedsOnce", func(t *testing.T) {
		store := memory.New()

		svc := newService(t, store, pdv.Options{Seed: true})
		assert.Len(t, svc.Products(), 3)
		assert.Len(t, svc.Clients(), pdv.SampleClientCount)
		assert.Equal(t, "Sérgio Imports", svc.Settings()[settings.CompanyName])
		assert.False(t, svc.Loading())

		again := newService(t, store, pdv.Options{Seed: true})
		assert.Len(t, again.Products(), 3, "sample data is not written twice")
	})

	t.Run("NoSeed", func(t *testing.T) {
		svc := newService(t, memory.New(), pdv.Options{})
		assert.Empty(t, svc.Products())
		assert.Empty(t, svc.Settings())
	})
}

// A sale without client takes units out of stock and is
// announced.
func TestService_ProcessSale(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), pdv.Options{})

	p := addProduct(t, svc, "Carregador USB-C", 4990, 5)
	require.NoError(t, svc.AddToCart(p.ID, 3))

	sl, err := svc.ProcessSale(ctx, pdv.Checkout{PaymentMethod: sale.PaymentPix})
	require.NoError(t, err)

	got, ok := svc.Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, 2, got.Stock)

	last, ok := svc.LastCompletedSale()
	require.True(t, ok)

	var sum money.Cents
	for _, it := range last.Items {
		sum += it.Total
	}

	assert.Equal(t, sum, last.Total)
	assert.Equal(t, money.Cents(14970), last.Total)
	assert.Nil(t, last.Client)
	assert.Equal(t, sl.ID, last.ID)

	sales := ofType(svc.Notifications(), notification.TypeSale)
	require.Len(t, sales, 1)
	assert.Equal(t, sl.ID, sales[0].SaleID)
	assert.Empty(t, ofType(svc.Notifications(), notification.TypeLowStock), "2 units is not below the threshold")

	assert.Empty(t, svc.Cart())
	assert.Len(t, svc.Sales(), 1)
}

func TestService_ProcessSale_Client(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), pdv.Options{})

	p := addProduct(t, svc, "Película", 1500, 10)
	c, err := svc.AddClient(ctx, client.Client{Name: "Ana Lima"})
	require.NoError(t, err)

	t.Run("Resolved", func(t *testing.T) {
		sl, err := svc.ProcessSale(ctx, pdv.Checkout{
			ClientID:       c.ID,
			Items:          []sale.Item{{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 2}},
			Discount:       500,
			PaymentMethod:  sale.PaymentCash,
			PaymentDetails: &sale.PaymentDetails{AmountPaid: 5000},
		})
		require.NoError(t, err)

		assert.Equal(t, &client.Ref{ID: c.ID, Name: "Ana Lima"}, sl.Client)
		assert.Equal(t, money.Cents(3000), sl.Subtotal)
		assert.Equal(t, money.Cents(2500), sl.Total)
		assert.Equal(t, money.Cents(2500), sl.PaymentDetails.Change)
	})

	t.Run("UnknownClientIsUnidentified", func(t *testing.T) {
		sl, err := svc.ProcessSale(ctx, pdv.Checkout{
			ClientID:      999,
			Items:         []sale.Item{{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 1}},
			PaymentMethod: sale.PaymentDebit,
		})
		require.NoError(t, err)
		assert.Nil(t, sl.Client)
	})

	t.Run("SnapshotSurvivesClientEdit", func(t *testing.T) {
		c.Name = "Ana Lima Souza"
		require.NoError(t, svc.UpdateClient(ctx, c))

		sales := svc.FilterSales(sale.Filter{Client: "ana"})
		require.Len(t, sales, 1)
		assert.Equal(t, "Ana Lima", sales[0].ClientName())
	})
}

func TestService_ProcessSale_Oversell(t *testing.T) {
	svc := newService(t, memory.New(), pdv.Options{})
	p := addProduct(t, svc, "Cabo HDMI", 3990, 1)

	_, err := svc.ProcessSale(context.Background(), pdv.Checkout{
		Items:         []sale.Item{{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 3}},
		PaymentMethod: sale.PaymentCredit,
	})
	require.NoError(t, err)

	got, _ := svc.Product(p.ID)
	assert.Equal(t, -2, got.Stock)
}

func TestService_ProcessSale_Validation(t *testing.T) {
	svc := newService(t, memory.New(), pdv.Options{})
	p := addProduct(t, svc, "Mouse", 5990, 3)

	tests := []struct {
		name     string
		checkout pdv.Checkout
		wantErr  error
	}{
		{name: "EmptyCart", checkout: pdv.Checkout{PaymentMethod: sale.PaymentPix}, wantErr: sale.ErrNoItems},
		{
			name: "ZeroQuantity",
			checkout: pdv.Checkout{
				Items:         []sale.Item{{ProductID: p.ID, Price: p.Price}},
				PaymentMethod: sale.PaymentPix,
			},
			wantErr: sale.ErrInvalidQuantity,
		},
		{
			name: "DiscountOverSubtotal",
			checkout: pdv.Checkout{
				Items:         []sale.Item{{ProductID: p.ID, Price: p.Price, Quantity: 1}},
				Discount:      6000,
				PaymentMethod: sale.PaymentPix,
			},
			wantErr: sale.ErrDiscountTooLarge,
		},
		{
			name: "UnknownPayment",
			checkout: pdv.Checkout{
				Items:         []sale.Item{{ProductID: p.ID, Price: p.Price, Quantity: 1}},
				PaymentMethod: "Fiado",
			},
			wantErr: sale.ErrInvalidPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ProcessSale(context.Background(), tt.checkout)
			require.ErrorIs(t, err, tt.wantErr)

			n, ok := pdv.NoticeOf(err)
			require.True(t, ok)
			assert.Equal(t, pdv.KindValidation, n.Kind)
			assert.Equal(t, pdv.MsgProcessSale, n.Message)

			assert.Empty(t, svc.Sales())
			got, _ := svc.Product(p.ID)
			assert.Equal(t, 3, got.Stock)
		})
	}
}

func TestService_DeleteSale(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), pdv.Options{})

	a := addProduct(t, svc, "Capinha", 2500, 10)
	b := addProduct(t, svc, "Fone", 15990, 4)

	require.NoError(t, svc.AddToCart(a.ID, 2))
	require.NoError(t, svc.AddToCart(b.ID, 1))

	sl, err := svc.ProcessSale(ctx, pdv.Checkout{PaymentMethod: sale.PaymentPix})
	require.NoError(t, err)

	got, _ := svc.Product(a.ID)
	require.Equal(t, 8, got.Stock)

	t.Run("RestoresStock", func(t *testing.T) {
		require.NoError(t, svc.DeleteSale(ctx, sl.ID))

		got, _ := svc.Product(a.ID)
		assert.Equal(t, 10, got.Stock)
		got, _ = svc.Product(b.ID)
		assert.Equal(t, 4, got.Stock)
		assert.Empty(t, svc.Sales())
	})

	t.Run("MissingIsNoop", func(t *testing.T) {
		before := svc.Snapshot()

		require.NoError(t, svc.DeleteSale(ctx, 999))

		after := svc.Snapshot()
		assert.Equal(t, before.Products, after.Products)
		assert.Equal(t, before.Sales, after.Sales)
	})

	t.Run("DeletedProductIsSkipped", func(t *testing.T) {
		require.NoError(t, svc.AddToCart(a.ID, 1))
		require.NoError(t, svc.AddToCart(b.ID, 1))

		sl, err := svc.ProcessSale(ctx, pdv.Checkout{PaymentMethod: sale.PaymentPix})
		require.NoError(t, err)
		require.NoError(t, svc.DeleteProduct(ctx, b.ID))

		require.NoError(t, svc.DeleteSale(ctx, sl.ID))

		got, _ := svc.Product(a.ID)
		assert.Equal(t, 10, got.Stock)
		_, ok := svc.Product(b.ID)
		assert.False(t, ok)
	})
}

func TestService_LowStockNotifications(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), pdv.Options{})

	p := addProduct(t, svc, "Galaxy S24", 299999, 1)

	low := ofType(svc.Notifications(), notification.TypeLowStock)
	require.Len(t, low, 1)
	assert.Equal(t, p.ID, low[0].ProductID)

	p.Price = 289999
	require.NoError(t, svc.UpdateProduct(ctx, p))
	assert.Len(t, ofType(svc.Notifications(), notification.TypeLowStock), 1, "no duplicate while unread")
	assert.Zero(t, svc.ScanLowStock())

	svc.MarkNotificationRead(low[0].ID)
	assert.Zero(t, svc.UnreadNotifications())

	require.NoError(t, svc.UpdateProduct(ctx, p))

	low = ofType(svc.Notifications(), notification.TypeLowStock)
	require.Len(t, low, 2, "a read alert allows a new one")
	assert.False(t, low[0].Read, "unread first")
	assert.True(t, low[1].Read)

	assert.Equal(t, []product.Product{p}, svc.LowStockProducts())

	svc.RemoveNotification(low[1].ID)
	assert.Len(t, svc.Notifications(), 1)

	svc.ClearNotifications()
	assert.Empty(t, svc.Notifications())
}

func TestService_LowStockDebounced(t *testing.T) {
	svc := newService(t, memory.New(), pdv.Options{Debounce: 20 * time.Millisecond})

	addProduct(t, svc, "Teclado", 12990, 0)
	addProduct(t, svc, "Mouse", 5990, 1)

	assert.Empty(t, svc.Notifications(), "scan waits for the product list to settle")
	assert.Eventually(t, func() bool {
		return len(ofType(svc.Notifications(), notification.TypeLowStock)) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestService_Exchanges(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), pdv.Options{})

	p := addProduct(t, svc, "Capinha", 2500, 10)

	e, err := svc.AddExchange(ctx, exchange.Exchange{SaleID: 1, Reason: "Defeito de fabricação", ReturnedValue: 2500})
	require.NoError(t, err)
	assert.Equal(t, exchange.StatusPending, e.Status)
	assert.Equal(t, testNow, e.Date)

	got, _ := svc.Product(p.ID)
	assert.Equal(t, 10, got.Stock, "exchanges never move stock")

	ex := ofType(svc.Notifications(), notification.TypeExchange)
	require.Len(t, ex, 1)
	assert.Equal(t, e.ID, ex[0].ExchangeID)

	t.Run("AnyStatusToAny", func(t *testing.T) {
		for _, st := range []exchange.Status{exchange.StatusCompleted, exchange.StatusCanceled, exchange.StatusPending, exchange.StatusCanceled} {
			require.NoError(t, svc.UpdateExchangeStatus(ctx, e.ID, st))

			got, ok := svc.Exchange(e.ID)
			require.True(t, ok)
			assert.Equal(t, st, got.Status)
			assert.Equal(t, e.Reason, got.Reason)
		}
	})

	t.Run("MissingIsNoop", func(t *testing.T) {
		require.NoError(t, svc.UpdateExchangeStatus(ctx, 404, exchange.StatusCompleted))
		assert.Len(t, svc.Exchanges(), 1)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		err := svc.UpdateExchangeStatus(ctx, e.ID, "Perdida")
		require.ErrorIs(t, err, exchange.ErrInvalidStatus)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteExchange(ctx, e.ID))
		assert.Empty(t, svc.Exchanges())
	})
}

func TestService_CashRegister(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), pdv.Options{})

	t.Run("CloseWhileClosed", func(t *testing.T) {
		_, err := svc.CloseCashRegister()
		require.ErrorIs(t, err, cashregister.ErrNotOpen)
	})

	t.Run("NegativeOpening", func(t *testing.T) {
		err := svc.OpenCashRegister(-100)
		require.ErrorIs(t, err, cashregister.ErrNegativeOpening)
		assert.False(t, svc.CashRegister().IsOpen)
	})

	// An open register with no sales reports zeros.
	t.Run("EmptyDay", func(t *testing.T) {
		require.NoError(t, svc.OpenCashRegister(10000))

		report := svc.GenerateDailyReport()
		assert.Equal(t, money.Cents(0), report.TotalSales)
		assert.Zero(t, report.TotalSalesCount)
		assert.Zero(t, report.TotalExchangesCount)
		assert.Equal(t, money.Cents(10000), report.OpeningAmount)
	})

	t.Run("LogsWhileOpen", func(t *testing.T) {
		p := addProduct(t, svc, "Capinha", 2500, 10)

		require.NoError(t, svc.AddToCart(p.ID, 2))
		_, err := svc.ProcessSale(ctx, pdv.Checkout{PaymentMethod: sale.PaymentCash})
		require.NoError(t, err)

		_, err = svc.AddExchange(ctx, exchange.Exchange{SaleID: 1, Reason: "Outro motivo"})
		require.NoError(t, err)

		require.NoError(t, svc.AddDailyProduct(p.ID, 4))

		session := svc.CashRegister()
		assert.Len(t, session.DailySales, 1)
		assert.Len(t, session.DailyExchanges, 1)
		require.Len(t, session.DailyProducts, 1)
		assert.Equal(t, "Capinha", session.DailyProducts[0].Name)

		report, err := svc.CloseCashRegister()
		require.NoError(t, err)
		assert.Equal(t, money.Cents(5000), report.TotalSales)
		assert.Equal(t, 1, report.TotalSalesCount)
		assert.Equal(t, 1, report.TotalExchangesCount)
		assert.Equal(t, money.Cents(15000), report.ExpectedCash())

		closed := svc.CashRegister()
		assert.False(t, closed.IsOpen)
		assert.Len(t, closed.DailySales, 1)
	})

	t.Run("ClosedIgnoresDailyProduct", func(t *testing.T) {
		require.NoError(t, svc.AddDailyProduct(1, 1))
		assert.Len(t, svc.CashRegister().DailyProducts, 1)
	})
}

func TestService_CartAndSearch(t *testing.T) {
	svc := newService(t, memory.New(), pdv.Options{Seed: true})

	svc.SetSearchTerm("APPLE")
	found := svc.SearchProducts()
	require.Len(t, found, 1)
	assert.Equal(t, "iPhone 15 Pro", found[0].Name)

	svc.SetSearchTerm("")
	assert.Len(t, svc.SearchProducts(), 3)

	err := svc.AddToCart(999, 1)
	n, ok := pdv.NoticeOf(err)
	require.True(t, ok)
	assert.Equal(t, pdv.KindNotFound, n.Kind)

	require.NoError(t, svc.AddToCart(found[0].ID, 1))
	require.NoError(t, svc.AddToCart(found[0].ID, 1))
	require.Len(t, svc.Cart(), 1)
	assert.Equal(t, found[0].Price.Mul(2), svc.CartTotal())

	svc.UpdateCartItem(found[0].ID, 0)
	assert.Empty(t, svc.Cart())
}

func TestService_ImportProducts(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), pdv.Options{})

	existing, err := svc.AddProduct(ctx, product.Product{Name: "Capinha", Price: 2500, Stock: 3, Barcode: "789100000001"})
	require.NoError(t, err)

	res, err := svc.ImportProducts(ctx, []product.Product{
		{Name: "Capinha Silicone", Price: 2990, Stock: 7, Barcode: "789100000001"},
		{Name: "Película 3D", Price: 1990, Stock: 20, Barcode: "789100000002"},
		{Name: "", Price: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, pdv.ImportResult{Added: 1, Updated: 1, Skipped: 1}, res)

	got, ok := svc.Product(existing.ID)
	require.True(t, ok)
	assert.Equal(t, "Capinha Silicone", got.Name)
	assert.Equal(t, money.Cents(2990), got.Price)
	assert.Equal(t, 10, got.Stock)
	assert.Len(t, svc.Products(), 2)
}

func TestService_UpdateSettings(t *testing.T) {
	svc := newService(t, memory.New(), pdv.Options{})

	err := svc.UpdateSettings(context.Background(), map[string]string{
		settings.CompanyName:      "Loja do Centro",
		settings.ExchangeDeadline: "30",
	})
	require.NoError(t, err)

	s := svc.Settings()
	assert.Equal(t, "Loja do Centro", s.CompanyNameOrDefault())
	assert.Equal(t, 30, s.ExchangeDays())
}

func TestService_StorageFailures(t *testing.T) {
	ctx := context.Background()
	errDisk := errors.New("disk full")

	capinhaRec := record.Record{Key: "1", Data: []byte(`{"name":"Capinha","price":2500,"stock":10}`)}

	setup := func(t *testing.T) (*pdv.Service, *record.MockStore) {
		ctrl := gomock.NewController(t)
		store := record.NewMockStore(ctrl)

		store.EXPECT().Init(gomock.Any()).Return(nil)
		store.EXPECT().GetAll(gomock.Any(), record.Products).Return([]record.Record{capinhaRec}, nil)
		store.EXPECT().GetAll(gomock.Any(), gomock.Not(record.Products)).Return(nil, nil).Times(4)

		return newService(t, store, pdv.Options{}), store
	}

	t.Run("AddProduct", func(t *testing.T) {
		svc, store := setup(t)
		store.EXPECT().Add(gomock.Any(), record.Products, gomock.Any()).Return("", errDisk)

		_, err := svc.AddProduct(ctx, product.Product{Name: "Fone", Price: 15990})
		require.ErrorIs(t, err, errDisk)

		n, ok := pdv.NoticeOf(err)
		require.True(t, ok)
		assert.Equal(t, pdv.MsgAddProduct, n.Message)
		assert.Equal(t, pdv.KindStorage, n.Kind)
		assert.Len(t, svc.Products(), 1)
	})

	t.Run("ValidationSkipsStore", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.AddProduct(ctx, product.Product{Name: " "})
		require.ErrorIs(t, err, product.ErrNameRequired)
	})

	t.Run("ProcessSaleStockUpdate", func(t *testing.T) {
		svc, store := setup(t)
		require.NoError(t, svc.AddToCart(1, 2))

		store.EXPECT().Add(gomock.Any(), record.Sales, gomock.Any()).Return("1", nil)
		store.EXPECT().Get(gomock.Any(), record.Products, "1").Return(&capinhaRec, nil)
		store.EXPECT().Put(gomock.Any(), record.Products, "1", gomock.Any()).Return(errDisk)

		_, err := svc.ProcessSale(ctx, pdv.Checkout{PaymentMethod: sale.PaymentPix})
		require.ErrorIs(t, err, errDisk)

		n, _ := pdv.NoticeOf(err)
		assert.Equal(t, pdv.MsgProcessSale, n.Message)

		assert.Len(t, svc.Cart(), 1, "cart is kept for a retry")
		_, ok := svc.LastCompletedSale()
		assert.False(t, ok)
		assert.Empty(t, ofType(svc.Notifications(), notification.TypeSale))
	})

	t.Run("DeleteSaleLookup", func(t *testing.T) {
		svc, store := setup(t)
		store.EXPECT().Get(gomock.Any(), record.Sales, "3").Return(nil, errDisk)

		err := svc.DeleteSale(ctx, 3)
		require.ErrorIs(t, err, errDisk)

		n, _ := pdv.NoticeOf(err)
		assert.Equal(t, pdv.MsgDeleteSale, n.Message)
	})

	t.Run("ReloadFailure", func(t *testing.T) {
		svc, store := setup(t)
		store.EXPECT().Delete(gomock.Any(), record.Exchanges, "1").Return(nil)
		store.EXPECT().GetAll(gomock.Any(), gomock.Any()).Return(nil, errDisk).MinTimes(1).MaxTimes(5)

		err := svc.DeleteExchange(ctx, 1)
		require.ErrorIs(t, err, errDisk)

		n, _ := pdv.NoticeOf(err)
		assert.Equal(t, pdv.MsgDeleteExchange, n.Message)
		assert.Len(t, svc.Products(), 1, "state is only replaced after a full reload")
	})
}
