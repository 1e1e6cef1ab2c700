package pdv

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/notification"
	"github.com/MrJamesThe3rd/pdv/internal/product"
	"github.com/MrJamesThe3rd/pdv/internal/record"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

func (s *Service) Cart() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]CartItem{}, s.state.Cart...)
}

func (s *Service) CartTotal() money.Cents {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CartTotal(s.state.Cart)
}

// AddToCart adds qty units of a loaded product. A product already in the
// cart has its quantity increased.
func (s *Service) AddToCart(productID int64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		return invalid(MsgAddToCart, sale.ErrInvalidQuantity)
	}

	p, ok := product.Find(s.state.Products, productID)
	if !ok {
		return notFound(MsgAddToCart, product.ErrNotFound)
	}

	s.apply(AddToCart{Product: p, Quantity: qty})

	return nil
}

// UpdateCartItem sets the quantity of a cart line. Zero or less removes it.
func (s *Service) UpdateCartItem(productID int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.apply(RemoveFromCart{ProductID: productID})
		return
	}

	s.apply(UpdateCartItem{ProductID: productID, Quantity: qty})
}

func (s *Service) RemoveFromCart(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(RemoveFromCart{ProductID: productID})
}

func (s *Service) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(ClearCart{})
}

// Checkout is a sale waiting to be recorded.
type Checkout struct {
	// ClientID is zero for an unidentified customer.
	ClientID int64
	// Items defaults to the current cart when empty.
	Items          []sale.Item
	Discount       money.Cents
	PaymentMethod  sale.PaymentMethod
	PaymentDetails *sale.PaymentDetails
}

// ProcessSale records the sale and takes the sold units out of stock. Stock
// is allowed to go negative. A client id that does not resolve leaves the
// sale without a client. When a stock update fails the sale and any earlier
// decrements stay written.
func (s *Service) ProcessSale(ctx context.Context, c Checkout) (sale.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := c.Items
	if len(items) == 0 {
		items = CartItems(s.state.Cart)
	}

	lines := make([]sale.Item, len(items))
	for i, it := range items {
		lines[i] = sale.NewItem(it.ProductID, it.Name, it.Price, it.Quantity)
	}

	if err := sale.ValidateItems(lines, c.Discount); err != nil {
		return sale.Sale{}, invalid(MsgProcessSale, err)
	}

	subtotal, total := sale.Totals(lines, c.Discount)

	details, err := sale.Settle(c.PaymentMethod, c.PaymentDetails, total)
	if err != nil {
		return sale.Sale{}, invalid(MsgProcessSale, err)
	}

	var ref *client.Ref
	if c.ClientID != 0 {
		if cl, ok := client.Find(s.state.Clients, c.ClientID); ok {
			ref = cl.Snapshot()
		}
	}

	sl := sale.Sale{
		Date:           s.now(),
		Items:          lines,
		Subtotal:       subtotal,
		Discount:       c.Discount,
		Total:          total,
		PaymentMethod:  c.PaymentMethod,
		PaymentDetails: details,
		Client:         ref,
	}

	err = s.commit(ctx, MsgProcessSale, func() error {
		id, err := s.addRecord(ctx, record.Sales, sl)
		if err != nil {
			return err
		}

		sl.ID = id

		for _, it := range sl.Items {
			if err := s.adjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return sale.Sale{}, err
	}

	completed := sl

	s.apply(ClearCart{})
	s.apply(SetLastCompletedSale{Sale: &completed})
	s.apply(AddNotification{Notification: notification.NewSale(s.now(), sl.ID, sl.Total)})

	if s.state.CashRegister.IsOpen {
		s.apply(AddDailySale{Sale: sl})
	}

	s.log.Info("sale processed", "id", sl.ID, "total", sl.Total.String(), "payment", sl.PaymentMethod)

	return sl, nil
}

// adjustStock adds delta to the stored stock of a product. A product that
// no longer exists is skipped.
func (s *Service) adjustStock(ctx context.Context, productID int64, delta int) error {
	rec, err := s.store.Get(ctx, record.Products, formatKey(productID))
	if err != nil {
		return fmt.Errorf("getting product %d: %w", productID, err)
	}

	if rec == nil {
		s.log.Warn("stock adjustment for missing product", "product_id", productID, "delta", delta)
		return nil
	}

	p, err := record.Decode[product.Product](*rec)
	if err != nil {
		return err
	}

	p.ID = productID
	p.Stock += delta

	return s.putRecord(ctx, record.Products, productID, p)
}

func (s *Service) LastCompletedSale() (sale.Sale, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.LastCompletedSale == nil {
		return sale.Sale{}, false
	}

	return *s.state.LastCompletedSale, true
}

// DeleteSale removes a sale and puts its units back in stock. Deleting a
// sale that does not exist does nothing.
func (s *Service) DeleteSale(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Get(ctx, record.Sales, formatKey(id))
	if err != nil {
		s.log.Error("failed to get sale", "id", id, "error", err)
		return storageFailure(MsgDeleteSale, err)
	}

	if rec == nil {
		return nil
	}

	sl, err := record.Decode[sale.Sale](*rec)
	if err != nil {
		s.log.Error("failed to decode sale", "id", id, "error", err)
		return storageFailure(MsgDeleteSale, err)
	}

	err = s.commit(ctx, MsgDeleteSale, func() error {
		for _, it := range sl.Items {
			if err := s.adjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		return s.deleteRecord(ctx, record.Sales, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("sale deleted", "id", id)

	return nil
}

func (s *Service) Sales() []sale.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]sale.Sale{}, s.state.Sales...)
}

func (s *Service) Sale(id int64) (sale.Sale, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return sale.Find(s.state.Sales, id)
}

// FilterSales applies f to the loaded sales, newest first. Days are taken in
// the service location unless f sets one.
func (s *Service) FilterSales(f sale.Filter) []sale.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.Loc == nil {
		f.Loc = s.loc
	}

	return f.Apply(s.state.Sales)
}
