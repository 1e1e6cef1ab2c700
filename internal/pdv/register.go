package pdv

import (
	"github.com/MrJamesThe3rd/pdv/internal/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/product"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

func (s *Service) CashRegister() cashregister.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.CashRegister
}

// OpenCashRegister starts a new session with amount in the drawer. Opening
// while a session is open starts over and drops its logs.
func (s *Service) OpenCashRegister(amount money.Cents) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := cashregister.ValidateOpening(amount); err != nil {
		return invalid(MsgOpenRegister, err)
	}

	s.apply(OpenCashRegister{Amount: amount, Date: s.now()})
	s.log.Info("cash register opened", "amount", amount.String())

	return nil
}

// CloseCashRegister closes the session and returns the day's report as it
// stood at closing.
func (s *Service) CloseCashRegister() (cashregister.DailyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CashRegister.IsOpen {
		return cashregister.DailyReport{}, invalid(MsgCloseRegister, cashregister.ErrNotOpen)
	}

	now := s.now()
	report := cashregister.Generate(now, s.loc, s.state.CashRegister, s.state.Sales, s.state.Exchanges)

	s.apply(CloseCashRegister{Date: now})
	s.log.Info("cash register closed", "sales", report.TotalSalesCount, "total", report.TotalSales.String())

	return report, nil
}

// AddDailyProduct logs a product movement in the open session. It does
// nothing while the register is closed.
func (s *Service) AddDailyProduct(productID int64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CashRegister.IsOpen {
		return nil
	}

	if qty <= 0 {
		return invalid(MsgDailyProduct, sale.ErrInvalidQuantity)
	}

	p, ok := product.Find(s.state.Products, productID)
	if !ok {
		return notFound(MsgDailyProduct, product.ErrNotFound)
	}

	s.apply(AddDailyProduct{Product: cashregister.DailyProduct{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  qty,
		Date:      s.now(),
	}})

	return nil
}

// GenerateDailyReport summarises today's sales and exchanges.
func (s *Service) GenerateDailyReport() cashregister.DailyReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cashregister.Generate(s.now(), s.loc, s.state.CashRegister, s.state.Sales, s.state.Exchanges)
}
