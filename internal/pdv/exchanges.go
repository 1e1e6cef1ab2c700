package pdv

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/notification"
	"github.com/MrJamesThe3rd/pdv/internal/record"
)

func (s *Service) Exchanges() []exchange.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]exchange.Exchange{}, s.state.Exchanges...)
}

func (s *Service) Exchange(id int64) (exchange.Exchange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return exchange.Find(s.state.Exchanges, id)
}

// AddExchange records a return against a sale. The sale id is not checked
// and stock is not touched. A new exchange starts pending.
func (s *Service) AddExchange(ctx context.Context, e exchange.Exchange) (exchange.Exchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Status == "" {
		e.Status = exchange.StatusPending
	}

	if e.Date.IsZero() {
		e.Date = s.now()
	}

	if err := e.Validate(); err != nil {
		return exchange.Exchange{}, invalid(MsgAddExchange, err)
	}

	e.ID = 0

	err := s.commit(ctx, MsgAddExchange, func() error {
		id, err := s.addRecord(ctx, record.Exchanges, e)
		e.ID = id

		return err
	})
	if err != nil {
		return exchange.Exchange{}, err
	}

	s.apply(AddNotification{Notification: notification.NewExchange(s.now(), e.ID, e.SaleID, e.Reason)})

	if s.state.CashRegister.IsOpen {
		s.apply(AddDailyExchange{Exchange: e})
	}

	s.log.Info("exchange registered", "id", e.ID, "sale_id", e.SaleID)

	return e, nil
}

// UpdateExchangeStatus moves an exchange to any status. An unknown id does
// nothing.
func (s *Service) UpdateExchangeStatus(ctx context.Context, id int64, status exchange.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Valid() {
		return invalid(MsgUpdateExchange, fmt.Errorf("%w: %q", exchange.ErrInvalidStatus, status))
	}

	rec, err := s.store.Get(ctx, record.Exchanges, formatKey(id))
	if err != nil {
		s.log.Error("failed to get exchange", "id", id, "error", err)
		return storageFailure(MsgUpdateExchange, err)
	}

	if rec == nil {
		return nil
	}

	e, err := record.Decode[exchange.Exchange](*rec)
	if err != nil {
		s.log.Error("failed to decode exchange", "id", id, "error", err)
		return storageFailure(MsgUpdateExchange, err)
	}

	e.ID = id
	e.Status = status

	return s.commit(ctx, MsgUpdateExchange, func() error {
		return s.putRecord(ctx, record.Exchanges, id, e)
	})
}

func (s *Service) DeleteExchange(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, MsgDeleteExchange, func() error {
		return s.deleteRecord(ctx, record.Exchanges, id)
	})
}
