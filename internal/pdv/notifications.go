package pdv

import (
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pdv/internal/notification"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

// Notifications returns unread notifications first, newest first within
// each group.
func (s *Service) Notifications() []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := slices.Clone(s.state.Notifications)
	slices.SortStableFunc(out, func(a, b notification.Notification) int {
		if a.Read != b.Read {
			if !a.Read {
				return -1
			}

			return 1
		}

		return b.Timestamp.Compare(a.Timestamp)
	})

	return out
}

func (s *Service) UnreadNotifications() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return notification.Unread(s.state.Notifications)
}

func (s *Service) MarkNotificationRead(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(MarkNotificationRead{ID: id})
}

func (s *Service) RemoveNotification(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(RemoveNotification{ID: id})
}

func (s *Service) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(ClearNotifications{})
}

// LowStockProducts lists the products under the low-stock threshold.
func (s *Service) LowStockProducts() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return notification.LowStock(s.state.Products, s.threshold)
}

// ScanLowStock runs a low-stock pass now and returns how many
// notifications it added.
func (s *Service) ScanLowStock() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.scanLowStock()
}

func (s *Service) scheduleScan() {
	if s.state.Loading {
		return
	}

	if s.scan == nil {
		s.scanLowStock()
		return
	}

	s.scan.Trigger()
}

func (s *Service) scanLowStock() int {
	added := notification.ScanLowStock(s.now(), s.state.Products, s.state.Notifications, s.threshold)
	for _, n := range added {
		s.state = Reduce(s.state, AddNotification{Notification: n})
	}

	if len(added) > 0 {
		s.log.Info("low stock detected", "products", len(added))
	}

	return len(added)
}
