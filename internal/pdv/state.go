package pdv

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pdv/internal/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/notification"
	"github.com/MrJamesThe3rd/pdv/internal/product"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

// CartItem is a product on the checkout with the quantity being sold.
type CartItem struct {
	product.Product
	Quantity int `json:"quantity"`
}

func (c CartItem) Total() money.Cents {
	return c.Price.Mul(c.Quantity)
}

// State is the whole in-memory view of the PDV. Products, clients, sales,
// exchanges and settings mirror the record store; the rest only lives here.
type State struct {
	Products          []product.Product           `json:"products"`
	Clients           []client.Client             `json:"clients"`
	Sales             []sale.Sale                 `json:"sales"`
	Exchanges         []exchange.Exchange         `json:"exchanges"`
	Settings          settings.Settings           `json:"settings"`
	Cart              []CartItem                  `json:"cart"`
	Loading           bool                        `json:"loading"`
	SearchTerm        string                      `json:"searchTerm"`
	LastCompletedSale *sale.Sale                  `json:"lastCompletedSale"`
	Notifications     []notification.Notification `json:"notifications"`
	CashRegister      cashregister.Session        `json:"cashRegister"`
}

// InitialState is the state before anything is loaded.
func InitialState() State {
	return State{
		Products:      []product.Product{},
		Clients:       []client.Client{},
		Sales:         []sale.Sale{},
		Exchanges:     []exchange.Exchange{},
		Settings:      settings.Settings{},
		Cart:          []CartItem{},
		Loading:       true,
		Notifications: []notification.Notification{},
		CashRegister: cashregister.Session{
			DailySales:     []sale.Sale{},
			DailyExchanges: []exchange.Exchange{},
			DailyProducts:  []cashregister.DailyProduct{},
		},
	}
}

// Action is a state transition applied by Reduce.
type Action interface {
	action()
}

type (
	SetProducts  struct{ Products []product.Product }
	SetClients   struct{ Clients []client.Client }
	SetSales     struct{ Sales []sale.Sale }
	SetExchanges struct{ Exchanges []exchange.Exchange }
	SetSettings  struct{ Settings settings.Settings }
	SetCart      struct{ Cart []CartItem }
	SetLoading   struct{ Loading bool }

	SetSearchTerm        struct{ Term string }
	SetLastCompletedSale struct{ Sale *sale.Sale }

	// AddToCart increments the line of an already present product instead
	// of adding a second line.
	AddToCart struct {
		Product  product.Product
		Quantity int
	}
	// UpdateCartItem sets the quantity of the line for ProductID.
	UpdateCartItem struct {
		ProductID int64
		Quantity  int
	}
	RemoveFromCart struct{ ProductID int64 }
	ClearCart      struct{}

	AddNotification      struct{ Notification notification.Notification }
	RemoveNotification   struct{ ID uuid.UUID }
	ClearNotifications   struct{}
	MarkNotificationRead struct{ ID uuid.UUID }

	// OpenCashRegister always starts a new session, discarding the logs of
	// any session still open.
	OpenCashRegister struct {
		Amount money.Cents
		Date   time.Time
	}
	CloseCashRegister struct{ Date time.Time }
	AddDailySale      struct{ Sale sale.Sale }
	AddDailyExchange  struct{ Exchange exchange.Exchange }
	AddDailyProduct   struct{ Product cashregister.DailyProduct }
)

func (SetProducts) action()          {}
func (SetClients) action()           {}
func (SetSales) action()             {}
func (SetExchanges) action()         {}
func (SetSettings) action()          {}
func (SetCart) action()              {}
func (SetLoading) action()           {}
func (SetSearchTerm) action()        {}
func (SetLastCompletedSale) action() {}
func (AddToCart) action()            {}
func (UpdateCartItem) action()       {}
func (RemoveFromCart) action()       {}
func (ClearCart) action()            {}
func (AddNotification) action()      {}
func (RemoveNotification) action()   {}
func (ClearNotifications) action()   {}
func (MarkNotificationRead) action() {}
func (OpenCashRegister) action()     {}
func (CloseCashRegister) action()    {}
func (AddDailySale) action()         {}
func (AddDailyExchange) action()     {}
func (AddDailyProduct) action()      {}

// Reduce returns the state that results from applying a to s. It never
// modifies s or any slice reachable from it.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetProducts:
		s.Products = slices.Clone(a.Products)
	case SetClients:
		s.Clients = slices.Clone(a.Clients)
	case SetSales:
		s.Sales = slices.Clone(a.Sales)
	case SetExchanges:
		s.Exchanges = slices.Clone(a.Exchanges)
	case SetSettings:
		s.Settings = a.Settings.Clone()
	case SetCart:
		s.Cart = slices.Clone(a.Cart)
	case SetLoading:
		s.Loading = a.Loading
	case SetSearchTerm:
		s.SearchTerm = a.Term
	case SetLastCompletedSale:
		s.LastCompletedSale = a.Sale

	case AddToCart:
		s.Cart = addToCart(s.Cart, a.Product, a.Quantity)
	case UpdateCartItem:
		s.Cart = slices.Clone(s.Cart)
		for i := range s.Cart {
			if s.Cart[i].ID == a.ProductID {
				s.Cart[i].Quantity = a.Quantity
			}
		}
	case RemoveFromCart:
		s.Cart = slices.DeleteFunc(slices.Clone(s.Cart), func(c CartItem) bool { return c.ID == a.ProductID })
	case ClearCart:
		s.Cart = []CartItem{}

	case AddNotification:
		s.Notifications = append([]notification.Notification{a.Notification}, s.Notifications...)
	case RemoveNotification:
		s.Notifications = slices.DeleteFunc(slices.Clone(s.Notifications), func(n notification.Notification) bool {
			return n.ID == a.ID
		})
	case ClearNotifications:
		s.Notifications = []notification.Notification{}
	case MarkNotificationRead:
		s.Notifications = slices.Clone(s.Notifications)
		for i := range s.Notifications {
			if s.Notifications[i].ID == a.ID {
				s.Notifications[i].Read = true
			}
		}

	case OpenCashRegister:
		s.CashRegister = cashregister.Opened(a.Amount, a.Date)
	case CloseCashRegister:
		s.CashRegister = s.CashRegister.Closed(a.Date)
	case AddDailySale:
		s.CashRegister.DailySales = append(slices.Clone(s.CashRegister.DailySales), a.Sale)
	case AddDailyExchange:
		s.CashRegister.DailyExchanges = append(slices.Clone(s.CashRegister.DailyExchanges), a.Exchange)
	case AddDailyProduct:
		s.CashRegister.DailyProducts = append(slices.Clone(s.CashRegister.DailyProducts), a.Product)
	}

	return s
}

func addToCart(cart []CartItem, p product.Product, qty int) []CartItem {
	out := slices.Clone(cart)

	for i := range out {
		if out[i].ID == p.ID {
			out[i].Quantity += qty
			return out
		}
	}

	return append(out, CartItem{Product: p, Quantity: qty})
}

// CartTotal sums the cart lines.
func CartTotal(cart []CartItem) money.Cents {
	var total money.Cents
	for _, c := range cart {
		total += c.Total()
	}

	return total
}

// CartItems converts cart lines into sale items.
func CartItems(cart []CartItem) []sale.Item {
	items := make([]sale.Item, len(cart))
	for i, c := range cart {
		items[i] = sale.NewItem(c.ID, c.Name, c.Price, c.Quantity)
	}

	return items
}
