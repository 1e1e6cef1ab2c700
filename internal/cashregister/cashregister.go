// Package cashregister models the open/close cash session and the daily
// closing report.
package cashregister

import (
	"errors"
	"sort"
	"time"

	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

var (
	ErrNegativeOpening = errors.New("opening amount must not be negative")
	ErrNotOpen         = errors.New("cash register is not open")
)

// DailyProduct is a product movement logged during the session.
type DailyProduct struct {
	ProductID int64     `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Date      time.Time `json:"date"`
}

// Session is the in-memory cash session. Its logs are lost on restart.
type Session struct {
	IsOpen         bool                `json:"isOpen"`
	OpeningAmount  money.Cents         `json:"openingAmount"`
	OpeningDate    *time.Time          `json:"openingDate"`
	ClosingDate    *time.Time          `json:"closingDate"`
	DailySales     []sale.Sale         `json:"dailySales"`
	DailyExchanges []exchange.Exchange `json:"dailyExchanges"`
	DailyProducts  []DailyProduct      `json:"dailyProducts"`
}

// Opened returns a fresh open session. Any previous logs are discarded.
func Opened(amount money.Cents, at time.Time) Session {
	return Session{
		IsOpen:         true,
		OpeningAmount:  amount,
		OpeningDate:    &at,
		DailySales:     []sale.Sale{},
		DailyExchanges: []exchange.Exchange{},
		DailyProducts:  []DailyProduct{},
	}
}

// Closed stamps the closing date and keeps the logs.
func (s Session) Closed(at time.Time) Session {
	s.IsOpen = false
	s.ClosingDate = &at

	return s
}

// ValidateOpening checks an opening amount typed by the operator.
func ValidateOpening(amount money.Cents) error {
	if amount < 0 {
		return ErrNegativeOpening
	}

	return nil
}

type ProductSold struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// DailyReport summarises one day of the register.
type DailyReport struct {
	OpeningAmount       money.Cents         `json:"openingAmount"`
	OpeningDate         *time.Time          `json:"openingDate"`
	ClosingDate         time.Time           `json:"closingDate"`
	Sales               []sale.Sale         `json:"sales"`
	Exchanges           []exchange.Exchange `json:"exchanges"`
	TotalSales          money.Cents         `json:"totalSales"`
	TotalSalesCount     int                 `json:"totalSalesCount"`
	TotalExchangesCount int                 `json:"totalExchangesCount"`
	ProductsSold        []ProductSold       `json:"productsSold"`
	DailyProducts       []DailyProduct      `json:"dailyProducts"`
}

// ExpectedCash is the opening amount plus the day's sales.
func (r *DailyReport) ExpectedCash() money.Cents {
	return r.OpeningAmount + r.TotalSales
}

// Generate builds the report for the calendar day of now in loc. Sales and
// exchanges are taken from the full lists, not the session log, so the report
// also covers records made before the register was opened that day.
func Generate(now time.Time, loc *time.Location, session Session, sales []sale.Sale, exchanges []exchange.Exchange) DailyReport {
	if loc == nil {
		loc = time.Local
	}

	today := now.In(loc).Format(time.DateOnly)
	sameDay := func(t time.Time) bool { return t.In(loc).Format(time.DateOnly) == today }

	report := DailyReport{
		OpeningAmount: session.OpeningAmount,
		OpeningDate:   session.OpeningDate,
		ClosingDate:   now,
		Sales:         []sale.Sale{},
		Exchanges:     []exchange.Exchange{},
		ProductsSold:  []ProductSold{},
		DailyProducts: append([]DailyProduct{}, session.DailyProducts...),
	}

	sold := make(map[string]int)

	for _, s := range sales {
		if !sameDay(s.Date) {
			continue
		}

		report.Sales = append(report.Sales, s)
		report.TotalSales += s.Total

		for _, it := range s.Items {
			sold[it.Name] += it.Quantity
		}
	}

	for _, e := range exchanges {
		if sameDay(e.Date) {
			report.Exchanges = append(report.Exchanges, e)
		}
	}

	for name, qty := range sold {
		report.ProductsSold = append(report.ProductsSold, ProductSold{Name: name, Quantity: qty})
	}

	sort.Slice(report.ProductsSold, func(i, j int) bool {
		return report.ProductsSold[i].Name < report.ProductsSold[j].Name
	})

	report.TotalSalesCount = len(report.Sales)
	report.TotalExchangesCount = len(report.Exchanges)

	return report
}
