package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pdv/internal/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/receipt"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

// SalesFile is the name of the CSV written by Export.
const SalesFile = "vendas.csv"

// Source is the read side of the point of sale the export needs.
type Source interface {
	FilterSales(f sale.Filter) []sale.Sale
	Exchanges() []exchange.Exchange
	Settings() settings.Settings
	Location() *time.Location
	Now() time.Time
}

// Item represents a single exported sale with its receipt file path.
type Item struct {
	Sale     sale.Sale
	FilePath string
}

// Service handles the export of sales, receipts and the closing report.
type Service struct {
	source Source
}

// NewService creates a new export Service.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// Export writes the sales matching filter to outputDir: vendas.csv, one text
// receipt per sale and, when the filter names a day, that day's closing
// report PDF.
func (s *Service) Export(ctx context.Context, filter sale.Filter, outputDir string) ([]Item, error) {
	sales := s.source.FilterSales(filter)
	st := s.source.Settings()
	loc := s.source.Location()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	if err := writeSalesCSV(filepath.Join(outputDir, SalesFile), sales, loc); err != nil {
		return nil, fmt.Errorf("writing sales csv: %w", err)
	}

	items := make([]Item, 0, len(sales))

	for _, sl := range sales {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(outputDir, receiptFileName(sl))

		if err := writeReceipt(path, receipt.ForSale(sl, st, loc)); err != nil {
			return nil, fmt.Errorf("writing receipt for sale %d: %w", sl.ID, err)
		}

		items = append(items, Item{Sale: sl, FilePath: path})
	}

	if !filter.Date.IsZero() {
		if err := s.writeReport(outputDir, filter.Date, sales, st, loc); err != nil {
			return nil, fmt.Errorf("writing closing report: %w", err)
		}
	}

	return items, nil
}

func (s *Service) writeReport(dir string, day time.Time, sales []sale.Sale, st settings.Settings, loc *time.Location) error {
	// The report covers the calendar day of its closing date, so stamp it at
	// the end of the requested day unless that day is today.
	at := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, loc)
	if now := s.source.Now(); now.Before(at) {
		at = now
	}

	rep := cashregister.Generate(at, loc, cashregister.Session{}, sales, s.source.Exchanges())

	f, err := os.Create(filepath.Join(dir, receipt.ReportFileName(at.In(loc))))
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return receipt.ClosingReportPDF(f, rep, st, loc)
}

func writeReceipt(path string, d receipt.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return receipt.WriteText(f, d)
}

func receiptFileName(sl sale.Sale) string {
	return fmt.Sprintf("cupom-venda-%d.txt", sl.ID)
}

func writeSalesCSV(path string, sales []sale.Sale, loc *time.Location) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	_ = w.Write([]string{"Venda", "Data", "Cliente", "Itens", "Subtotal", "Desconto", "Total", "Pagamento"})

	for _, sl := range sales {
		_ = w.Write([]string{
			strconv.FormatInt(sl.ID, 10),
			sl.Date.In(loc).Format("02/01/2006 15:04"),
			sl.ClientName(),
			strconv.Itoa(itemCount(sl)),
			money.Plain(sl.Subtotal),
			money.Plain(sl.Discount),
			money.Plain(sl.Total),
			string(sl.PaymentMethod),
		})
	}

	w.Flush()

	return w.Error()
}

func itemCount(sl sale.Sale) int {
	n := 0
	for _, it := range sl.Items {
		n += it.Quantity
	}

	return n
}

// GenerateSummary creates a plain-text list of the exported sales followed
// by the grand total, ready to paste into a message.
func (s *Service) GenerateSummary(items []Item) string {
	var (
		sb    strings.Builder
		total money.Cents
	)

	loc := s.source.Location()

	for _, item := range items {
		sl := item.Sale
		total += sl.Total

		fileStatus := "Sem Cupom"
		if item.FilePath != "" {
			fileStatus = filepath.Base(item.FilePath)
		}

		sb.WriteString(fmt.Sprintf("* %s | #%d | %s | %s | %s\n",
			sl.Date.In(loc).Format("02/01/2006 15:04"), sl.ID, sl.ClientName(), sl.Total, fileStatus))
	}

	sb.WriteString(fmt.Sprintf("Total: %d venda(s), %s\n", len(items), total))

	return sb.String()
}
