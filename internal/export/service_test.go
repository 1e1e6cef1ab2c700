package export_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/export"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

var now = time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)

// fakeSource serves a fixed list of sales.
type fakeSource struct {
	sales []sale.Sale
}

func (f *fakeSource) FilterSales(flt sale.Filter) []sale.Sale {
	flt.Loc = time.UTC
	return flt.Apply(f.sales)
}

func (f *fakeSource) Exchanges() []exchange.Exchange { return nil }
func (f *fakeSource) Settings() settings.Settings    { return settings.Defaults() }
func (f *fakeSource) Location() *time.Location       { return time.UTC }
func (f *fakeSource) Now() time.Time                 { return now }

func newSource() *fakeSource {
	return &fakeSource{sales: []sale.Sale{
		{
			ID:            1,
			Date:          time.Date(2026, 5, 1, 9, 15, 0, 0, time.UTC),
			Items:         []sale.Item{sale.NewItem(1, "Cabo USB-C", 2990, 2)},
			Subtotal:      5980,
			Total:         5980,
			PaymentMethod: sale.PaymentPix,
		},
		{
			ID:            2,
			Date:          time.Date(2026, 5, 2, 11, 40, 0, 0, time.UTC),
			Items:         []sale.Item{sale.NewItem(2, "Fone Bluetooth", 15990, 1)},
			Subtotal:      15990,
			Discount:      990,
			Total:         15000,
			PaymentMethod: sale.PaymentCash,
			Client:        &client.Ref{ID: 3, Name: "Ana Lima"},
		},
	}}
}

func TestExportService_Export(t *testing.T) {
	tmpDir := t.TempDir()

	svc := export.NewService(newSource())

	items, err := svc.Export(context.Background(), sale.Filter{}, tmpDir)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Newest first.
	assert.Equal(t, int64(2), items[0].Sale.ID)
	assert.Equal(t, filepath.Join(tmpDir, "cupom-venda-2.txt"), items[0].FilePath)

	content, err := os.ReadFile(items[0].FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "CUPOM FISCAL")
	assert.Contains(t, string(content), "Cliente: Ana Lima")

	f, err := os.Open(filepath.Join(tmpDir, export.SalesFile))
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Venda", "Data", "Cliente", "Itens", "Subtotal", "Desconto", "Total", "Pagamento"}, rows[0])
	assert.Equal(t, []string{"2", "02/05/2026 11:40", "Ana Lima", "1", "159,90", "9,90", "150,00", "Dinheiro"}, rows[1])
	assert.Equal(t, []string{"1", "01/05/2026 09:15", "Não identificado", "2", "59,80", "0,00", "59,80", "Pix"}, rows[2])

	matches, err := filepath.Glob(filepath.Join(tmpDir, "*.pdf"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestExportService_ExportDay(t *testing.T) {
	tmpDir := t.TempDir()

	svc := export.NewService(newSource())

	items, err := svc.Export(context.Background(), sale.Filter{Date: now}, tmpDir)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Sale.ID)

	report := filepath.Join(tmpDir, "relatorio-caixa-2026-05-02-1800.pdf")
	content, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF-"))

	t.Run("PastDay", func(t *testing.T) {
		dir := t.TempDir()

		_, err := svc.Export(context.Background(), sale.Filter{Date: now.AddDate(0, 0, -1)}, dir)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "relatorio-caixa-2026-05-01-2359.pdf"))
	})
}

func TestExportService_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := export.NewService(newSource())

	_, err := svc.Export(ctx, sale.Filter{}, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportService_GenerateSummary(t *testing.T) {
	svc := export.NewService(newSource())

	items := []export.Item{
		{Sale: newSource().sales[1], FilePath: "/tmp/x/cupom-venda-2.txt"},
		{Sale: newSource().sales[0]},
	}

	want := "* 02/05/2026 11:40 | #2 | Ana Lima | R$ 150,00 | cupom-venda-2.txt\n" +
		"* 01/05/2026 09:15 | #1 | Não identificado | R$ 59,80 | Sem Cupom\n" +
		"Total: 2 venda(s), R$ 209,80\n"

	assert.Equal(t, want, svc.GenerateSummary(items))
}
