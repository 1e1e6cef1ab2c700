package receipt_test

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/receipt"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

var (
	saleDate = time.Date(2026, 5, 2, 14, 30, 5, 0, time.UTC)

	company = settings.Settings{
		settings.CompanyName:      "Sérgio Imports",
		settings.Address:          "Rua das Importações, 123",
		settings.CNPJ:             "12.345.678/0001-90",
		settings.ExchangeDeadline: "7",
		settings.ExchangePolicy:   "Trocas em até 7 dias com nota fiscal.",
		settings.ReceiptMessage1:  "Obrigado!",
		settings.ReceiptMessage2:  "Volte sempre!",
	}

	testSale = sale.Sale{
		ID:   42,
		Date: saleDate,
		Items: []sale.Item{
			sale.NewItem(1, "Capinha Silicone", 2500, 2),
			sale.NewItem(2, "Fone Bluetooth", 15990, 1),
		},
		Subtotal:       20990,
		Discount:       990,
		Total:          20000,
		PaymentMethod:  sale.PaymentCredit,
		PaymentDetails: &sale.PaymentDetails{Installments: 3},
		Client:         &client.Ref{ID: 7, Name: "Maria Souza"},
	}
)

func render(t *testing.T, d receipt.Document, f receipt.Format) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, receipt.Write(&buf, d, f))

	return buf.String()
}

// assertOrder checks that each marker appears after the previous one.
func assertOrder(t *testing.T, out string, markers ...string) {
	t.Helper()

	pos := 0

	for _, m := range markers {
		i := strings.Index(out[pos:], m)
		if !assert.GreaterOrEqual(t, i, 0, "%q missing or out of order", m) {
			return
		}

		pos += i + len(m)
	}
}

func TestSaleText(t *testing.T) {
	out := render(t, receipt.ForSale(testSale, company, time.UTC), receipt.FormatText)
	sep := strings.Repeat("-", receipt.Columns)

	assertOrder(t, out,
		"Sérgio Imports", "CNPJ: 12.345.678/0001-90", sep,
		"CUPOM FISCAL", "02/05/2026 às 14:30:05", "Venda: #42", "Cliente: Maria Souza", sep,
		"ITENS", "2x Capinha Silicone", "50,00", "1x Fone Bluetooth", "159,90", sep,
		"Subtotal:", "209,90", "Desconto:", "-9,90", "TOTAL:", "R$ 200,00", sep,
		"PAGAMENTO", "Cartão de Crédito", "Parcelas:", "3x", sep,
		"POLÍTICA DE TROCA", "PRAZO: 7 DIAS", "Trocas em até 7 dias", sep,
		"Obrigado!", "Volte sempre!",
	)

	assert.Equal(t, 6, strings.Count(out, sep+"\n"))

	// The title block and the sale id share a section.
	assert.NotContains(t, out, "14:30:05\n"+sep+"\n")

	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), receipt.Columns, line)
	}
}

func TestSaleText_Unidentified(t *testing.T) {
	s := testSale
	s.Client = nil
	s.Discount = 0
	s.PaymentMethod = sale.PaymentCash
	s.PaymentDetails = &sale.PaymentDetails{AmountPaid: 25000, Change: 5000}

	out := render(t, receipt.ForSale(s, settings.Settings{}, time.UTC), receipt.FormatText)

	assert.Contains(t, out, "Cliente: Não identificado")
	assert.NotContains(t, out, "Desconto:")
	assert.NotContains(t, out, "Parcelas:")
	assert.Contains(t, out, "Troco:")
	assert.Contains(t, out, "Sua Empresa")
	assert.Contains(t, out, "CNPJ: 00.000.000/0001-00")
}

func TestSaleHTML(t *testing.T) {
	out := render(t, receipt.ForSale(testSale, company, time.UTC), receipt.FormatHTML)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "@page { size: 58mm 80mm; margin: 0; }")
	assert.Contains(t, out, "border-top: 1px dashed #000")
	assert.Contains(t, out, "<title>Cupom-Venda-42</title>")
	assert.Equal(t, 6, strings.Count(out, `<div class="sep"></div>`))
	assertOrder(t, out, "CUPOM FISCAL", "ITENS", "TOTAL:", "PAGAMENTO", "POLÍTICA DE TROCA", "Volte sempre!")
	assert.NotContains(t, out, `class="logo"`)

	t.Run("EscapesText", func(t *testing.T) {
		s := testSale
		s.Client = &client.Ref{Name: "<script>alert(1)</script>"}

		out := render(t, receipt.ForSale(s, company, time.UTC), receipt.FormatHTML)
		assert.NotContains(t, out, "<script>alert")
	})

	t.Run("Logo", func(t *testing.T) {
		st := settings.Settings{settings.CompanyLogo: "data:image/png;base64,iVBORw0KGgo="}

		out := render(t, receipt.ForSale(testSale, st, time.UTC), receipt.FormatHTML)
		assert.Contains(t, out, `src="data:image/png;base64,iVBORw0KGgo="`)
	})
}

func TestExchangeText(t *testing.T) {
	e := exchange.Exchange{
		ID:              3,
		SaleID:          42,
		Reason:          "Defeito de fabricação",
		Status:          exchange.StatusCompleted,
		ReturnedValue:   2500,
		ReceivedProduct: "Capinha Silicone",
		Date:            saleDate.Add(24 * time.Hour),
	}

	sep := strings.Repeat("-", receipt.Columns)

	out := render(t, receipt.ForExchange(e, &testSale, company, time.UTC), receipt.FormatText)
	assertOrder(t, out,
		"Sérgio Imports", sep,
		"RECIBO DE TROCA", "03/05/2026", "Troca: #3", "Venda Orig.: #42", "Cliente: Maria Souza", sep,
		"DETALHES", "Motivo: Defeito de fabricação", "Produto Recebido: Capinha", sep,
		"Venda Original:", "R$ 200,00", "VALOR DEVOLVIDO:", "R$ 25,00", sep,
		"STATUS: CONCLUÍDA", sep,
		"POLÍTICA DE TROCA", sep,
		"Troca processada com sucesso!",
	)

	assert.Equal(t, 6, strings.Count(out, sep+"\n"))
	assert.NotContains(t, out, "03/05/2026 às 14:30:05\n"+sep+"\n")

	t.Run("MissingSale", func(t *testing.T) {
		out := render(t, receipt.ForExchange(e, nil, company, time.UTC), receipt.FormatText)
		assert.Contains(t, out, "não encontrada")
		assert.NotContains(t, out, "Cliente:")
	})
}

func TestClosingReportPDF(t *testing.T) {
	opened := saleDate.Add(-6 * time.Hour)

	var sales []sale.Sale
	for i := range 80 {
		s := testSale
		s.ID = int64(i + 1)
		sales = append(sales, s)
	}

	session := cashregister.Opened(10000, opened)
	rep := cashregister.Generate(saleDate.Add(3*time.Hour), time.UTC, session, sales, []exchange.Exchange{
		{ID: 1, SaleID: 1, Reason: "Outro motivo", Date: saleDate},
	})

	var buf bytes.Buffer
	require.NoError(t, receipt.ClosingReportPDF(&buf, rep, company, time.UTC))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	assert.Equal(t, "relatorio-caixa-2026-05-02-1730.pdf", receipt.ReportFileName(saleDate.Add(3*time.Hour)))
}
