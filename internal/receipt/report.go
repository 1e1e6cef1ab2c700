package receipt

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/MrJamesThe3rd/pdv/internal/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

const (
	reportLeft      = 20.0
	reportTop       = 20.0
	reportPageLimit = 250.0
	// A section heading starting past this point moves to a new page.
	reportSectionLimit = 200.0
)

// ReportFileName is the download name of a closing report generated at t.
func ReportFileName(t time.Time) string {
	return "relatorio-caixa-" + t.Format("2006-01-02-1504") + ".pdf"
}

type reportWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (r *reportWriter) text(size float64, bold bool, s string, advance float64) {
	style := ""
	if bold {
		style = "B"
	}

	r.pdf.SetFont("Helvetica", style, size)
	r.pdf.Text(reportLeft, r.y, r.tr(s))
	r.y += advance
}

func (r *reportWriter) centered(size float64, s string, advance float64) {
	r.pdf.SetFont("Helvetica", "B", size)

	pageWidth, _ := r.pdf.GetPageSize()
	txt := r.tr(s)
	r.pdf.Text(pageWidth/2-r.pdf.GetStringWidth(txt)/2, r.y, txt)
	r.y += advance
}

func (r *reportWriter) breakAfter(limit float64) {
	if r.y > limit {
		r.pdf.AddPage()
		r.y = reportTop
	}
}

// ClosingReportPDF writes the A4 cash closing report.
func ClosingReportPDF(w io.Writer, rep cashregister.DailyReport, st settings.Settings, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	const stamp = "02/01/2006 às 15:04"

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Relatório de Fechamento de Caixa", true)
	pdf.AddPage()

	r := &reportWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), y: reportTop}

	r.centered(18, "RELATÓRIO DE FECHAMENTO DE CAIXA", 10)
	r.centered(12, st.CompanyNameOrDefault(), 20)

	opening := "-"
	if rep.OpeningDate != nil {
		opening = rep.OpeningDate.In(loc).Format(stamp)
	}

	r.text(10, false, "Abertura: "+opening, 6)
	r.text(10, false, "Fechamento: "+rep.ClosingDate.In(loc).Format(stamp), 6)
	r.text(10, false, "Valor de Abertura: "+rep.OpeningAmount.String(), 15)

	r.text(12, true, "RESUMO FINANCEIRO", 10)
	r.text(10, false, fmt.Sprintf("Total de Vendas: %d", rep.TotalSalesCount), 6)
	r.text(10, false, "Valor Total Vendido: "+rep.TotalSales.String(), 6)
	r.text(10, false, fmt.Sprintf("Total de Trocas: %d", rep.TotalExchangesCount), 6)
	r.text(10, true, "Valor Final Esperado: "+rep.ExpectedCash().String(), 15)

	if len(rep.Sales) > 0 {
		r.text(12, true, "VENDAS DO DIA", 10)

		for i, s := range rep.Sales {
			r.breakAfter(reportPageLimit)
			r.text(8, false, fmt.Sprintf("%d. %s - %s (%s)", i+1, s.Date.In(loc).Format("15:04"), s.Total, s.PaymentMethod), 5)
		}

		r.y += 10
	}

	if len(rep.ProductsSold) > 0 {
		r.breakAfter(reportSectionLimit)
		r.text(12, true, "PRODUTOS VENDIDOS", 10)

		for _, p := range rep.ProductsSold {
			r.breakAfter(reportPageLimit)
			r.text(9, false, fmt.Sprintf("%s: %d unidade(s)", p.Name, p.Quantity), 6)
		}

		r.y += 10
	}

	if len(rep.Exchanges) > 0 {
		r.breakAfter(reportSectionLimit)
		r.text(12, true, "TROCAS DO DIA", 10)

		for i, e := range rep.Exchanges {
			r.breakAfter(reportPageLimit)
			r.text(9, false, fmt.Sprintf("%d. %s - Venda #%d - %s", i+1, e.Date.In(loc).Format("15:04"), e.SaleID, e.Reason), 6)
		}

		r.y += 10
	}

	if len(rep.DailyProducts) > 0 {
		r.breakAfter(reportSectionLimit)
		r.text(12, true, "MOVIMENTAÇÕES DE PRODUTOS", 10)

		for _, p := range rep.DailyProducts {
			r.breakAfter(reportPageLimit)
			r.text(9, false, fmt.Sprintf("%s - %s: %d unidade(s)", p.Date.In(loc).Format("15:04"), p.Name, p.Quantity), 6)
		}
	}

	return pdf.Output(w)
}
