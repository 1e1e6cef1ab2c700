// Package receipt renders sale and exchange receipts for 58mm thermal paper
// and the cash closing report.
package receipt

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

const dateLayout = "02/01/2006 às 15:04:05"

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Line is one printed row. When Value is set the row has two columns, Text
// on the left and Value flush right.
type Line struct {
	Text  string
	Value string
	Bold  bool
	Small bool
	Align Align
}

// Section is a block of lines. Sections are always separated by a dashed
// rule.
type Section struct {
	Lines []Line
}

// Document is a receipt ready to be rendered as text or HTML.
type Document struct {
	Title    string
	Logo     string
	Sections []Section
}

func center(text string) Line {
	return Line{Text: text, Align: AlignCenter}
}

func title(text string) Line {
	return Line{Text: text, Align: AlignCenter, Bold: true}
}

func row(left, right string) Line {
	return Line{Text: left, Value: right}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}

func header(st settings.Settings) Section {
	return Section{Lines: []Line{
		title(st.CompanyNameOrDefault()),
		center(st.AddressOrDefault()),
		center("CNPJ: " + st.CNPJOrDefault()),
	}}
}

func policy(st settings.Settings) Section {
	lines := []Line{
		title("POLÍTICA DE TROCA"),
		{Text: fmt.Sprintf("PRAZO: %d DIAS", st.ExchangeDays()), Align: AlignCenter, Bold: true, Small: true},
	}

	if text := st.ExchangePolicyText(); text != "" {
		lines = append(lines, Line{Text: text, Align: AlignCenter, Small: true})
	}

	return Section{Lines: lines}
}

func closing(st settings.Settings) Section {
	lines := []Line{center(st.Message1()), center(st.Message2())}

	if m := st.Message3(); m != "" {
		lines = append(lines, center(m))
	}

	if f := st.Footer(); f != "" {
		lines = append(lines, Line{Text: f, Align: AlignCenter, Small: true})
	}

	return Section{Lines: lines}
}

func logo(st settings.Settings) string {
	if _, _, ok := st.LogoImage(); ok {
		return st.Logo()
	}

	return ""
}

// ForSale lays out the receipt of a sale. Dates are printed in loc.
func ForSale(s sale.Sale, st settings.Settings, loc *time.Location) Document {
	if loc == nil {
		loc = time.Local
	}

	items := Section{Lines: []Line{title("ITENS")}}
	for _, it := range s.Items {
		items.Lines = append(items.Lines, row(fmt.Sprintf("%dx %s", it.Quantity, truncate(it.Name, 20)), money.Plain(it.Total)))
	}

	totals := Section{Lines: []Line{row("Subtotal:", money.Plain(s.Subtotal))}}
	if s.Discount > 0 {
		totals.Lines = append(totals.Lines, row("Desconto:", "-"+money.Plain(s.Discount)))
	}

	totals.Lines = append(totals.Lines, Line{Text: "TOTAL:", Value: s.Total.String(), Bold: true})

	payment := Section{Lines: []Line{title("PAGAMENTO"), row("Forma:", string(s.PaymentMethod))}}

	if d := s.PaymentDetails; d != nil {
		if s.PaymentMethod == sale.PaymentCredit {
			payment.Lines = append(payment.Lines, Line{Text: "Parcelas:", Value: fmt.Sprintf("%dx", max(d.Installments, 1)), Small: true})
		}

		if d.AmountPaid > 0 {
			payment.Lines = append(payment.Lines, row("Valor pago:", d.AmountPaid.String()), row("Troco:", d.Change.String()))
		}
	}

	return Document{
		Title: fmt.Sprintf("Cupom-Venda-%d", s.ID),
		Logo:  logo(st),
		Sections: []Section{
			header(st),
			{Lines: []Line{
				title("CUPOM FISCAL"),
				center(s.Date.In(loc).Format(dateLayout)),
				{Text: fmt.Sprintf("Venda: #%d", s.ID)},
				{Text: "Cliente: " + truncate(s.ClientName(), 25)},
			}},
			items,
			totals,
			payment,
			policy(st),
			closing(st),
		},
	}
}

// ForExchange lays out the receipt of an exchange. original is the sale the
// exchange refers to, or nil when it no longer exists.
func ForExchange(e exchange.Exchange, original *sale.Sale, st settings.Settings, loc *time.Location) Document {
	if loc == nil {
		loc = time.Local
	}

	ids := Section{Lines: []Line{
		title("RECIBO DE TROCA"),
		center(e.Date.In(loc).Format(dateLayout)),
		{Text: fmt.Sprintf("Troca: #%d", e.ID)},
		{Text: fmt.Sprintf("Venda Orig.: #%d", e.SaleID)},
	}}
	if original != nil && original.Client != nil {
		ids.Lines = append(ids.Lines, Line{Text: "Cliente: " + truncate(original.Client.Name, 25)})
	}

	details := Section{Lines: []Line{title("DETALHES"), {Text: "Motivo: " + e.Reason}}}
	if e.ReceivedProduct != "" {
		details.Lines = append(details.Lines, Line{Text: "Produto Recebido: " + truncate(e.ReceivedProduct, 25)})
	}

	values := Section{}
	if original != nil {
		values.Lines = append(values.Lines, row("Venda Original:", original.Total.String()))
	} else {
		values.Lines = append(values.Lines, row("Venda Original:", "não encontrada"))
	}

	if e.ReturnedValue > 0 {
		values.Lines = append(values.Lines, Line{Text: "VALOR DEVOLVIDO:", Value: e.ReturnedValue.String(), Bold: true})
	}

	messages := Section{Lines: []Line{center("Troca processada com sucesso!"), center("Obrigado pela compreensão.")}}
	if m := strings.TrimSpace(st[settings.ReceiptMessage1]); m != "" {
		messages.Lines = append(messages.Lines, center(m))
	}

	return Document{
		Title: fmt.Sprintf("Recibo-Troca-%d", e.ID),
		Logo:  logo(st),
		Sections: []Section{
			header(st),
			ids,
			details,
			values,
			{Lines: []Line{title("STATUS: " + strings.ToUpper(string(e.Status)))}},
			policy(st),
			messages,
		},
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Write renders d in format f. Anything other than HTML is written as text.
func Write(w io.Writer, d Document, f Format) error {
	if f == FormatHTML {
		return WriteHTML(w, d)
	}

	return WriteText(w, d)
}
