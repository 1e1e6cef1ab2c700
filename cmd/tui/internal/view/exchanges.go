package view

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pdv/internal/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/receipt"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

type exchangesState int

const (
	exchangesStateBrowse exchangesState = iota
	exchangesStateNew
	exchangesStateStatus
	exchangesStateReceipt
)

type exchangeForm struct {
	saleID          string
	reason          string
	description     string
	returnedValue   string
	receivedProduct string
	status          exchange.Status
}

func (f exchangeForm) exchange() (exchange.Exchange, error) {
	saleID, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(f.saleID), "#"), 10, 64)
	if err != nil {
		return exchange.Exchange{}, fmt.Errorf("venda: %w", err)
	}

	var value money.Cents
	if strings.TrimSpace(f.returnedValue) != "" {
		if value, err = money.Parse(f.returnedValue); err != nil {
			return exchange.Exchange{}, fmt.Errorf("valor devolvido: %w", err)
		}
	}

	return exchange.Exchange{
		SaleID:          saleID,
		Reason:          f.reason,
		Description:     strings.TrimSpace(f.description),
		ReturnedValue:   value,
		ReceivedProduct: strings.TrimSpace(f.receivedProduct),
	}, nil
}

type ExchangesModel struct {
	CommonModel
	svc *pdv.Service

	state     exchangesState
	table     table.Model
	exchanges []exchange.Exchange
	form      *huh.Form
	fields    *exchangeForm
	receipt   viewport.Model

	status string
}

func NewExchangesModel(svc *pdv.Service) ExchangesModel {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Data", Width: 17},
		{Title: "Venda", Width: 7},
		{Title: "Motivo", Width: 26},
		{Title: "Valor", Width: 12},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	m := ExchangesModel{svc: svc, table: t, receipt: viewport.New(40, 20)}
	m.reload()

	return m
}

func (m ExchangesModel) Title() string { return "Trocas" }

func (m ExchangesModel) ShortHelp() string {
	switch m.state {
	case exchangesStateNew, exchangesStateStatus:
		return "Navegue no formulário | Esc: cancelar"
	case exchangesStateReceipt:
		return "↑/↓: rolar | Esc: voltar"
	}

	return "Esc: voltar | a: nova troca | s: status | Enter: recibo | x: excluir"
}

func (m ExchangesModel) Init() tea.Cmd {
	return nil
}

func (m ExchangesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exchangeSavedMsg:
		m.status = successStyle(msg.status)
		if msg.err != nil {
			m.status = errorStyle(errorText(msg.err))
		}

		m.state = exchangesStateBrowse
		m.form = nil
		m.table.Focus()
		m.reload()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		m.receipt.Height = msg.Height - 6

		return m, nil
	}

	switch m.state {
	case exchangesStateNew, exchangesStateStatus:
		return m.updateForm(msg)
	case exchangesStateReceipt:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = exchangesStateBrowse
			m.table.Focus()

			return m, nil
		}

		var cmd tea.Cmd
		m.receipt, cmd = m.receipt.Update(msg)

		return m, cmd
	}

	return m.updateBrowse(msg)
}

func (m ExchangesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.reload()
			return m, nil
		case "a":
			return m.enterNew()
		case "s":
			if e, ok := m.selected(); ok {
				return m.enterStatus(e)
			}

			return m, nil
		case "x":
			if e, ok := m.selected(); ok {
				return m, m.deleteCmd(e.ID)
			}

			return m, nil
		case "enter":
			if e, ok := m.selected(); ok {
				return m.showReceipt(e)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExchangesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = exchangesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == exchangesStateStatus {
		e, _ := m.selected()
		return m, m.statusCmd(e.ID, m.fields.status)
	}

	return m, m.saveCmd()
}

func (m *ExchangesModel) selected() (exchange.Exchange, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.exchanges) {
		return exchange.Exchange{}, false
	}

	return m.exchanges[idx], true
}

func (m ExchangesModel) enterNew() (tea.Model, tea.Cmd) {
	f := &exchangeForm{reason: exchange.Reasons[0]}
	if last, ok := m.svc.LastCompletedSale(); ok {
		f.saleID = strconv.FormatInt(last.ID, 10)
	}

	m.fields = f

	reasons := make([]huh.Option[string], 0, len(exchange.Reasons))
	for _, r := range exchange.Reasons {
		reasons = append(reasons, huh.NewOption(r, r))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Venda").Placeholder("número da venda").Value(&f.saleID).
				Validate(func(s string) error {
					if _, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64); err != nil {
						return fmt.Errorf("informe o número da venda")
					}

					return nil
				}),
			huh.NewSelect[string]().Title("Motivo").Options(reasons...).Value(&f.reason),
			huh.NewInput().Title("Produto recebido").Value(&f.receivedProduct),
			huh.NewInput().Title("Valor devolvido").Placeholder("0,00").Value(&f.returnedValue),
			huh.NewText().Title("Descrição").Value(&f.description),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = exchangesStateNew
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExchangesModel) enterStatus(e exchange.Exchange) (tea.Model, tea.Cmd) {
	f := &exchangeForm{status: e.Status}
	m.fields = f

	options := make([]huh.Option[exchange.Status], 0, len(exchange.Statuses))
	for _, st := range exchange.Statuses {
		options = append(options, huh.NewOption(string(st), st))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[exchange.Status]().
				Title(fmt.Sprintf("Status da troca #%d", e.ID)).
				Options(options...).
				Value(&f.status),
		),
	).WithShowHelp(false)

	m.state = exchangesStateStatus
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExchangesModel) showReceipt(e exchange.Exchange) (tea.Model, tea.Cmd) {
	var original *sale.Sale
	if s, ok := m.svc.Sale(e.SaleID); ok {
		original = &s
	}

	var buf bytes.Buffer
	if err := receipt.WriteText(&buf, receipt.ForExchange(e, original, m.svc.Settings(), m.svc.Location())); err != nil {
		m.status = errorStyle(err.Error())
		return m, nil
	}

	m.receipt.SetContent(buf.String())
	m.receipt.GotoTop()
	m.state = exchangesStateReceipt
	m.table.Blur()

	return m, nil
}

func (m *ExchangesModel) reload() {
	m.exchanges = m.svc.Exchanges()

	rows := make([]table.Row, 0, len(m.exchanges))
	for _, e := range m.exchanges {
		rows = append(rows, table.Row{
			strconv.FormatInt(e.ID, 10),
			FormatDateTime(e.Date, m.svc.Location()),
			"#" + strconv.FormatInt(e.SaleID, 10),
			e.Reason,
			e.ReturnedValue.String(),
			string(e.Status),
		})
	}

	m.table.SetRows(rows)
}

func (m ExchangesModel) View() string {
	if m.state == exchangesStateReceipt {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Render(m.receipt.View()),
		)
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.form != nil {
		title := "Nova troca"
		if m.state == exchangesStateStatus {
			title = "Alterar status"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type exchangeSavedMsg struct {
	status string
	err    error
}

func (m ExchangesModel) saveCmd() tea.Cmd {
	f := *m.fields

	return func() tea.Msg {
		e, err := f.exchange()
		if err != nil {
			return exchangeSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		e, err = m.svc.AddExchange(ctx, e)
		if err != nil {
			return exchangeSavedMsg{err: err}
		}

		return exchangeSavedMsg{status: fmt.Sprintf("Troca #%d registrada.", e.ID)}
	}
}

func (m ExchangesModel) statusCmd(id int64, status exchange.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.UpdateExchangeStatus(ctx, id, status); err != nil {
			return exchangeSavedMsg{err: err}
		}

		return exchangeSavedMsg{status: fmt.Sprintf("Troca #%d: %s.", id, status)}
	}
}

func (m ExchangesModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.DeleteExchange(ctx, id); err != nil {
			return exchangeSavedMsg{err: err}
		}

		return exchangeSavedMsg{status: fmt.Sprintf("Troca #%d excluída.", id)}
	}
}
