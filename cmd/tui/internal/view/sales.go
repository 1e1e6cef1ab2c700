package view

import (
	"bytes"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/receipt"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

type salesState int

const (
	salesStateDay salesState = iota
	salesStateList
	salesStateReceipt
	salesStateDelete
)

// saleItem wraps a sale to implement list.Item.
type saleItem struct {
	sale sale.Sale
	loc  *time.Location
}

func (i saleItem) Title() string {
	method := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.sale.PaymentMethod))

	return fmt.Sprintf("#%d  %s  %s  %s", i.sale.ID, FormatDateTime(i.sale.Date, i.loc), i.sale.Total.String(), method)
}

func (i saleItem) Description() string {
	return fmt.Sprintf("%s | %d item(ns)", i.sale.ClientName(), len(i.sale.Items))
}

func (i saleItem) FilterValue() string {
	return i.sale.ClientName()
}

type SalesModel struct {
	CommonModel
	svc *pdv.Service

	state     salesState
	dayPicker DayPicker
	list      list.Model
	receipt   viewport.Model
	form      *huh.Form
	confirm   *bool

	day    time.Time
	status string
}

func NewSalesModel(svc *pdv.Service) SalesModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Vendas"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return SalesModel{
		svc:       svc,
		dayPicker: NewDayPicker(svc.Location(), svc.Now),
		list:      l,
		receipt:   viewport.New(40, 20),
	}
}

func (m SalesModel) Title() string { return "Vendas" }

func (m SalesModel) ShortHelp() string {
	switch m.state {
	case salesStateDay:
		return "Esc: voltar | Enter: selecionar"
	case salesStateList:
		return "Esc: trocar dia | Enter: cupom | x: excluir | /: filtrar por cliente"
	case salesStateReceipt:
		return "↑/↓: rolar | Esc: voltar à lista"
	case salesStateDelete:
		return "Esc: cancelar"
	}

	return ""
}

func (m SalesModel) Init() tea.Cmd {
	return nil
}

func (m SalesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DaySelectedMsg:
		m.day = msg.Date
		m.state = salesStateList
		m.reload()

		return m, nil

	case saleDeletedMsg:
		m.form = nil
		m.state = salesStateList
		m.status = successStyle(fmt.Sprintf("Venda #%d excluída. Estoque devolvido.", msg.id))

		if msg.err != nil {
			m.status = errorStyle(errorText(msg.err))
		}

		m.reload()

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		m.receipt.Height = msg.Height - 6

		return m, nil
	}

	switch m.state {
	case salesStateDay:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.dayPicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.dayPicker, cmd = m.dayPicker.Update(msg)

		return m, cmd

	case salesStateList:
		return m.updateList(msg)

	case salesStateReceipt:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = salesStateList
			return m, nil
		}

		var cmd tea.Cmd
		m.receipt, cmd = m.receipt.Update(msg)

		return m, cmd

	case salesStateDelete:
		return m.updateDelete(msg)
	}

	return m, nil
}

func (m SalesModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			m.state = salesStateDay
			m.dayPicker.Reset()
			m.status = ""

			return m, nil
		case "enter":
			if item, ok := m.list.SelectedItem().(saleItem); ok {
				var buf bytes.Buffer
				if err := receipt.WriteText(&buf, receipt.ForSale(item.sale, m.svc.Settings(), m.svc.Location())); err != nil {
					m.status = errorStyle(err.Error())
					return m, nil
				}

				m.receipt.SetContent(buf.String())
				m.receipt.GotoTop()
				m.state = salesStateReceipt
			}

			return m, nil
		case "x":
			if item, ok := m.list.SelectedItem().(saleItem); ok {
				return m.enterDelete(item.sale)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m SalesModel) enterDelete(s sale.Sale) (tea.Model, tea.Cmd) {
	m.confirm = new(false)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Excluir a venda #%d?", s.ID)).
				Description("Os itens voltam ao estoque.").
				Affirmative("Excluir").
				Negative("Cancelar").
				Value(m.confirm),
		),
	).WithShowHelp(false)
	m.state = salesStateDelete


	return m, m.form.Init()
}

func (m SalesModel) updateDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = salesStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	item, ok := m.list.SelectedItem().(saleItem)
	if !*m.confirm || !ok {
		m.state = salesStateList
		m.form = nil

		return m, nil
	}

	return m, m.deleteCmd(item.sale.ID)
}

func (m *SalesModel) reload() {
	filter := sale.Filter{Date: m.day, Loc: m.svc.Location()}

	sales := m.svc.FilterSales(filter)
	items := make([]list.Item, len(sales))

	var total money.Cents
	for i, s := range sales {
		items[i] = saleItem{sale: s, loc: m.svc.Location()}
		total += s.Total
	}

	m.list.SetItems(items)

	m.list.Title = "Vendas | todas as datas"
	if !m.day.IsZero() {
		m.list.Title = "Vendas | " + FormatDate(m.day, m.svc.Location())
	}

	m.list.NewStatusMessage(fmt.Sprintf("%d venda(s) | %s", len(sales), total.String()))
}

func (m SalesModel) View() string {
	var content string

	switch m.state {
	case salesStateDay:
		content = m.dayPicker.View()
	case salesStateList:
		content = m.list.View()
	case salesStateReceipt:
		content = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.receipt.View())
	case salesStateDelete:
		content = m.list.View()
		if m.form != nil {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, lipgloss.NewStyle().
				Padding(1, 2).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Render(m.form.View()))
		}
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type saleDeletedMsg struct {
	id  int64
	err error
}

func (m SalesModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.svc.DeleteSale(ctx, id)

		return saleDeletedMsg{id: id, err: err}
	}
}
