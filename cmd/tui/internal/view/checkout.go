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

	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/receipt"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

type checkoutState int

const (
	checkoutStateCart checkoutState = iota
	checkoutStatePayment
	checkoutStateReceipt
)

// paymentForm holds the bindings of the payment form.
type paymentForm struct {
	clientID     int64
	method       sale.PaymentMethod
	discount     string
	amountPaid   string
	installments int
}

func (f paymentForm) checkout() (pdv.Checkout, error) {
	c := pdv.Checkout{ClientID: f.clientID, PaymentMethod: f.method}

	var err error
	if strings.TrimSpace(f.discount) != "" {
		if c.Discount, err = money.Parse(f.discount); err != nil {
			return pdv.Checkout{}, fmt.Errorf("desconto: %w", err)
		}
	}

	switch f.method {
	case sale.PaymentCash:
		if strings.TrimSpace(f.amountPaid) != "" {
			paid, err := money.Parse(f.amountPaid)
			if err != nil {
				return pdv.Checkout{}, fmt.Errorf("valor pago: %w", err)
			}

			c.PaymentDetails = &sale.PaymentDetails{AmountPaid: paid}
		}
	case sale.PaymentCredit:
		c.PaymentDetails = &sale.PaymentDetails{Installments: f.installments}
	}

	return c, nil
}

// CheckoutModel shows the cart, takes the payment and previews the receipt.
type CheckoutModel struct {
	CommonModel
	svc *pdv.Service

	state    checkoutState
	table    table.Model
	items    []pdv.CartItem
	form     *huh.Form
	payment  *paymentForm
	receipt  viewport.Model

	status string
}

func NewCheckoutModel(svc *pdv.Service) CheckoutModel {
	columns := []table.Column{
		{Title: "Produto", Width: 32},
		{Title: "Qtd.", Width: 5},
		{Title: "Unitário", Width: 12},
		{Title: "Total", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	m := CheckoutModel{svc: svc, table: t, receipt: viewport.New(40, 20)}
	m.reload()

	return m
}

func (m CheckoutModel) Title() string { return "Caixa" }

func (m CheckoutModel) ShortHelp() string {
	switch m.state {
	case checkoutStatePayment:
		return "Navegue no formulário | Esc: voltar ao carrinho"
	case checkoutStateReceipt:
		return "↑/↓: rolar | Esc: nova venda"
	}

	return "Esc: voltar | +/-: quantidade | x: remover | c: limpar | Enter: pagamento"
}

func (m CheckoutModel) Init() tea.Cmd {
	return nil
}

func (m CheckoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case saleResultMsg:
		m.form = nil

		if msg.err != nil {
			m.state = checkoutStateCart
			m.status = errorStyle(errorText(msg.err))
			m.table.Focus()
			m.reload()

			return m, nil
		}

		m.state = checkoutStateReceipt
		m.status = successStyle(fmt.Sprintf("Venda #%d registrada.", msg.id))
		m.receipt.SetContent(msg.receipt)
		m.receipt.GotoTop()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		m.receipt.Height = msg.Height - 8

		return m, nil
	}

	switch m.state {
	case checkoutStatePayment:
		return m.updatePayment(msg)
	case checkoutStateReceipt:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = checkoutStateCart
			m.status = ""
			m.table.Focus()
			m.reload()

			return m, nil
		}

		var cmd tea.Cmd
		m.receipt, cmd = m.receipt.Update(msg)

		return m, cmd
	}

	return m.updateCart(msg)
}

func (m CheckoutModel) updateCart(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		item, hasItem := m.selected()

		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.reload()
			return m, nil
		case "+", "=":
			if hasItem {
				m.svc.UpdateCartItem(item.ID, item.Quantity+1)
				m.reload()
			}

			return m, nil
		case "-":
			if hasItem {
				m.svc.UpdateCartItem(item.ID, item.Quantity-1)
				m.reload()
			}

			return m, nil
		case "x":
			if hasItem {
				m.svc.RemoveFromCart(item.ID)
				m.reload()
			}

			return m, nil
		case "c":
			m.svc.ClearCart()
			m.reload()

			return m, nil
		case "enter":
			if len(m.items) == 0 {
				m.status = "Carrinho vazio. Adicione produtos pela tela de produtos."
				return m, nil
			}

			return m.enterPayment()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CheckoutModel) updatePayment(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = checkoutStateCart
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

	return m, m.processCmd()
}

func (m *CheckoutModel) selected() (pdv.CartItem, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return pdv.CartItem{}, false
	}

	return m.items[idx], true
}

func (m CheckoutModel) enterPayment() (tea.Model, tea.Cmd) {
	pf := &paymentForm{method: sale.PaymentCash, installments: 1}
	m.payment = pf

	clients := []huh.Option[int64]{huh.NewOption("Não identificado", int64(0))}
	for _, c := range m.svc.Clients() {
		clients = append(clients, huh.NewOption(c.Name, c.ID))
	}

	methods := make([]huh.Option[sale.PaymentMethod], 0, len(sale.PaymentMethods))
	for _, pm := range sale.PaymentMethods {
		methods = append(methods, huh.NewOption(string(pm), pm))
	}

	installments := make([]huh.Option[int], 0, sale.MaxInstallments)
	for i := 1; i <= sale.MaxInstallments; i++ {
		installments = append(installments, huh.NewOption(strconv.Itoa(i)+"x", i))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().Title("Cliente").Options(clients...).Value(&pf.clientID),
			huh.NewSelect[sale.PaymentMethod]().Title("Forma de pagamento").Options(methods...).Value(&pf.method),
			huh.NewInput().Title("Desconto").Placeholder("0,00").Value(&pf.discount),
		),
		huh.NewGroup(
			huh.NewInput().Title("Valor pago").Placeholder("0,00").Value(&pf.amountPaid),
		).WithHideFunc(func() bool { return pf.method != sale.PaymentCash }),
		huh.NewGroup(
			huh.NewSelect[int]().Title("Parcelas").Options(installments...).Value(&pf.installments),
		).WithHideFunc(func() bool { return pf.method != sale.PaymentCredit }),
	).WithWidth(45).WithShowHelp(false)

	m.state = checkoutStatePayment
	m.table.Blur()

	return m, m.form.Init()
}

func (m *CheckoutModel) reload() {
	m.items = m.svc.Cart()

	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		rows = append(rows, table.Row{
			it.Name,
			strconv.Itoa(it.Quantity),
			it.Price.String(),
			it.Total().String(),
		})
	}

	m.table.SetRows(rows)
}

func (m CheckoutModel) View() string {
	if m.state == checkoutStateReceipt {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				m.status,
				"",
				lipgloss.NewStyle().
					BorderStyle(lipgloss.NormalBorder()).
					BorderForeground(lipgloss.Color("240")).
					Render(m.receipt.View()),
			),
		)
	}

	register := "Caixa fechado"
	if m.svc.CashRegister().IsOpen {
		register = "Caixa aberto"
	}

	header := fmt.Sprintf("%s | Total: %s", activeStyle(register), activeStyle(m.svc.CartTotal().String()))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.state == checkoutStatePayment && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Pagamento\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type saleResultMsg struct {
	id      int64
	receipt string
	err     error
}

func (m CheckoutModel) processCmd() tea.Cmd {
	pf := *m.payment

	return func() tea.Msg {
		c, err := pf.checkout()
		if err != nil {
			return saleResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		s, err := m.svc.ProcessSale(ctx, c)
		if err != nil {
			return saleResultMsg{err: err}
		}

		var buf bytes.Buffer
		if err := receipt.WriteText(&buf, receipt.ForSale(s, m.svc.Settings(), m.svc.Location())); err != nil {
			return saleResultMsg{id: s.ID, receipt: errorStyle(err.Error())}
		}

		return saleResultMsg{id: s.ID, receipt: buf.String()}
	}
}
