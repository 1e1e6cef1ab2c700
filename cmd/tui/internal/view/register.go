package view

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pdv/internal/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/receipt"
)

type registerState int

const (
	registerStateSummary registerState = iota
	registerStateOpen
	registerStateClose
)

// RegisterModel opens and closes the cash register and shows the day's
// report.
type RegisterModel struct {
	CommonModel
	svc *pdv.Service

	state   registerState
	form    *huh.Form
	amount  *string
	confirm *bool
	report  viewport.Model

	status string
}

func NewRegisterModel(svc *pdv.Service) RegisterModel {
	m := RegisterModel{svc: svc, report: viewport.New(70, 20)}
	m.refresh()

	return m
}

func (m RegisterModel) Title() string { return "Controle de caixa" }

func (m RegisterModel) ShortHelp() string {
	if m.state != registerStateSummary {
		return "Navegue no formulário | Esc: cancelar"
	}

	return "Esc: voltar | o: abrir caixa | f: fechar caixa | p: salvar relatório em PDF | r: atualizar"
}

func (m RegisterModel) Init() tea.Cmd {
	return nil
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		m.state = registerStateSummary
		m.form = nil
		m.status = successStyle(msg.status)

		if msg.err != nil {
			m.status = errorStyle(errorText(msg.err))
		}

		m.refresh()

		return m, nil

	case tea.WindowSizeMsg:
		m.report.Height = msg.Height - 10
		return m, nil
	}

	if m.state != registerStateSummary {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.refresh()
			return m, nil
		case "o":
			return m.enterOpen()
		case "f":
			if !m.svc.CashRegister().IsOpen {
				m.status = errorStyle(pdv.MsgCloseRegister)
				return m, nil
			}

			return m.enterClose()
		case "p":
			return m, m.pdfCmd(m.svc.GenerateDailyReport(), "Relatório salvo em %s.")
		}
	}

	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)

	return m, cmd
}

func (m RegisterModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = registerStateSummary
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

	if m.state == registerStateOpen {
		return m, m.openCmd(*m.amount)
	}

	if !*m.confirm {
		m.state = registerStateSummary
		m.form = nil

		return m, nil
	}

	return m, m.closeCmd()
}

func (m RegisterModel) enterOpen() (tea.Model, tea.Cmd) {
	m.amount = new("")
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Valor de abertura").
				Description("Dinheiro no caixa no início do dia").
				Placeholder("0,00").
				Value(m.amount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = registerStateOpen

	return m, m.form.Init()
}

func (m RegisterModel) enterClose() (tea.Model, tea.Cmd) {
	m.confirm = new(true)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Fechar o caixa?").
				Description("O relatório do dia será salvo em PDF.").
				Affirmative("Fechar").
				Negative("Cancelar").
				Value(m.confirm),
		),
	).WithShowHelp(false)

	m.state = registerStateClose

	return m, m.form.Init()
}

func (m *RegisterModel) refresh() {
	m.report.SetContent(m.reportText())
}

func (m *RegisterModel) reportText() string {
	var (
		b       strings.Builder
		loc     = m.svc.Location()
		session = m.svc.CashRegister()
		rep     = m.svc.GenerateDailyReport()
	)

	switch {
	case session.IsOpen && session.OpeningDate != nil:
		fmt.Fprintf(&b, "%s desde %s\n", successStyle("Caixa aberto"), FormatDateTime(*session.OpeningDate, loc))
		fmt.Fprintf(&b, "Valor de abertura: %s\n", session.OpeningAmount.String())
	case session.IsOpen:
		b.WriteString(successStyle("Caixa aberto") + "\n")
	default:
		b.WriteString(errorStyle("Caixa fechado") + "\n")
	}

	fmt.Fprintf(&b, "\nRelatório de %s\n\n", FormatDate(rep.ClosingDate, loc))
	fmt.Fprintf(&b, "Vendas:          %d\n", rep.TotalSalesCount)
	fmt.Fprintf(&b, "Total vendido:   %s\n", rep.TotalSales.String())
	fmt.Fprintf(&b, "Trocas:          %d\n", rep.TotalExchangesCount)
	fmt.Fprintf(&b, "Dinheiro final:  %s\n", rep.ExpectedCash().String())

	if len(rep.ProductsSold) > 0 {
		b.WriteString("\nProdutos vendidos:\n")

		for _, p := range rep.ProductsSold {
			fmt.Fprintf(&b, "  %3dx %s\n", p.Quantity, p.Name)
		}
	}

	if len(rep.DailyProducts) > 0 {
		b.WriteString("\nMovimentações registradas:\n")

		for _, p := range rep.DailyProducts {
			fmt.Fprintf(&b, "  %s  %3dx %s\n", p.Date.In(loc).Format("15:04"), p.Quantity, p.Name)
		}
	}

	return b.String()
}

func (m RegisterModel) View() string {
	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(m.report.View())

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type registerResultMsg struct {
	status string
	err    error
}

func (m RegisterModel) openCmd(amount string) tea.Cmd {
	return func() tea.Msg {
		var cents money.Cents
		if strings.TrimSpace(amount) != "" {
			var err error
			if cents, err = money.Parse(amount); err != nil {
				return registerResultMsg{err: fmt.Errorf("valor de abertura: %w", err)}
			}
		}

		if err := m.svc.OpenCashRegister(cents); err != nil {
			return registerResultMsg{err: err}
		}

		return registerResultMsg{status: "Caixa aberto com " + cents.String() + "."}
	}
}

func (m RegisterModel) closeCmd() tea.Cmd {
	return func() tea.Msg {
		rep, err := m.svc.CloseCashRegister()
		if err != nil {
			return registerResultMsg{err: err}
		}

		return m.pdfCmd(rep, "Caixa fechado. Relatório salvo em %s.")()
	}
}

// pdfCmd writes rep to the working directory. format receives the file name.
func (m RegisterModel) pdfCmd(rep cashregister.DailyReport, format string) tea.Cmd {
	return func() tea.Msg {
		name := receipt.ReportFileName(rep.ClosingDate.In(m.svc.Location()))

		f, err := os.Create(name)
		if err != nil {
			return registerResultMsg{err: err}
		}
		defer f.Close()

		if err := receipt.ClosingReportPDF(f, rep, m.svc.Settings(), m.svc.Location()); err != nil {
			return registerResultMsg{err: err}
		}

		return registerResultMsg{status: fmt.Sprintf(format, name)}
	}
}
