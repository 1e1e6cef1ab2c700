package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

// settingsFields lists the editable keys in form order.
var settingsFields = []struct {
	key, title string
	text       bool
}{
	{key: settings.CompanyName, title: "Nome da empresa"},
	{key: settings.CompanyLegalName, title: "Razão social"},
	{key: settings.CNPJ, title: "CNPJ"},
	{key: settings.Address, title: "Endereço"},
	{key: settings.City, title: "Cidade"},
	{key: settings.Phone, title: "Telefone"},
	{key: settings.Email, title: "E-mail"},
	{key: settings.PixKey, title: "Chave Pix"},
	{key: settings.ExchangeDeadline, title: "Prazo de troca (dias)"},
	{key: settings.ExchangePolicy, title: "Política de troca", text: true},
	{key: settings.ReceiptMessage1, title: "Mensagem do cupom 1"},
	{key: settings.ReceiptMessage2, title: "Mensagem do cupom 2"},
	{key: settings.ReceiptMessage3, title: "Mensagem do cupom 3"},
	{key: settings.ReceiptFooter, title: "Rodapé do cupom"},
}

type SettingsModel struct {
	CommonModel
	svc *pdv.Service

	form   *huh.Form
	values map[string]*string
	status string
	err    error
}

func NewSettingsModel(svc *pdv.Service) SettingsModel {
	m := SettingsModel{svc: svc}
	m.build()

	return m
}

func (m *SettingsModel) build() {
	current := m.svc.Settings()

	m.values = make(map[string]*string, len(settingsFields))

	var company, receipt []huh.Field

	for i, f := range settingsFields {
		v := new(current[f.key])
		m.values[f.key] = v

		var field huh.Field = huh.NewInput().Title(f.title).Value(v)
		if f.text {
			field = huh.NewText().Title(f.title).Value(v)
		}

		if i < 8 {
			company = append(company, field)
		} else {
			receipt = append(receipt, field)
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(company...).Title("Empresa"),
		huh.NewGroup(receipt...).Title("Trocas e cupom"),
	).WithWidth(60).WithShowHelp(false)
}

func (m SettingsModel) Title() string { return "Configurações" }

func (m SettingsModel) ShortHelp() string {
	return "Navegue no formulário | Esc: voltar sem salvar"
}

func (m SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		m.err = msg.err
		m.status = "Configurações salvas."
		m.build()

		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m SettingsModel) View() string {
	header := ""

	switch {
	case m.err != nil:
		header = errorStyle(errorText(m.err)) + "\n\n"
	case m.status != "":
		header = successStyle(m.status) + "\n\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(header + m.form.View())
}

// Messages

type settingsSavedMsg struct {
	err error
}

func (m SettingsModel) saveCmd() tea.Cmd {
	values := make(map[string]string, len(m.values))
	for k, v := range m.values {
		values[k] = *v
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return settingsSavedMsg{err: m.svc.UpdateSettings(ctx, values)}
	}
}
