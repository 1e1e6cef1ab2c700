package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pdv/internal/export"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

type exportState int

const (
	exportStateDay exportState = iota
	exportStatePath
	exportStateExporting
	exportStateResult
)

// exportForm holds the bindings of the path form.
type exportForm struct {
	client string
	path   string
}

type ExportModel struct {
	CommonModel
	exportService *export.Service
	loc           *time.Location

	state     exportState
	err       error
	dayPicker DayPicker

	day time.Time

	form    *huh.Form
	fields  *exportForm
	spinner spinner.Model
	summary string
}

func NewExportModel(svc *export.Service, loc *time.Location, now func() time.Time) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService: svc,
		loc:           loc,
		state:         exportStateDay,
		dayPicker:     NewDayPicker(loc, now),
		fields:        &exportForm{path: "./exports"},
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Exportar vendas" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: voltar ao menu"
	case exportStateExporting:
		return "Exportando..."
	}

	return "Esc: voltar | Enter: confirmar"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if dayMsg, ok := msg.(DaySelectedMsg); ok {
		m.day = dayMsg.Date
		m.form = m.buildPathForm()
		m.state = exportStatePath

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateDay:
		return m.updateDay(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateDay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.dayPicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.dayPicker, cmd = m.dayPicker.Update(msg)

	return m, cmd
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStateDay
			m.dayPicker.Reset()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	filter := sale.Filter{Client: m.fields.client, Date: m.day, Loc: m.loc}

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(filter, m.fields.path))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("client").
				Title("Cliente").
				Description("Parte do nome; vazio exporta todos").
				Value(&m.fields.client),
			huh.NewInput().
				Key("path").
				Title("Pasta de destino").
				Description("A pasta é criada se não existir").
				Placeholder("./exports").
				Value(&m.fields.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateDay:
		return lipgloss.NewStyle().Padding(1).Render(m.dayPicker.View())

	case exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Exportando vendas e cupons...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Erro: %v", m.err)))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Exportação concluída!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Resumo:",
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	body string
	err  error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd(filter sale.Filter, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		items, err := m.exportService.Export(ctx, filter, path)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{body: m.exportService.GenerateSummary(items)}
	}
}
