package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pdv/internal/importer"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateImporting
	importStatePreview
	importStateResult
)

type ImportModel struct {
	CommonModel
	svc           *pdv.Service
	importService *importer.Service

	state          importState
	filePicker     filepicker.Model
	selectedFormat importer.Format
	formatOptions  []importer.Format
	formatCursor   int

	parsed      []product.Product
	previewList list.Model
	selected    map[int]bool

	status string
	err    error
}

func NewImportModel(svc *pdv.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		svc:           svc,
		importService: impSvc,
		filePicker:    fp,
		formatOptions: []importer.Format{importer.FormatCatalog},
		selected:      make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Importar produtos" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Espaço: marcar | a: todos | n: nenhum | Enter: importar | Esc: cancelar"
	}

	return "Esc: voltar | Enter: selecionar"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateFormatSelect {
			return m.updateFormatSelect(msg)
		}

		if m.state == importStatePreview {
			return m.updatePreview(msg)
		}

	case parseResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Erro: %v", msg.err)

			return m, nil
		}

		if len(msg.products) == 0 {
			m.state = importStateResult
			m.status = "Nenhum produto encontrado no arquivo."

			return m, nil
		}

		m.parsed = msg.products
		m.selected = make(map[int]bool, len(msg.products))
		m.state = importStatePreview

		items := make([]list.Item, len(m.parsed))
		for i, p := range m.parsed {
			items[i] = previewItem{product: p, index: i}
			m.selected[i] = true
		}

		existing := make(map[string]product.Product)
		for _, p := range m.svc.Products() {
			if p.Barcode != "" {
				existing[p.Barcode] = p
			}
		}

		delegate := previewDelegate{selected: &m.selected, existing: existing}
		m.previewList = list.New(items, delegate, 80, 20)
		m.previewList.Title = fmt.Sprintf("%d produto(s) no arquivo", len(items))
		m.previewList.SetShowStatusBar(false)
		m.previewList.SetFilteringEnabled(false)
		m.previewList.SetShowHelp(false)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Erro: %s", errorText(msg.err))

			return m, nil
		}

		m.status = fmt.Sprintf("%d adicionado(s), %d atualizado(s), %d ignorado(s).",
			msg.result.Added, msg.result.Updated, msg.result.Skipped)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Lendo %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateFormatSelect
		return m, nil
	case importStateResult:
		m.state = importStateFormatSelect
		m.err = nil
		m.status = ""

		return m, nil
	case importStatePreview:
		m.state = importStateFormatSelect
		m.parsed = nil
		m.selected = make(map[int]bool)

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case tea.KeyDown:
		if m.formatCursor < len(m.formatOptions)-1 {
			m.formatCursor++
		}
	case tea.KeyEnter:
		m.selectedFormat = m.formatOptions[m.formatCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.previewList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.parsed {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.parsed {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.previewList, cmd = m.previewList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormatSelect:
		return m.viewFormatSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.previewList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func formatLabel(f importer.Format) string {
	switch f {
	case importer.FormatCatalog:
		return "Planilha de produtos (CSV)"
	}

	return string(f)
}

func (m ImportModel) viewFormatSelect() string {
	s := "Selecione o formato:\n\n"

	for i, f := range m.formatOptions {
		cursor := " "
		if i == m.formatCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, formatLabel(f))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Selecione o arquivo (%s):\n\n%s", formatLabel(m.selectedFormat), m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Esc para voltar)")
	}

	return style.Render(successStyle(m.status) + "\n\n(Esc para voltar)")
}

// Messages

type parseResultMsg struct {
	products []product.Product
	err      error
}

type confirmResultMsg struct {
	result pdv.ImportResult
	err    error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	format := m.selectedFormat

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parseResultMsg{err: err}
		}
		defer f.Close()

		products, err := m.importService.Import(format, f)

		return parseResultMsg{products: products, err: err}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	parsed := m.parsed
	selected := m.selected

	return func() tea.Msg {
		var chosen []product.Product

		for i, p := range parsed {
			if selected[i] {
				chosen = append(chosen, p)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		res, err := m.svc.ImportProducts(ctx, chosen)

		return confirmResultMsg{result: res, err: err}
	}
}

// Preview list item

type previewItem struct {
	product product.Product
	index   int
}

func (i previewItem) Title() string       { return "" }
func (i previewItem) Description() string { return "" }
func (i previewItem) FilterValue() string { return "" }

// Preview list delegate

type previewDelegate struct {
	selected *map[int]bool
	// existing maps known barcodes to the products an import row would update.
	existing map[string]product.Product
}

func (d previewDelegate) Height() int                             { return 2 }
func (d previewDelegate) Spacing() int                            { return 0 }
func (d previewDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d previewDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(previewItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	p := item.product

	line1 := fmt.Sprintf("%s%s %s  %s  estoque %d", cursor, checkbox, p.Name, p.Price.String(), p.Stock)

	line2 := "      sem código de barras"
	if p.Barcode != "" {
		line2 = fmt.Sprintf("      código %s", p.Barcode)
	}

	if existing, ok := d.existing[p.Barcode]; ok && p.Barcode != "" {
		line2 += fmt.Sprintf("  (atualiza #%d, estoque %d)", existing.ID, existing.Stock)
	}

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
