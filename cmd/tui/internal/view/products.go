package view

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pdv/internal/label"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

const labelsFile = "etiquetas.pdf"

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateSearch
	productsStateEdit
	productsStateDelete
	productsStateLabel
)

// productForm holds the text bindings of the product form. Forms keep
// pointers into it, so models share it by pointer across updates.
type productForm struct {
	name, description, price, cost  string
	stock, minStock                 string
	category, barcode, brand, model string
	supplier                        string
}

func newProductForm(p product.Product) *productForm {
	return &productForm{
		name:        p.Name,
		description: p.Description,
		price:       money.Plain(p.Price),
		cost:        money.Plain(p.Cost),
		stock:       strconv.Itoa(p.Stock),
		minStock:    strconv.Itoa(p.MinStock),
		category:    p.Category,
		barcode:     p.Barcode,
		brand:       p.Brand,
		model:       p.Model,
		supplier:    p.Supplier,
	}
}

func (f productForm) product(id int64) (product.Product, error) {
	price, err := money.Parse(f.price)
	if err != nil {
		return product.Product{}, fmt.Errorf("preço: %w", err)
	}

	var cost money.Cents
	if strings.TrimSpace(f.cost) != "" {
		if cost, err = money.Parse(f.cost); err != nil {
			return product.Product{}, fmt.Errorf("custo: %w", err)
		}
	}

	stock, err := atoiOrZero(f.stock)
	if err != nil {
		return product.Product{}, fmt.Errorf("estoque: %w", err)
	}

	minStock, err := atoiOrZero(f.minStock)
	if err != nil {
		return product.Product{}, fmt.Errorf("estoque mínimo: %w", err)
	}

	return product.Product{
		ID:          id,
		Name:        strings.TrimSpace(f.name),
		Description: strings.TrimSpace(f.description),
		Price:       price,
		Cost:        cost,
		Stock:       stock,
		MinStock:    minStock,
		Category:    strings.TrimSpace(f.category),
		Barcode:     strings.TrimSpace(f.barcode),
		Brand:       strings.TrimSpace(f.brand),
		Model:       strings.TrimSpace(f.model),
		Supplier:    strings.TrimSpace(f.supplier),
	}, nil
}

type labelForm struct {
	copies  string
	promo   string
	isPromo bool
}

func atoiOrZero(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	return strconv.Atoi(s)
}

type ProductsModel struct {
	CommonModel
	svc *pdv.Service

	state    productsState
	table    table.Model
	search   textinput.Model
	products []product.Product
	lowOnly  bool

	form    *huh.Form
	editing int64
	fields  *productForm
	confirm *bool
	label   *labelForm

	status string
}

func NewProductsModel(svc *pdv.Service) ProductsModel {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Nome", Width: 32},
		{Title: "Preço", Width: 12},
		{Title: "Estoque", Width: 8},
		{Title: "Mín.", Width: 5},
		{Title: "Código", Width: 14},
		{Title: "Categoria", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	search := textinput.New()
	search.Placeholder = "nome, código, marca ou modelo"
	search.Prompt = "Buscar: "
	search.Width = 40

	m := ProductsModel{svc: svc, table: t, search: search}
	m.reload()

	return m
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return s
}

func (m ProductsModel) Title() string { return "Produtos" }

func (m ProductsModel) ShortHelp() string {
	switch m.state {
	case productsStateSearch:
		return "Enter: aplicar | Esc: limpar"
	case productsStateEdit, productsStateDelete, productsStateLabel:
		return "Navegue no formulário | Esc: cancelar"
	}

	return "Esc: voltar | /: buscar | a: novo | e: editar | x: excluir | c: carrinho | p: etiqueta | l: estoque baixo"
}

func (m ProductsModel) Init() tea.Cmd {
	return nil
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorStyle(errorText(msg.err))
		}

		m.state = productsStateBrowse
		m.form = nil
		m.table.Focus()
		m.reload()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case productsStateSearch:
		return m.updateSearch(msg)
	case productsStateEdit, productsStateDelete, productsStateLabel:
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ProductsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.reload()
			return m, nil
		case "/":
			m.state = productsStateSearch
			m.table.Blur()

			return m, m.search.Focus()
		case "l":
			m.lowOnly = !m.lowOnly
			m.reload()

			return m, nil
		case "a":
			return m.enterEdit(product.Product{})
		case "e":
			if p, ok := m.selected(); ok {
				return m.enterEdit(p)
			}
		case "x":
			if p, ok := m.selected(); ok {
				return m.enterDelete(p)
			}
		case "p":
			if p, ok := m.selected(); ok {
				return m.enterLabel(p)
			}
		case "c":
			if p, ok := m.selected(); ok {
				if err := m.svc.AddToCart(p.ID, 1); err != nil {
					m.status = errorStyle(errorText(err))
				} else {
					m.status = fmt.Sprintf("%s adicionado ao carrinho (%d itens).", p.Name, len(m.svc.Cart()))
				}
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProductsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.svc.SetSearchTerm(m.search.Value())
			m.search.Blur()
			m.state = productsStateBrowse
			m.table.Focus()
			m.reload()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m ProductsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = productsStateBrowse
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

	switch m.state {
	case productsStateDelete:
		if !*m.confirm {
			m.state = productsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd(m.editing)
	case productsStateLabel:
		return m, m.labelCmd()
	}

	return m, m.saveCmd()
}

func (m *ProductsModel) selected() (product.Product, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return product.Product{}, false
	}

	return m.products[idx], true
}

func (m ProductsModel) enterEdit(p product.Product) (tea.Model, tea.Cmd) {
	m.editing = p.ID
	m.fields = newProductForm(p)

	validMoney := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}

		_, err := money.Parse(s)

		return err
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Nome").Value(&m.fields.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("nome é obrigatório")
					}

					return nil
				}),
			huh.NewInput().Title("Preço").Placeholder("0,00").Value(&m.fields.price).Validate(validMoney),
			huh.NewInput().Title("Custo").Placeholder("0,00").Value(&m.fields.cost).Validate(validMoney),
			huh.NewInput().Title("Estoque").Value(&m.fields.stock),
			huh.NewInput().Title("Estoque mínimo").Value(&m.fields.minStock),
		),
		huh.NewGroup(
			huh.NewInput().Title("Código de barras").Value(&m.fields.barcode),
			huh.NewInput().Title("Categoria").Value(&m.fields.category),
			huh.NewInput().Title("Marca").Value(&m.fields.brand),
			huh.NewInput().Title("Modelo").Value(&m.fields.model),
			huh.NewInput().Title("Fornecedor").Value(&m.fields.supplier),
			huh.NewText().Title("Descrição").Value(&m.fields.description),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) enterDelete(p product.Product) (tea.Model, tea.Cmd) {
	m.editing = p.ID
	m.confirm = new(false)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Excluir %q?", p.Name)).
				Affirmative("Excluir").
				Negative("Cancelar").
				Value(m.confirm),
		),
	).WithShowHelp(false)

	m.state = productsStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) enterLabel(p product.Product) (tea.Model, tea.Cmd) {
	m.editing = p.ID
	lf := &labelForm{copies: "1"}
	m.label = lf

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Cópias").Value(&lf.copies),
			huh.NewConfirm().Title("Etiqueta promocional?").Value(&lf.isPromo),
		),
		huh.NewGroup(
			huh.NewInput().Title("Preço promocional").Placeholder("0,00").Value(&lf.promo),
		).WithHideFunc(func() bool { return !lf.isPromo }),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateLabel
	m.table.Blur()

	return m, m.form.Init()
}

func (m *ProductsModel) reload() {
	switch {
	case m.lowOnly:
		m.products = m.svc.LowStockProducts()
	default:
		m.products = m.svc.SearchProducts()
	}

	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Price.String(),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.MinStock),
			p.Barcode,
			p.Category,
		})
	}

	m.table.SetRows(rows)
}

func (m ProductsModel) View() string {
	filter := "Todos"
	if m.lowOnly {
		filter = "Estoque baixo"
	}

	header := fmt.Sprintf("[l] Filtro: %s | [/] Busca: %s", activeStyle(filter), activeStyle(m.search.Value()))
	if m.state == productsStateSearch {
		header = m.search.View()
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.form != nil && m.state != productsStateBrowse && m.state != productsStateSearch {
		title := "Novo produto"
		switch {
		case m.state == productsStateLabel:
			title = "Etiqueta"
		case m.state == productsStateDelete:
			title = "Excluir produto"
		case m.editing != 0:
			title = fmt.Sprintf("Editar produto #%d", m.editing)
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

type productSavedMsg struct {
	status string
	err    error
}

func (m ProductsModel) saveCmd() tea.Cmd {
	id := m.editing
	fields := *m.fields

	return func() tea.Msg {
		p, err := fields.product(id)
		if err != nil {
			return productSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if id == 0 {
			p, err = m.svc.AddProduct(ctx, p)
			if err != nil {
				return productSavedMsg{err: err}
			}

			return productSavedMsg{status: fmt.Sprintf("Produto #%d cadastrado.", p.ID)}
		}

		if err := m.svc.UpdateProduct(ctx, p); err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: "Produto atualizado."}
	}
}

func (m ProductsModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.DeleteProduct(ctx, id); err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: "Produto excluído."}
	}
}

func (m ProductsModel) labelCmd() tea.Cmd {
	id := m.editing
	lf := *m.label

	return func() tea.Msg {
		p, ok := m.svc.Product(id)
		if !ok {
			return productSavedMsg{err: product.ErrNotFound}
		}

		n, err := atoiOrZero(lf.copies)
		if err != nil {
			return productSavedMsg{err: fmt.Errorf("cópias: %w", err)}
		}

		tile := label.Tile{Product: p, Variant: label.VariantNormal, Copies: n}
		if lf.isPromo {
			tile.Variant = label.VariantPromo
			if tile.PromoPrice, err = money.Parse(lf.promo); err != nil {
				return productSavedMsg{err: fmt.Errorf("preço promocional: %w", err)}
			}
		}

		if err := tile.Validate(); err != nil {
			return productSavedMsg{err: err}
		}

		f, err := os.Create(labelsFile)
		if err != nil {
			return productSavedMsg{err: err}
		}
		defer f.Close()

		if err := label.SheetPDF(f, []label.Tile{tile}, m.svc.Settings()); err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: fmt.Sprintf("Etiquetas salvas em %s.", labelsFile)}
	}
}
