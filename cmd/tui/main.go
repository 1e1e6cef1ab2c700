package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pdv/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pdv/internal/config"
	"github.com/MrJamesThe3rd/pdv/internal/export"
	"github.com/MrJamesThe3rd/pdv/internal/importer"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/storage"
)

const logFile = "pdv-tui.log"

type model struct {
	svc           *pdv.Service
	importService *importer.Service
	exportService *export.Service
	appName       string

	currentView View

	checkoutView      view.CheckoutModel
	productsView      view.ProductsModel
	salesView         view.SalesModel
	exchangesView     view.ExchangesModel
	registerView      view.RegisterModel
	notificationsView view.NotificationsModel
	importView        view.ImportModel
	exportView        view.ExportModel
	settingsView      view.SettingsModel
}

type View int

const (
	ViewMenu          View = 0
	ViewCheckout      View = 1
	ViewProducts      View = 2
	ViewSales         View = 3
	ViewExchanges     View = 4
	ViewRegister      View = 5
	ViewNotifications View = 6
	ViewImport        View = 7
	ViewExport        View = 8
	ViewSettings      View = 9
)

func initialModel(cfg *config.Config, svc *pdv.Service) model {
	impSvc := importer.NewService()
	expSvc := export.NewService(svc)

	return model{
		svc:           svc,
		importService: impSvc,
		exportService: expSvc,
		appName:       cfg.App.Name,
		currentView:   ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCheckout
				m.checkoutView = view.NewCheckoutModel(m.svc)

				return m, m.checkoutView.Init()
			case "2":
				m.currentView = ViewProducts
				m.productsView = view.NewProductsModel(m.svc)

				return m, m.productsView.Init()
			case "3":
				m.currentView = ViewSales
				m.salesView = view.NewSalesModel(m.svc)

				return m, m.salesView.Init()
			case "4":
				m.currentView = ViewExchanges
				m.exchangesView = view.NewExchangesModel(m.svc)

				return m, m.exchangesView.Init()
			case "5":
				m.currentView = ViewRegister
				m.registerView = view.NewRegisterModel(m.svc)

				return m, m.registerView.Init()
			case "6":
				m.currentView = ViewNotifications
				m.notificationsView = view.NewNotificationsModel(m.svc)

				return m, m.notificationsView.Init()
			case "7":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.svc, m.importService)

				return m, m.importView.Init()
			case "8":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.svc.Location(), m.svc.Now)

				return m, m.exportView.Init()
			case "9":
				m.currentView = ViewSettings
				m.settingsView = view.NewSettingsModel(m.svc)

				return m, m.settingsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCheckout:
		var newModel tea.Model
		newModel, cmd = m.checkoutView.Update(msg)
		m.checkoutView = newModel.(view.CheckoutModel)
	case ViewProducts:
		var newModel tea.Model
		newModel, cmd = m.productsView.Update(msg)
		m.productsView = newModel.(view.ProductsModel)
	case ViewSales:
		var newModel tea.Model
		newModel, cmd = m.salesView.Update(msg)
		m.salesView = newModel.(view.SalesModel)
	case ViewExchanges:
		var newModel tea.Model
		newModel, cmd = m.exchangesView.Update(msg)
		m.exchangesView = newModel.(view.ExchangesModel)
	case ViewRegister:
		var newModel tea.Model
		newModel, cmd = m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)
	case ViewNotifications:
		var newModel tea.Model
		newModel, cmd = m.notificationsView.Update(msg)
		m.notificationsView = newModel.(view.NotificationsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewSettings:
		var newModel tea.Model
		newModel, cmd = m.settingsView.Update(msg)
		m.settingsView = newModel.(view.SettingsModel)
	}

	return m, cmd
}

func (m model) current() view.View {
	switch m.currentView {
	case ViewCheckout:
		return m.checkoutView
	case ViewProducts:
		return m.productsView
	case ViewSales:
		return m.salesView
	case ViewExchanges:
		return m.exchangesView
	case ViewRegister:
		return m.registerView
	case ViewNotifications:
		return m.notificationsView
	case ViewImport:
		return m.importView
	case ViewExport:
		return m.exportView
	case ViewSettings:
		return m.settingsView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		register := "fechado"
		if m.svc.CashRegister().IsOpen {
			register = "aberto"
		}

		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s | caixa %s\n\n", m.appName, register) +
				"1. Caixa\n" +
				"2. Produtos\n" +
				"3. Vendas\n" +
				"4. Trocas\n" +
				"5. Controle de caixa\n" +
				fmt.Sprintf("6. Notificações (%d)\n", m.svc.UnreadNotifications()) +
				"7. Importar produtos\n" +
				"8. Exportar vendas\n" +
				"9. Configurações\n\n" +
				"q. Sair",
		)
	}

	v := m.current()
	if v == nil {
		return "Tela desconhecida"
	}

	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func main() {
	f, err := tea.LogToFile(logFile, "pdv")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open log file:", err)
		os.Exit(1)
	}
	defer f.Close()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := pdv.NewService(store, pdv.Options{
		LowStockThreshold: cfg.Stock.LowThreshold,
		Debounce:          cfg.Stock.Debounce,
		Location:          time.Local,
		Logger:            slog.Default(),
		Seed:              cfg.App.Seed,
	})
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := svc.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(cfg, svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

func errorMessage(err error) string {
	if n, ok := pdv.NoticeOf(err); ok {
		return n.Message + " (detalhes em " + logFile + ")"
	}

	return err.Error()
}
