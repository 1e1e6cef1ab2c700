package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pdv/internal/notification"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
)

type notificationItem struct {
	n   notification.Notification
	loc *time.Location
}

func (i notificationItem) Title() string       { return i.n.Title }
func (i notificationItem) Description() string { return i.n.Message }
func (i notificationItem) FilterValue() string { return i.n.Title + " " + i.n.Message }

type notificationDelegate struct{}

func (d notificationDelegate) Height() int                             { return 2 }
func (d notificationDelegate) Spacing() int                            { return 1 }
func (d notificationDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d notificationDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(notificationItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	color := lipgloss.Color("244")
	switch item.n.Priority {
	case notification.PriorityHigh:
		color = lipgloss.Color("196")
	case notification.PriorityMedium:
		color = lipgloss.Color("214")
	}

	titleStyle := lipgloss.NewStyle().Foreground(color)
	if !item.n.Read {
		titleStyle = titleStyle.Bold(true)
	}

	marker := " "
	if !item.n.Read {
		marker = "●"
	}

	line1 := fmt.Sprintf("%s%s %s  %s", cursor, marker, titleStyle.Render(item.n.Title),
		lipgloss.NewStyle().Faint(true).Render(FormatDateTime(item.n.Timestamp, item.loc)))
	line2 := "    " + item.n.Message

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

type NotificationsModel struct {
	CommonModel
	svc *pdv.Service

	list   list.Model
	status string
}

func NewNotificationsModel(svc *pdv.Service) NotificationsModel {
	l := list.New([]list.Item{}, notificationDelegate{}, 80, 20)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	m := NotificationsModel{svc: svc, list: l}
	m.reload()

	return m
}

func (m NotificationsModel) Title() string { return "Notificações" }

func (m NotificationsModel) ShortHelp() string {
	return "Esc: voltar | Enter: marcar como lida | x: remover | c: limpar | s: verificar estoque"
}

func (m NotificationsModel) Init() tea.Cmd {
	return nil
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		item, hasItem := m.list.SelectedItem().(notificationItem)

		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			if hasItem {
				m.svc.MarkNotificationRead(item.n.ID)
				m.reload()
			}

			return m, nil
		case "x":
			if hasItem {
				m.svc.RemoveNotification(item.n.ID)
				m.reload()
			}

			return m, nil
		case "c":
			m.svc.ClearNotifications()
			m.status = "Notificações removidas."
			m.reload()

			return m, nil
		case "s":
			added := m.svc.ScanLowStock()
			m.status = fmt.Sprintf("%d alerta(s) de estoque baixo.", added)
			m.reload()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m *NotificationsModel) reload() {
	ns := m.svc.Notifications()

	items := make([]list.Item, len(ns))
	for i, n := range ns {
		items[i] = notificationItem{n: n, loc: m.svc.Location()}
	}

	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("Notificações (%d não lidas)", m.svc.UnreadNotifications())
}

func (m NotificationsModel) View() string {
	content := m.list.View()
	if len(m.list.Items()) == 0 {
		content = strings.TrimSpace(m.list.Title) + "\n\nNenhuma notificação."
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
