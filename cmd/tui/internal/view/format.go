package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pdv/internal/pdv"
)

const dbTimeout = 5 * time.Second

// FormatDate formats a time.Time as DD/MM/YYYY in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02/01/2006")
}

// FormatDateTime formats a time.Time as DD/MM/YYYY HH:MM in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02/01/2006 15:04")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// errorText renders err for the status line. Storage failures only show the
// operator message; the cause is already logged.
func errorText(err error) string {
	if n, ok := pdv.NoticeOf(err); ok && n.Kind == pdv.KindStorage {
		return n.Message
	}

	return err.Error()
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func successStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(s)
}
