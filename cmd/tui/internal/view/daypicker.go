package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Day is a predefined or typed calendar day selection.
type Day int

const (
	DayToday     Day = 0
	DayYesterday Day = 1
	DayAll       Day = 2
	DayCustom    Day = 3
)

func (d Day) String() string {
	switch d {
	case DayToday:
		return "Hoje"
	case DayYesterday:
		return "Ontem"
	case DayAll:
		return "Todas as datas"
	case DayCustom:
		return "Outra data"
	}

	return "Desconhecido"
}

// DaySelectedMsg is emitted when the user has picked a day. Date is the zero
// value when All is true.
type DaySelectedMsg struct {
	Date time.Time
	All  bool
}

type dayPickerState int

const (
	dayPickerStateSelect dayPickerState = iota
	dayPickerStateCustom
)

// DayPicker is a reusable component for choosing the calendar day sales are
// filtered on.
type DayPicker struct {
	state    dayPickerState
	selected Day
	loc      *time.Location
	now      func() time.Time

	input textinput.Model
	err   error
}

func NewDayPicker(loc *time.Location, now func() time.Time) DayPicker {
	in := textinput.New()
	in.Placeholder = "DD/MM/AAAA"
	in.CharLimit = 10
	in.Width = 12
	in.Prompt = "Data: "

	return DayPicker{
		state: dayPickerStateSelect,
		loc:   loc,
		now:   now,
		input: in,
	}
}

func (m DayPicker) Update(msg tea.Msg) (DayPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case dayPickerStateSelect:
			return m.updateSelect(keyMsg)
		case dayPickerStateCustom:
			if next, cmd, done := m.updateCustom(keyMsg); done {
				return next, cmd
			}
		}
	}

	if m.state != dayPickerStateCustom {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m DayPicker) updateSelect(msg tea.KeyMsg) (DayPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > DayToday {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < DayCustom {
			m.selected++
		}
	case tea.KeyEnter:
		switch m.selected {
		case DayCustom:
			m.state = dayPickerStateCustom
			m.input.Focus()

			return m, textinput.Blink
		case DayAll:
			return m, func() tea.Msg { return DaySelectedMsg{All: true} }
		case DayYesterday:
			return m, m.selectCmd(m.now().In(m.loc).AddDate(0, 0, -1))
		default:
			return m, m.selectCmd(m.now().In(m.loc))
		}
	}

	return m, nil
}

func (m DayPicker) updateCustom(msg tea.KeyMsg) (DayPicker, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		day, err := time.ParseInLocation("02/01/2006", m.input.Value(), m.loc)
		if err != nil {
			m.err = fmt.Errorf("data inválida (DD/MM/AAAA)")
			return m, nil, true
		}

		m.err = nil

		return m, m.selectCmd(day), true
	case tea.KeyEsc:
		m.state = dayPickerStateSelect
		m.err = nil
		m.input.Blur()

		return m, nil, true
	}

	return m, nil, false
}

func (m DayPicker) selectCmd(day time.Time) tea.Cmd {
	return func() tea.Msg { return DaySelectedMsg{Date: day} }
}

func (m DayPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = "\n\n" + errorStyle(fmt.Sprintf("Erro: %v", m.err))
	}

	if m.state == dayPickerStateCustom {
		return fmt.Sprintf("Informe a data:\n\n%s\n\n(Enter confirma, Esc volta)%s", m.input.View(), errStr)
	}

	s := "Selecione o dia:\n\n"
	for d := DayToday; d <= DayCustom; d++ {
		cursor := " "
		if m.selected == d {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, d.String())
	}

	return lipgloss.JoinVertical(lipgloss.Left, s, "(Enter seleciona, Esc volta)"+errStr)
}

// IsSelecting returns true if the picker is in the selection state (not custom input).
func (m DayPicker) IsSelecting() bool {
	return m.state == dayPickerStateSelect
}

// Reset returns the picker to its initial selection state.
func (m *DayPicker) Reset() {
	m.state = dayPickerStateSelect
	m.selected = DayToday
	m.err = nil
	m.input.SetValue("")
	m.input.Blur()
}
