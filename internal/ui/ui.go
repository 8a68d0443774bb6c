package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"dayplan/internal/app"
	"dayplan/internal/calendar"
	"dayplan/internal/config"
	"dayplan/internal/logging"
	"dayplan/internal/tasks"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

type focus int

const (
	focusList focus = iota
	focusCalendar
)

const removeFlash = 300 * time.Millisecond

type clearRemovedMsg struct{}

type Model struct {
	ctrl       *app.Controller
	cfg        config.Config
	logger     *log.Logger
	cursor     int
	calCursor  int
	mode       mode
	focus      focus
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *tasks.Task
	removed    string
}

func New(ctrl *app.Controller, cfg config.Config, logger *log.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		ctrl:      ctrl,
		cfg:       cfg,
		logger:    logger,
		calCursor: ctrl.State().SelectedDate.Day(),
		status:    "Press 'a' to add, space to toggle, 'd' to delete, tab for calendar.",
		input:     ti,
		mode:      modeList,
		focus:     focusList,
	}
}

func Run(ctrl *app.Controller, cfg config.Config, logger *log.Logger) error {
	program := tea.NewProgram(New(ctrl, cfg, logger), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	case clearRemovedMsg:
		m.removed = ""
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.mode == modeAdd {
		return m.updateAddMode(key, msg)
	}
	return m.updateListMode(key)
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Tasks"
		return m, nil
	case m.cfg.Keys.Confirm:
		t, ok, err := m.ctrl.Submit(m.input.Value())
		m.input.SetValue("")
		if !ok {
			return m, nil
		}
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
		} else {
			m.status = "Added task, keep typing or esc to finish"
		}
		m.cursor = m.indexOf(t.ID)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Focus:
		if m.focus == focusList {
			m.focus = focusCalendar
			m.status = "Calendar: move with arrows, enter to select"
		} else {
			m.focus = focusList
			m.status = "Tasks"
		}
		return m, nil
	case m.cfg.Keys.PrevMonth:
		m.ctrl.PrevMonth()
		m.calCursor = clampDay(m.calCursor, m.ctrl.State().CurrentMonth)
		return m, nil
	case m.cfg.Keys.NextMonth:
		m.ctrl.NextMonth()
		m.calCursor = clampDay(m.calCursor, m.ctrl.State().CurrentMonth)
		return m, nil
	case m.cfg.Keys.Today:
		m.ctrl.JumpToToday()
		m.calCursor = m.ctrl.State().Today.Day()
		m.cursor = 0
		m.status = "Jumped to today"
		return m, nil
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.Focus()
		m.status = "Add mode: type a title and press Enter"
		return m, nil
	}
	if m.focus == focusCalendar {
		return m.updateCalendarFocus(key)
	}
	return m.updateTaskFocus(key)
}

func (m Model) updateCalendarFocus(key string) (tea.Model, tea.Cmd) {
	month := m.ctrl.State().CurrentMonth
	switch key {
	case m.cfg.Keys.Left, "left":
		m.calCursor = clampDay(m.calCursor-1, month)
	case m.cfg.Keys.Right, "right":
		m.calCursor = clampDay(m.calCursor+1, month)
	case m.cfg.Keys.Up, "up":
		m.calCursor = clampDay(m.calCursor-7, month)
	case m.cfg.Keys.Down, "down":
		m.calCursor = clampDay(m.calCursor+7, month)
	case m.cfg.Keys.Confirm:
		for _, cell := range m.ctrl.View().Cells {
			if !cell.OtherMonth && cell.Day == m.calCursor {
				if m.ctrl.SelectCell(cell) {
					m.cursor = 0
					m.status = "Selected " + cell.Key
				}
				break
			}
		}
	}
	return m, nil
}

func (m Model) updateTaskFocus(key string) (tea.Model, tea.Cmd) {
	visible := m.ctrl.View().Tasks
	switch key {
	case m.cfg.Keys.Down, "down":
		if len(visible) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(visible))
		}
	case m.cfg.Keys.Left, "left":
		m.ctrl.MoveSelection(-1)
		m.calCursor = m.ctrl.State().SelectedDate.Day()
		m.cursor = 0
	case m.cfg.Keys.Right, "right":
		m.ctrl.MoveSelection(1)
		m.calCursor = m.ctrl.State().SelectedDate.Day()
		m.cursor = 0
	case m.cfg.Keys.Toggle:
		if len(visible) == 0 {
			return m, nil
		}
		task := visible[clampCursor(m.cursor, len(visible))]
		if _, err := m.ctrl.Toggle(task.ID); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
		} else {
			m.status = "Toggled task"
		}
		m.cursor = m.indexOf(task.ID)
	case m.cfg.Keys.Delete:
		if len(visible) == 0 {
			return m, nil
		}
		t := visible[clampCursor(m.cursor, len(visible))]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Text)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		text := m.pendingDel.Text
		m.logger.Debug("delete confirmed", "id", m.pendingDel.ID)
		_, err := m.ctrl.Delete(m.pendingDel.ID)
		if err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
		} else {
			m.status = "Deleted task"
		}
		m.cursor = clampCursor(m.cursor, len(m.ctrl.View().Tasks))
		m.confirmDel = false
		m.pendingDel = nil
		m.removed = text
		return m, tea.Tick(removeFlash, func(time.Time) tea.Msg { return clearRemovedMsg{} })
	default:
		return m, nil
	}
}

func (m Model) View() string {
	v := m.ctrl.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render("dayplan"))
	b.WriteString("  ")
	b.WriteString(v.TodayLong)
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.panel(m.focus == focusCalendar).Render(m.renderCalendar(v)),
		m.panel(m.focus == focusList).Render(m.renderTaskList(v)),
	))
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString("Add Task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderCalendar(v app.View) string {
	opts := calendar.DefaultOptions()
	if m.focus == focusCalendar {
		opts.CursorDay = m.calCursor
	}
	return headerStyle.Render(v.MonthTitle) + "\n" + calendar.Render(v.Cells, opts)
}

func (m Model) renderTaskList(v app.View) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(v.Header))
	b.WriteString(fmt.Sprintf("  %d open, %d done\n", v.Open, v.Done))

	if len(v.Tasks) == 0 {
		b.WriteString(emptyStyle.Render(v.Empty))
		b.WriteString("\n")
	}
	for i, t := range v.Tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeList && m.focus == focusList {
			cursor = ">"
		}
		checkbox := "[ ]"
		text := t.Text
		if t.Completed {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, text))
	}
	if m.removed != "" {
		b.WriteString(removedStyle.Render("  - " + m.removed))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) panel(active bool) lipgloss.Style {
	if active {
		return activePanelStyle
	}
	return panelStyle
}

func (m Model) indexOf(id int64) int {
	visible := m.ctrl.View().Tasks
	for i, t := range visible {
		if t.ID == id {
			return i
		}
	}
	return clampCursor(m.cursor, len(visible))
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s/%s month • %s today • %s calendar • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Delete, k.PrevMonth, k.NextMonth, k.Today, k.Focus, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func clampDay(day int, month time.Time) int {
	n := calendar.DaysIn(month)
	if day < 1 {
		return 1
	}
	if day > n {
		return n
	}
	return day
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
