package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const weekdayHeader = "Su  Mo  Tu  We  Th  Fr  Sa "

// Options controls calendar styling.
type Options struct {
	HeaderStyle   lipgloss.Style
	DayStyle      lipgloss.Style
	OtherStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	CursorStyle   lipgloss.Style
	TaskMark      string
	ShowHeader    bool

	// CursorDay highlights that day of the displayed month; 0 disables it.
	CursorDay int
}

func DefaultOptions() Options {
	return Options{
		HeaderStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		DayStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		OtherStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		TodayStyle:    lipgloss.NewStyle().Underline(true).Bold(true),
		SelectedStyle: lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		CursorStyle:   lipgloss.NewStyle().Reverse(true),
		TaskMark:      "•",
		ShowHeader:    true,
	}
}

// PlainOptions renders without styling, for non-terminal output.
func PlainOptions() Options {
	return Options{
		HeaderStyle:   lipgloss.NewStyle(),
		DayStyle:      lipgloss.NewStyle(),
		OtherStyle:    lipgloss.NewStyle(),
		TodayStyle:    lipgloss.NewStyle(),
		SelectedStyle: lipgloss.NewStyle(),
		CursorStyle:   lipgloss.NewStyle(),
		TaskMark:      "*",
		ShowHeader:    true,
	}
}

// Render lays cells out in rows of seven. A short final row is left short.
func Render(cells []DayCell, opts Options) string {
	var lines []string
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render(weekdayHeader))
	}
	for start := 0; start < len(cells); start += 7 {
		end := start + 7
		if end > len(cells) {
			end = len(cells)
		}
		row := make([]string, 0, 7)
		for _, c := range cells[start:end] {
			row = append(row, renderCell(c, opts))
		}
		lines = append(lines, strings.Join(row, " "))
	}
	return strings.Join(lines, "\n")
}

func renderCell(c DayCell, opts Options) string {
	mark := " "
	if c.HasOpenTask {
		mark = opts.TaskMark
	}
	text := fmt.Sprintf("%2d%s", c.Day, mark)
	if c.OtherMonth {
		return opts.OtherStyle.Render(text)
	}
	style := opts.DayStyle
	if c.IsToday {
		style = style.Inherit(opts.TodayStyle)
	}
	if c.IsSelected {
		style = opts.SelectedStyle.Inherit(style)
	}
	if opts.CursorDay != 0 && c.Day == opts.CursorDay {
		style = opts.CursorStyle.Inherit(style)
	}
	return style.Render(text)
}
