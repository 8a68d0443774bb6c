// Package calendar computes and renders month grids.
package calendar

import (
	"time"

	"dayplan/internal/datekey"
	"dayplan/internal/tasks"
)

// DayCell is one unit of the month grid. Padding cells from the previous
// month have OtherMonth set and never carry the today, selected or task flags.
type DayCell struct {
	Day         int
	Date        time.Time
	Key         string
	OtherMonth  bool
	IsToday     bool
	IsSelected  bool
	HasOpenTask bool
}

// Selectable reports whether choosing the cell should change the selected date.
func (c DayCell) Selectable() bool {
	return !c.OtherMonth
}

// Grid lays out month as leading padding from the previous month followed
// by every day of month. The day of month is ignored. The grid stops after
// the last day; it is not filled out to whole weeks.
func Grid(month, today, selected time.Time, list []tasks.Task) []DayCell {
	first := datekey.MonthStart(month)
	offset := int(first.Weekday())
	daysInMonth := DaysIn(first)
	daysInPrev := time.Date(first.Year(), first.Month(), 0, 0, 0, 0, 0, first.Location()).Day()

	open := make(map[string]bool)
	for _, t := range list {
		if !t.Completed {
			open[t.Date] = true
		}
	}
	todayKey := datekey.Format(today)
	selectedKey := datekey.Format(selected)

	cells := make([]DayCell, 0, offset+daysInMonth)
	for i := offset; i > 0; i-- {
		d := first.AddDate(0, 0, -i)
		cells = append(cells, DayCell{
			Day:        daysInPrev - i + 1,
			Date:       d,
			Key:        datekey.Format(d),
			OtherMonth: true,
		})
	}
	for day := 1; day <= daysInMonth; day++ {
		d := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, first.Location())
		key := datekey.Format(d)
		cells = append(cells, DayCell{
			Day:         day,
			Date:        d,
			Key:         key,
			IsToday:     key == todayKey,
			IsSelected:  key == selectedKey,
			HasOpenTask: open[key],
		})
	}
	return cells
}

// DaysIn returns the number of days in month, taken as day 0 of the
// following month.
func DaysIn(month time.Time) int {
	return time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, month.Location()).Day()
}

func Title(month time.Time) string {
	return month.Format("January 2006")
}

// ShiftMonth moves month by delta months and normalizes to the 1st.
func ShiftMonth(month time.Time, delta int) time.Time {
	return time.Date(month.Year(), month.Month()+time.Month(delta), 1, 0, 0, 0, 0, month.Location())
}
