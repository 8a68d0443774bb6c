// Package tasklist derives the per-day task list shown next to the calendar.
package tasklist

import (
	"sort"
	"time"

	"dayplan/internal/datekey"
	"dayplan/internal/tasks"
)

const (
	TodayHeader   = "Today's Tasks"
	EmptyToday    = "All caught up!"
	EmptyOtherDay = "No tasks planned"
)

// Visible returns the tasks on selected's day, open tasks first. Insertion
// order is kept within each group.
func Visible(list []tasks.Task, selected time.Time) []tasks.Task {
	key := datekey.Format(selected)
	out := make([]tasks.Task, 0, len(list))
	for _, t := range list {
		if t.Date == key {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Completed && out[j].Completed
	})
	return out
}

func Header(selected, today time.Time) string {
	if datekey.Same(selected, today) {
		return TodayHeader
	}
	return selected.Format("Mon, Jan 2")
}

func EmptyMessage(selected, today time.Time) string {
	if datekey.Same(selected, today) {
		return EmptyToday
	}
	return EmptyOtherDay
}

// Counts returns the number of open and completed tasks on selected's day.
func Counts(list []tasks.Task, selected time.Time) (open, done int) {
	key := datekey.Format(selected)
	for _, t := range list {
		if t.Date != key {
			continue
		}
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}
