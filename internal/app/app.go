// Package app owns the session state and applies user actions to it.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"dayplan/internal/calendar"
	"dayplan/internal/datekey"
	"dayplan/internal/logging"
	"dayplan/internal/tasklist"
	"dayplan/internal/tasks"
)

// ErrNotSaved wraps storage failures. The in-memory change has been applied
// and will be written with the next successful save.
var ErrNotSaved = errors.New("changes not saved")

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// State is the transient session state. It is never persisted.
type State struct {
	Today        time.Time
	CurrentMonth time.Time
	SelectedDate time.Time
}

// View is everything a presentation layer needs for one render.
type View struct {
	MonthTitle string
	TodayLong  string
	Cells      []calendar.DayCell
	Header     string
	Tasks      []tasks.Task
	Empty      string
	Open       int
	Done       int
}

type Controller struct {
	store  *tasks.Store
	state  State
	logger *log.Logger
}

// New loads the store and starts a session on the clock's current day.
func New(store *tasks.Store, clock Clock, logger *log.Logger) *Controller {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	today := datekey.Midnight(clock.Now())
	store.Load()
	return &Controller{
		store:  store,
		logger: logger,
		state: State{
			Today:        today,
			CurrentMonth: datekey.MonthStart(today),
			SelectedDate: today,
		},
	}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Tasks() []tasks.Task {
	return c.store.Tasks()
}

// Submit adds text on the selected date. Blank text is ignored and reports
// false with a nil error.
func (c *Controller) Submit(text string) (tasks.Task, bool, error) {
	t, ok := c.store.Add(text, datekey.Format(c.state.SelectedDate))
	if !ok {
		return tasks.Task{}, false, nil
	}
	c.logger.Debug("task added", "id", t.ID, "date", t.Date)
	return t, true, c.save("add")
}

func (c *Controller) Toggle(id int64) (bool, error) {
	if !c.store.Toggle(id) {
		return false, nil
	}
	return true, c.save("toggle")
}

func (c *Controller) Delete(id int64) (bool, error) {
	if !c.store.Delete(id) {
		return false, nil
	}
	return true, c.save("delete")
}

func (c *Controller) PrevMonth() {
	c.state.CurrentMonth = calendar.ShiftMonth(c.state.CurrentMonth, -1)
}

func (c *Controller) NextMonth() {
	c.state.CurrentMonth = calendar.ShiftMonth(c.state.CurrentMonth, 1)
}

// ShowMonth displays t's month without changing the selection.
func (c *Controller) ShowMonth(t time.Time) {
	c.state.CurrentMonth = datekey.MonthStart(t)
}

func (c *Controller) JumpToToday() {
	c.state.CurrentMonth = datekey.MonthStart(c.state.Today)
	c.state.SelectedDate = c.state.Today
}

// SelectCell selects a day of the displayed month. Padding cells are ignored.
func (c *Controller) SelectCell(cell calendar.DayCell) bool {
	if !cell.Selectable() {
		return false
	}
	c.state.SelectedDate = datekey.Midnight(cell.Date)
	return true
}

// SelectDate selects any day and shows its month.
func (c *Controller) SelectDate(t time.Time) {
	c.state.SelectedDate = datekey.Midnight(t)
	c.state.CurrentMonth = datekey.MonthStart(t)
}

// MoveSelection shifts the selected date by days, following it into the
// adjacent month when needed.
func (c *Controller) MoveSelection(days int) {
	c.SelectDate(c.state.SelectedDate.AddDate(0, 0, days))
}

// View recomputes both views from the current store and state.
func (c *Controller) View() View {
	all := c.store.Tasks()
	s := c.state
	open, done := tasklist.Counts(all, s.SelectedDate)
	return View{
		MonthTitle: calendar.Title(s.CurrentMonth),
		TodayLong:  s.Today.Format("Monday, January 2, 2006"),
		Cells:      calendar.Grid(s.CurrentMonth, s.Today, s.SelectedDate, all),
		Header:     tasklist.Header(s.SelectedDate, s.Today),
		Tasks:      tasklist.Visible(all, s.SelectedDate),
		Empty:      tasklist.EmptyMessage(s.SelectedDate, s.Today),
		Open:       open,
		Done:       done,
	}
}

func (c *Controller) save(action string) error {
	if err := c.store.Persist(); err != nil {
		c.logger.Warn("save failed", "action", action, "err", err)
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	return nil
}
