package app

import (
	"errors"
	"testing"
	"time"

	"dayplan/internal/calendar"
	"dayplan/internal/storage"
	"dayplan/internal/tasks"
)

var now = time.Date(2024, time.March, 7, 10, 15, 0, 0, time.Local)

func newController(t *testing.T, kv storage.KV) *Controller {
	t.Helper()
	clock := FixedClock(now)
	store := tasks.NewStore(kv, "", clock.Now, nil)
	return New(store, clock, nil)
}

func cellFor(t *testing.T, cells []calendar.DayCell, key string) calendar.DayCell {
	t.Helper()
	for _, c := range cells {
		if c.Key == key && !c.OtherMonth {
			return c
		}
	}
	t.Fatalf("no cell for %s", key)
	return calendar.DayCell{}
}

func TestInitialState(t *testing.T) {
	c := newController(t, storage.NewMemory())
	s := c.State()
	if s.Today.Format("2006-01-02 15:04") != "2024-03-07 00:00" {
		t.Errorf("Today = %v", s.Today)
	}
	if s.CurrentMonth.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("CurrentMonth = %v", s.CurrentMonth)
	}
	v := c.View()
	if v.Header != "Today's Tasks" || v.Empty != "All caught up!" || len(v.Tasks) != 0 {
		t.Errorf("View = %+v", v)
	}
	if v.MonthTitle != "March 2024" || v.TodayLong != "Thursday, March 7, 2024" {
		t.Errorf("titles = %q / %q", v.MonthTitle, v.TodayLong)
	}
}

func TestSubmitUsesSelectedDateAndPersists(t *testing.T) {
	kv := storage.NewMemory()
	c := newController(t, kv)
	c.SelectCell(cellFor(t, c.View().Cells, "2024-03-12"))

	task, ok, err := c.Submit("Buy milk")
	if err != nil || !ok {
		t.Fatalf("Submit = %v, %v", ok, err)
	}
	if task.Date != "2024-03-12" {
		t.Errorf("Date = %q", task.Date)
	}
	stored := tasks.NewStore(kv, "", nil, nil).Load()
	if len(stored) != 1 || stored[0] != task {
		t.Fatalf("persisted = %+v", stored)
	}

	v := c.View()
	if !cellFor(t, v.Cells, "2024-03-12").HasOpenTask {
		t.Error("calendar not updated after submit")
	}
	if v.Header != "Tue, Mar 12" || len(v.Tasks) != 1 {
		t.Errorf("list view = %q %+v", v.Header, v.Tasks)
	}
}

func TestSubmitBlankIsSilent(t *testing.T) {
	c := newController(t, storage.NewMemory())
	_, ok, err := c.Submit("   ")
	if ok || err != nil {
		t.Fatalf("Submit blank = %v, %v", ok, err)
	}
	if len(c.Tasks()) != 0 {
		t.Fatal("blank submit created a task")
	}
}

func TestMonthNavigationLeavesSelection(t *testing.T) {
	c := newController(t, storage.NewMemory())
	before := c.State().SelectedDate

	c.NextMonth()
	if got := c.State().CurrentMonth.Format("2006-01-02"); got != "2024-04-01" {
		t.Errorf("NextMonth = %s", got)
	}
	c.PrevMonth()
	c.PrevMonth()
	if got := c.State().CurrentMonth.Format("2006-01-02"); got != "2024-02-01" {
		t.Errorf("PrevMonth = %s", got)
	}
	if !c.State().SelectedDate.Equal(before) {
		t.Error("month navigation changed the selected date")
	}
	if c.View().Header != "Today's Tasks" {
		t.Error("list header changed after navigation")
	}
}

func TestJumpToToday(t *testing.T) {
	c := newController(t, storage.NewMemory())
	c.NextMonth()
	c.NextMonth()
	c.SelectCell(cellFor(t, c.View().Cells, "2024-05-20"))
	c.JumpToToday()
	s := c.State()
	if s.CurrentMonth.Format("2006-01") != "2024-03" || s.SelectedDate.Format("2006-01-02") != "2024-03-07" {
		t.Fatalf("state = %+v", s)
	}
}

func TestSelectCellIgnoresPadding(t *testing.T) {
	c := newController(t, storage.NewMemory())
	cells := c.View().Cells
	if !cells[0].OtherMonth {
		t.Fatal("March 2024 should start with padding")
	}
	if c.SelectCell(cells[0]) {
		t.Fatal("padding cell was selectable")
	}
	if c.State().SelectedDate.Format("2006-01-02") != "2024-03-07" {
		t.Fatal("selection changed")
	}
}

func TestMoveSelectionFollowsMonth(t *testing.T) {
	c := newController(t, storage.NewMemory())
	c.SelectCell(cellFor(t, c.View().Cells, "2024-03-31"))
	c.MoveSelection(1)
	s := c.State()
	if s.SelectedDate.Format("2006-01-02") != "2024-04-01" || s.CurrentMonth.Format("2006-01") != "2024-04" {
		t.Fatalf("state = %+v", s)
	}
	c.MoveSelection(-7)
	if got := c.State().SelectedDate.Format("2006-01-02"); got != "2024-03-25" {
		t.Fatalf("selected = %s", got)
	}
}

func TestToggleAndDeleteUnknownID(t *testing.T) {
	kv := storage.NewMemory()
	c := newController(t, kv)
	if ok, err := c.Toggle(99); ok || err != nil {
		t.Errorf("Toggle unknown = %v, %v", ok, err)
	}
	if ok, err := c.Delete(99); ok || err != nil {
		t.Errorf("Delete unknown = %v, %v", ok, err)
	}
	if _, written, _ := kv.Read(tasks.DefaultSlot); written {
		t.Error("no-op mutation persisted")
	}
}

func TestDeleteUpdatesBothViews(t *testing.T) {
	kv := storage.NewMemory()
	c := newController(t, kv)
	a, _, _ := c.Submit("a")
	b, _, _ := c.Submit("b")

	if ok, err := c.Delete(a.ID); !ok || err != nil {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	v := c.View()
	if len(v.Tasks) != 1 || v.Tasks[0].ID != b.ID {
		t.Fatalf("Tasks = %+v", v.Tasks)
	}
	stored := tasks.NewStore(kv, "", nil, nil).Load()
	if len(stored) != 1 || stored[0].ID != b.ID {
		t.Fatalf("persisted = %+v", stored)
	}
}

func TestSaveFailureKeepsSessionAlive(t *testing.T) {
	kv := storage.NewMemory()
	c := newController(t, kv)
	kv.WriteErr = errors.New("read-only filesystem")

	task, ok, err := c.Submit("unsaved")
	if !ok || !errors.Is(err, ErrNotSaved) || !errors.Is(err, kv.WriteErr) {
		t.Fatalf("Submit = %v, %v", ok, err)
	}
	if len(c.View().Tasks) != 1 {
		t.Fatal("task missing from view after failed save")
	}

	kv.WriteErr = nil
	if _, err := c.Toggle(task.ID); err != nil {
		t.Fatalf("Toggle after recovery: %v", err)
	}
	stored := tasks.NewStore(kv, "", nil, nil).Load()
	if len(stored) != 1 || !stored[0].Completed {
		t.Fatalf("recovered save = %+v", stored)
	}
}

func TestEndToEndCompletedTaskSortsLast(t *testing.T) {
	kv := storage.NewMemory()
	c := newController(t, kv)

	task1, ok, err := c.Submit("Task1")
	if !ok || err != nil {
		t.Fatalf("Submit = %v, %v", ok, err)
	}
	if !cellFor(t, c.View().Cells, "2024-03-07").HasOpenTask {
		t.Fatal("today should show an open-task marker")
	}
	if _, err := c.Toggle(task1.ID); err != nil {
		t.Fatal(err)
	}
	task2, _, _ := c.Submit("Task2")

	v := c.View()
	if cellFor(t, v.Cells, "2024-03-07").IsToday != true {
		t.Fatal("today cell not flagged")
	}
	if len(v.Tasks) != 2 || v.Tasks[0].ID != task2.ID || v.Tasks[1].ID != task1.ID {
		t.Fatalf("Tasks = %+v, want Task2 then Task1", v.Tasks)
	}
	if v.Open != 1 || v.Done != 1 {
		t.Fatalf("counts = %d/%d", v.Open, v.Done)
	}

	c.Delete(task2.ID)
	v = c.View()
	if cellFor(t, v.Cells, "2024-03-07").HasOpenTask {
		t.Fatal("completed-only day should have no open-task marker")
	}
	if len(v.Tasks) != 1 || !v.Tasks[0].Completed {
		t.Fatalf("completed task should still be listed: %+v", v.Tasks)
	}
}

func TestShowMonthKeepsSelection(t *testing.T) {
	c := newController(t, storage.NewMemory())
	c.ShowMonth(time.Date(2023, time.February, 14, 0, 0, 0, 0, time.Local))
	s := c.State()
	if s.CurrentMonth.Format("2006-01-02") != "2023-02-01" || s.SelectedDate.Format("2006-01-02") != "2024-03-07" {
		t.Fatalf("state = %+v", s)
	}
	if n := len(c.View().Cells); n != 3+28 {
		t.Fatalf("February 2023 grid has %d cells, want 31", n)
	}
}
