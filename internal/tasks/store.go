package tasks

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"dayplan/internal/datekey"
	"dayplan/internal/storage"
)

const DefaultSlot = "my_todos"

type Store struct {
	kv     storage.KV
	slot   string
	now    func() time.Time
	logger *log.Logger
	tasks  []Task
	lastID int64
}

func NewStore(kv storage.KV, slot string, now func() time.Time, logger *log.Logger) *Store {
	if slot == "" {
		slot = DefaultSlot
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{kv: kv, slot: slot, now: now, logger: logger}
}

// Load replaces the in-memory collection with the persisted one. Missing or
// unreadable data yields an empty collection. Records without a date are
// assigned today's key and written back once; other dates are kept as stored.
func (s *Store) Load() []Task {
	s.tasks = nil
	s.lastID = 0

	data, ok, err := s.kv.Read(s.slot)
	if err != nil {
		s.logger.Warn("read tasks failed, starting empty", "slot", s.slot, "err", err)
		return s.Tasks()
	}
	if !ok || len(data) == 0 {
		return s.Tasks()
	}
	list, rejected, err := Decode(data)
	if err != nil {
		s.logger.Warn("stored tasks unreadable, starting empty", "slot", s.slot, "err", err)
		return s.Tasks()
	}
	for _, err := range rejected {
		s.logger.Warn("dropping malformed task", "slot", s.slot, "err", err)
	}

	today := datekey.Format(s.now())
	seen := make(map[int64]struct{}, len(list))
	backfilled := 0
	for _, t := range list {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			s.logger.Warn("dropping task with empty text", "id", t.ID)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			s.logger.Warn("dropping task with duplicate id", "id", t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		switch {
		case t.Date == "":
			t.Date = today
			backfilled++
		case !datekey.Valid(t.Date):
			s.logger.Warn("keeping task with non-canonical date", "id", t.ID, "date", t.Date)
		}
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
		s.tasks = append(s.tasks, t)
	}

	if backfilled > 0 {
		s.logger.Info("assigned today's date to undated tasks", "count", backfilled, "date", today)
		if err := s.Persist(); err != nil {
			s.logger.Warn("saving backfilled dates failed", "err", err)
		}
	}
	return s.Tasks()
}

// Add appends a task on date. It reports false, creating nothing, when the
// trimmed text is empty or date is not a valid key.
func (s *Store) Add(text, date string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !datekey.Valid(date) {
		return Task{}, false
	}
	t := Task{
		ID:   s.nextID(),
		Text: text,
		Date: date,
	}
	s.tasks = append(s.tasks, t)
	return t, true
}

func (s *Store) Toggle(id int64) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			return true
		}
	}
	return false
}

func (s *Store) Delete(id int64) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Get(id int64) (Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Persist overwrites the slot with the whole collection.
func (s *Store) Persist() error {
	data, err := Encode(s.tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.kv.Write(s.slot, data); err != nil {
		return fmt.Errorf("write %s: %w", s.slot, err)
	}
	return nil
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Len() int {
	return len(s.tasks)
}

// nextID is the current time in milliseconds, bumped past the largest id
// already handed out.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
