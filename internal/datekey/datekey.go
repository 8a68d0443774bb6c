// Package datekey converts calendar days to their canonical YYYY-MM-DD key.
package datekey

import (
	"errors"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

var ErrMalformed = errors.New("malformed date key")

// Format returns the key of t's calendar day in t's own location.
// The time of day is ignored.
func Format(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// Parse returns local midnight of the day named by key.
func Parse(key string) (time.Time, error) {
	if len(key) != len(Layout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, key)
	}
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, key)
	}
	return t, nil
}

func Valid(key string) bool {
	_, err := Parse(key)
	return err == nil
}

func Same(a, b time.Time) bool {
	return Format(a) == Format(b)
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthStart returns the first day of t's month at midnight.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
