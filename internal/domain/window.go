package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for dates in flags, filenames and search queries.
const DateLayout = "2006-01-02"

// Window is an inclusive date range over which activity is measured.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow builds a window of the given number of days ending on end.
// A zero end anchors the window to the current date.
func NewWindow(days int, end time.Time) (Window, error) {
	if days <= 0 {
		return Window{}, fmt.Errorf("window must cover at least one day, got %d", days)
	}
	if end.IsZero() {
		end = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return Window{Start: end.AddDate(0, 0, -days), End: end}, nil
}

// ParseWindow builds a window of days ending on the given YYYY-MM-DD date.
// An empty endDate anchors the window to today.
func ParseWindow(days int, endDate string) (Window, error) {
	if endDate == "" {
		return NewWindow(days, time.Time{})
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return Window{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", endDate, err)
	}
	return NewWindow(days, end)
}

// Contains reports whether t falls inside the window, bounds included.
// The end bound is extended to the last instant of its day so that
// timestamps on the end date itself are kept.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	return !t.After(w.End.AddDate(0, 0, 1).Add(-time.Nanosecond))
}

// Days returns the number of days the window spans.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

func (w Window) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}
