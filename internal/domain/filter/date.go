package filter

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"stockscope/internal/core/apperror"
)

// DateMode selects how a DateWindow is interpreted.
type DateMode string

const (
	DateExact DateMode = "exact"
	DateRange DateMode = "range"
)

// DateWindow restricts a timestamp column to calendar days. Days are
// midnight values in the configured location.
type DateWindow struct {
	Column string
	Mode   DateMode
	Day    time.Time
	Before *time.Time
	After  *time.Time
}

// Bounds returns the half-open interval [from, to) covered by the window.
// A nil side is unbounded.
func (w DateWindow) Bounds() (from, to *time.Time) {
	if w.Mode == DateExact {
		start := w.Day
		end := w.Day.AddDate(0, 0, 1)
		return &start, &end
	}
	if w.After != nil {
		start := *w.After
		from = &start
	}
	if w.Before != nil {
		end := w.Before.AddDate(0, 0, 1)
		to = &end
	}
	return from, to
}

var dayLayouts = []string{time.DateOnly, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// ParseDay reads s as a calendar day in loc and returns its midnight.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseDateWindow reads <prefix>Exact, <prefix>Before and <prefix>After.
// Exact wins over the range parameters. It returns nil when none is set.
func ParseDateWindow(params url.Values, prefix, column string, loc *time.Location) (*DateWindow, error) {
	day := func(key string) (*time.Time, error) {
		raw := params.Get(key)
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		t, err := ParseDay(raw, loc)
		if err != nil {
			return nil, apperror.NewValidation(fmt.Sprintf("%s: %v", key, err))
		}
		return &t, nil
	}

	exact, err := day(prefix + "Exact")
	if err != nil {
		return nil, err
	}
	if exact != nil {
		return &DateWindow{Column: column, Mode: DateExact, Day: *exact}, nil
	}

	before, err := day(prefix + "Before")
	if err != nil {
		return nil, err
	}
	after, err := day(prefix + "After")
	if err != nil {
		return nil, err
	}
	if before == nil && after == nil {
		return nil, nil
	}
	return &DateWindow{Column: column, Mode: DateRange, Before: before, After: after}, nil
}
