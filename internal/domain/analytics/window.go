package analytics

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/domain/filter"
)

// Period names accepted by filterPeriod.
const (
	PeriodAll       = "allTime"
	PeriodDaily     = "daily"
	PeriodWeekly    = "weekly"
	PeriodMonthly   = "monthly"
	PeriodSixMonths = "6months"
	PeriodYearly    = "yearly"
)

// Window is the half-open interval [From, To). A nil side is unbounded.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside w.
func (w Window) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && !t.Before(*w.To) {
		return false
	}
	return true
}

// PeriodStart returns the start of period relative to now. Daily, weekly,
// monthly and yearly are calendar aligned in loc with weeks starting on
// Monday; 6months is rolling. PeriodAll and "" return nil.
func PeriodStart(period string, now time.Time, loc *time.Location) (*time.Time, error) {
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var start time.Time
	switch period {
	case "", PeriodAll:
		return nil, nil
	case PeriodDaily:
		start = today
	case PeriodWeekly:
		sinceMonday := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -sinceMonday)
	case PeriodMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	case PeriodSixMonths:
		start = today.AddDate(0, -6, 0)
	case PeriodYearly:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
	default:
		return nil, apperror.NewValidation("Invalid filter period").WithDetail("filterPeriod", period)
	}
	return &start, nil
}

// ParseWindow reads filterPeriod, startDate and endDate. startDate
// overrides the period start; endDate is inclusive.
func ParseWindow(params url.Values, now time.Time, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	var w Window

	from, err := PeriodStart(strings.TrimSpace(params.Get("filterPeriod")), now, loc)
	if err != nil {
		return w, err
	}
	w.From = from

	if raw := strings.TrimSpace(params.Get("startDate")); raw != "" {
		day, err := filter.ParseDay(raw, loc)
		if err != nil {
			return w, apperror.NewValidation(fmt.Sprintf("startDate: %v", err))
		}
		w.From = &day
	}
	if raw := strings.TrimSpace(params.Get("endDate")); raw != "" {
		day, err := filter.ParseDay(raw, loc)
		if err != nil {
			return w, apperror.NewValidation(fmt.Sprintf("endDate: %v", err))
		}
		end := day.AddDate(0, 0, 1)
		w.To = &end
	}

	if w.From != nil && w.To != nil && !w.From.Before(*w.To) {
		return w, apperror.NewValidation("startDate must not be after endDate")
	}
	return w, nil
}
