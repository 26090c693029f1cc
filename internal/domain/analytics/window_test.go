package analytics

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/core/apperror"
)

// Thursday.
var now = time.Date(2024, 5, 16, 14, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		period string
		want   *time.Time
	}{
		{period: "", want: nil},
		{period: PeriodAll, want: nil},
		{period: PeriodDaily, want: ptr(day(2024, 5, 16))},
		{period: PeriodWeekly, want: ptr(day(2024, 5, 13))},
		{period: PeriodMonthly, want: ptr(day(2024, 5, 1))},
		{period: PeriodSixMonths, want: ptr(day(2023, 11, 16))},
		{period: PeriodYearly, want: ptr(day(2024, 1, 1))},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := PeriodStart(tt.period, now, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodStart_WeekStartsOnMonday(t *testing.T) {
	sunday := time.Date(2024, 5, 19, 23, 0, 0, 0, time.UTC)

	got, err := PeriodStart(PeriodWeekly, sunday, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, day(2024, 5, 13), *got)
}

func TestPeriodStart_Invalid(t *testing.T) {
	_, err := PeriodStart("fortnightly", now, time.UTC)

	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name     string
		params   url.Values
		wantFrom *time.Time
		wantTo   *time.Time
		wantErr  bool
	}{
		{
			name:   "no parameters is unbounded",
			params: url.Values{},
		},
		{
			name:     "period only",
			params:   url.Values{"filterPeriod": {"monthly"}},
			wantFrom: ptr(day(2024, 5, 1)),
		},
		{
			name:     "end date is inclusive",
			params:   url.Values{"startDate": {"2024-02-01"}, "endDate": {"2024-02-29"}},
			wantFrom: ptr(day(2024, 2, 1)),
			wantTo:   ptr(day(2024, 3, 1)),
		},
		{
			name:     "start date overrides period",
			params:   url.Values{"filterPeriod": {"yearly"}, "startDate": {"2024-03-10"}},
			wantFrom: ptr(day(2024, 3, 10)),
		},
		{
			name:    "start after end",
			params:  url.Values{"startDate": {"2024-03-10"}, "endDate": {"2024-03-01"}},
			wantErr: true,
		},
		{
			name:    "bad date",
			params:  url.Values{"endDate": {"soon"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseWindow(tt.params, now, time.UTC)
			if tt.wantErr {
				assert.True(t, apperror.Is(err, apperror.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, w.From)
			assert.Equal(t, tt.wantTo, w.To)
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	w := Window{From: ptr(day(2024, 5, 1)), To: ptr(day(2024, 5, 2))}

	assert.True(t, w.Contains(day(2024, 5, 1)))
	assert.True(t, w.Contains(day(2024, 5, 1).Add(23*time.Hour)))
	assert.False(t, w.Contains(day(2024, 5, 2)))
	assert.False(t, w.Contains(day(2024, 4, 30)))
	assert.True(t, Window{}.Contains(now))
}

func ptr[T any](v T) *T { return &v }
