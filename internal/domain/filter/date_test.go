package filter

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateWindow(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, loc) }

	tests := []struct {
		name     string
		query    string
		wantNil  bool
		wantFrom *time.Time
		wantTo   *time.Time
	}{
		{name: "nothing set", query: "", wantNil: true},
		{
			name:     "exact covers one day",
			query:    "dateExact=2024-05-10",
			wantFrom: ptr(day(2024, 5, 10)),
			wantTo:   ptr(day(2024, 5, 11)),
		},
		{
			name:     "exact wins over range",
			query:    "dateExact=2024-05-10&dateAfter=2024-01-01&dateBefore=2024-12-31",
			wantFrom: ptr(day(2024, 5, 10)),
			wantTo:   ptr(day(2024, 5, 11)),
		},
		{
			name:   "before includes the whole day",
			query:  "dateBefore=2024-05-10",
			wantTo: ptr(day(2024, 5, 11)),
		},
		{
			name:     "after starts at midnight",
			query:    "dateAfter=2024-05-10",
			wantFrom: ptr(day(2024, 5, 10)),
		},
		{
			name:     "before and after combined",
			query:    "dateAfter=2024-05-01&dateBefore=2024-05-31",
			wantFrom: ptr(day(2024, 5, 1)),
			wantTo:   ptr(day(2024, 6, 1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, _ := url.ParseQuery(tt.query)
			w, err := ParseDateWindow(params, "date", "created_at", loc)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, w)
				return
			}
			require.NotNil(t, w)
			assert.Equal(t, "created_at", w.Column)

			from, to := w.Bounds()
			assertTimePtr(t, tt.wantFrom, from)
			assertTimePtr(t, tt.wantTo, to)
		})
	}
}

func TestParseDateWindow_Invalid(t *testing.T) {
	params, _ := url.ParseQuery("passiveDateExact=yesterday")
	_, err := ParseDateWindow(params, "passiveDate", "sold_at", time.UTC)
	assert.Error(t, err)
}

func TestParseDay_RFC3339UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	// 22:30 UTC is already the next day in Istanbul (UTC+3).
	got, err := ParseDay("2024-05-10T22:30:00Z", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 5, 11, 0, 0, 0, 0, loc)))
}

func ptr(t time.Time) *time.Time { return &t }

func assertTimePtr(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %v, got %v", *want, *got)
}
