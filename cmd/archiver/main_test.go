package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextRun(t *testing.T) {
	loc := time.FixedZone("TRT", 3*60*60)

	tests := []struct {
		name   string
		now    time.Time
		offset time.Duration
		want   time.Time
	}{
		{
			name:   "later today",
			now:    time.Date(2024, 5, 10, 1, 0, 0, 0, loc),
			offset: 2*time.Hour + 30*time.Minute,
			want:   time.Date(2024, 5, 10, 2, 30, 0, 0, loc),
		},
		{
			name:   "already passed",
			now:    time.Date(2024, 5, 10, 3, 0, 0, 0, loc),
			offset: 2*time.Hour + 30*time.Minute,
			want:   time.Date(2024, 5, 11, 2, 30, 0, 0, loc),
		},
		{
			name:   "exactly now moves to tomorrow",
			now:    time.Date(2024, 5, 10, 0, 0, 0, 0, loc),
			offset: 0,
			want:   time.Date(2024, 5, 11, 0, 0, 0, 0, loc),
		},
		{
			name:   "utc input converted to zone",
			now:    time.Date(2024, 5, 9, 22, 0, 0, 0, time.UTC),
			offset: 0,
			want:   time.Date(2024, 5, 11, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(nextRun(tt.now, loc, tt.offset)), "got %s", nextRun(tt.now, loc, tt.offset))
		})
	}
}
