package cache

import (
	"testing"
	"time"
)

func TestTimeUntilNextRefresh(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"before refresh", time.Date(2024, 5, 1, 6, 30, 0, 0, loc), 90 * time.Minute},
		{"after refresh", time.Date(2024, 5, 1, 9, 0, 0, 0, loc), 23 * time.Hour},
		{"exactly at refresh", time.Date(2024, 5, 1, 8, 0, 0, 0, loc), 24 * time.Hour},
		{"utc input is converted", time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC), 1 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TimeUntilNextRefresh(tt.now, RefreshHour, loc); got != tt.want {
				t.Errorf("TimeUntilNextRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeUntilNext8AM_AlwaysPositive(t *testing.T) {
	t.Parallel()

	for i := 0; i < 10; i++ {
		duration := TimeUntilNext8AM()
		if duration <= 0 || duration > 24*time.Hour {
			t.Errorf("iteration %d: duration out of range: %v", i, duration)
		}
	}
}
