package holiday

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testPeriod() *Period {
	return &Period{
		StartDate: date(2026, 3, 10),
		EndDate:   date(2026, 3, 17), // 7 day window
	}
}

func TestPeriodCovers(t *testing.T) {
	p := testPeriod()

	tests := []struct {
		day  time.Time
		want bool
	}{
		{date(2026, 3, 9), false},
		{date(2026, 3, 10), true},  // start day counts
		{date(2026, 3, 16), true},  // last day inside
		{date(2026, 3, 17), false}, // end date is exclusive
		{date(2026, 3, 20), false},
	}

	for _, tt := range tests {
		if got := p.Covers(tt.day); got != tt.want {
			t.Errorf("Covers(%s) = %t, want %t", tt.day.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestPeriodDaysElapsed(t *testing.T) {
	p := testPeriod()

	tests := []struct {
		today time.Time
		want  int
	}{
		{date(2026, 3, 9), 0},
		{date(2026, 3, 10), 1},
		{date(2026, 3, 13), 4},
		{date(2026, 3, 16), 7},
		{date(2026, 3, 25), 7}, // capped at window length
	}

	for _, tt := range tests {
		if got := p.DaysElapsed(tt.today); got != tt.want {
			t.Errorf("DaysElapsed(%s) = %d, want %d", tt.today.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestPeriodDurationDays(t *testing.T) {
	if got := testPeriod().DurationDays(); got != 7 {
		t.Errorf("DurationDays() = %d, want 7", got)
	}
}
