package leaderboard

import "testing"

func TestPercentile(t *testing.T) {
	tests := []struct {
		position int
		total    int
		want     float64
	}{
		{1, 100, 1},
		{50, 100, 50},
		{100, 100, 100},
		{1, 1, 100},
		{1, 4, 25},
		{0, 100, 0},
		{5, 0, 0},
		{-1, 10, 0},
	}

	for _, tt := range tests {
		if got := Percentile(tt.position, tt.total); got != tt.want {
			t.Errorf("Percentile(%d, %d) = %v, want %v", tt.position, tt.total, got, tt.want)
		}
	}
}
