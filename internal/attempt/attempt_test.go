package attempt

import "testing"

func TestResultTerminal(t *testing.T) {
	tests := []struct {
		result Result
		want   bool
	}{
		{ResultWon, true},
		{ResultLost, true},
		{ResultInProgress, false},
		{ResultNotPlayed, false},
	}

	for _, tt := range tests {
		if got := tt.result.Terminal(); got != tt.want {
			t.Errorf("%q.Terminal() = %t, want %t", tt.result, got, tt.want)
		}
	}
}

func TestCountsTowardStreak(t *testing.T) {
	tests := []struct {
		name    string
		attempt GameAttempt
		want    bool
	}{
		{"won normal day", GameAttempt{Result: ResultWon, StreakDayStatus: StreakDayNormal}, true},
		{"lost normal day", GameAttempt{Result: ResultLost, StreakDayStatus: StreakDayNormal}, false},
		{"lost covered day", GameAttempt{Result: ResultLost, StreakDayStatus: StreakDayCovered}, true},
		{"not played covered day", GameAttempt{Result: ResultNotPlayed, StreakDayStatus: StreakDayCovered}, true},
		{"in progress normal day", GameAttempt{Result: ResultInProgress, StreakDayStatus: StreakDayNormal}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attempt.CountsTowardStreak(); got != tt.want {
				t.Errorf("CountsTowardStreak() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestGameTypeValid(t *testing.T) {
	if !GameTypeUser.Valid() || !GameTypeRegion.Valid() {
		t.Error("known game types should be valid")
	}
	if GameType("GLOBAL").Valid() {
		t.Error("unknown game type should be invalid")
	}
}
