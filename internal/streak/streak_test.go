package streak

import (
	"testing"
	"time"

	"elementleAPI/internal/attempt"
)

var testToday = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

// day builds an attempt n days before the fixed test date. n=0 is
// today, n=1 yesterday.
func day(n int, result attempt.Result, status int) attempt.GameAttempt {
	return attempt.GameAttempt{
		PuzzleDate:      DateOnly(testToday).AddDate(0, 0, -n),
		Result:          result,
		StreakDayStatus: status,
	}
}

func won(n int) attempt.GameAttempt {
	return day(n, attempt.ResultWon, attempt.StreakDayNormal)
}

func covered(n int) attempt.GameAttempt {
	return day(n, attempt.ResultNotPlayed, attempt.StreakDayCovered)
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, testToday)
	if s.CurrentStreak != 0 || s.MaxStreak != 0 {
		t.Errorf("expected zero streaks, got %+v", s)
	}
	if !s.MissedYesterday {
		t.Error("empty ledger should report a missed yesterday")
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name            string
		attempts        []attempt.GameAttempt
		wantCurrent     int
		wantMax         int
		wantMissedYest  bool
	}{
		{
			name:           "won today only",
			attempts:       []attempt.GameAttempt{won(0)},
			wantCurrent:    1,
			wantMax:        1,
			wantMissedYest: true,
		},
		{
			name:           "three day run ending today",
			attempts:       []attempt.GameAttempt{won(0), won(1), won(2)},
			wantCurrent:    3,
			wantMax:        3,
			wantMissedYest: false,
		},
		{
			name:           "run ending yesterday, today not played",
			attempts:       []attempt.GameAttempt{won(1), won(2), won(3)},
			wantCurrent:    3,
			wantMax:        3,
			wantMissedYest: false,
		},
		{
			name:           "today in progress keeps streak alive",
			attempts:       []attempt.GameAttempt{day(0, attempt.ResultInProgress, attempt.StreakDayNormal), won(1), won(2)},
			wantCurrent:    2,
			wantMax:        2,
			wantMissedYest: false,
		},
		{
			name:           "loss today breaks streak",
			attempts:       []attempt.GameAttempt{day(0, attempt.ResultLost, attempt.StreakDayNormal), won(1), won(2)},
			wantCurrent:    0,
			wantMax:        2,
			wantMissedYest: false,
		},
		{
			name:           "loss yesterday breaks streak and offers no bridge",
			attempts:       []attempt.GameAttempt{day(1, attempt.ResultLost, attempt.StreakDayNormal), won(2), won(3)},
			wantCurrent:    0,
			wantMax:        2,
			wantMissedYest: true,
		},
		{
			name:           "yesterday in progress is skipped, run behind it survives",
			attempts:       []attempt.GameAttempt{day(1, attempt.ResultInProgress, attempt.StreakDayNormal), won(2), won(3)},
			wantCurrent:    2,
			wantMax:        2,
			wantMissedYest: false,
		},
		{
			name: "in progress mid-history is skipped",
			attempts: []attempt.GameAttempt{
				won(0), won(1), day(2, attempt.ResultInProgress, attempt.StreakDayNormal), won(3),
			},
			wantCurrent:    3,
			wantMax:        3,
			wantMissedYest: false,
		},
		{
			name: "holiday coverage bridges a gap",
			attempts: []attempt.GameAttempt{
				won(0), covered(1), covered(2), won(3), won(4),
			},
			wantCurrent:    5,
			wantMax:        5,
			wantMissedYest: false,
		},
		{
			name: "covered loss still counts",
			attempts: []attempt.GameAttempt{
				won(0), day(1, attempt.ResultLost, attempt.StreakDayCovered), won(2),
			},
			wantCurrent:    3,
			wantMax:        3,
			wantMissedYest: false,
		},
		{
			name: "max streak survives a later break",
			attempts: []attempt.GameAttempt{
				won(1), won(2),
				won(5), won(6), won(7), won(8),
			},
			wantCurrent:    2,
			wantMax:        4,
			wantMissedYest: false,
		},
		{
			name: "future dated attempts are ignored",
			attempts: []attempt.GameAttempt{
				day(-1, attempt.ResultWon, attempt.StreakDayNormal), won(1),
			},
			wantCurrent:    1,
			wantMax:        1,
			wantMissedYest: false,
		},
		{
			name: "missed yesterday with live run behind it",
			attempts: []attempt.GameAttempt{
				won(2), won(3), won(4), won(5), won(6),
			},
			wantCurrent:    0,
			wantMax:        5,
			wantMissedYest: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(tt.attempts, testToday)
			if s.CurrentStreak != tt.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", s.CurrentStreak, tt.wantCurrent)
			}
			if s.MaxStreak != tt.wantMax {
				t.Errorf("MaxStreak = %d, want %d", s.MaxStreak, tt.wantMax)
			}
			if s.MissedYesterday != tt.wantMissedYest {
				t.Errorf("MissedYesterday = %t, want %t", s.MissedYesterday, tt.wantMissedYest)
			}
		})
	}
}

func TestComputeMaxNeverBelowCurrent(t *testing.T) {
	attempts := []attempt.GameAttempt{won(0), won(1), won(2), won(3)}
	s := Compute(attempts, testToday)
	if s.MaxStreak < s.CurrentStreak {
		t.Errorf("MaxStreak %d below CurrentStreak %d", s.MaxStreak, s.CurrentStreak)
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:30 local on March 16 is still March 15 in UTC.
	local := time.Date(2026, 3, 16, 2, 30, 0, 0, loc)
	got := DateOnly(local)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v, want %v", local, got, want)
	}
}
