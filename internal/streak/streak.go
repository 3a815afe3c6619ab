package streak

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"elementleAPI/internal/attempt"
)

// Streak is the persisted per-user, per-game-mode streak row. It is a
// cache of the calculator output plus the monthly saver bookkeeping.
type Streak struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	UserID              uuid.UUID  `json:"user_id" db:"user_id"`
	GameType            attempt.GameType `json:"game_type" db:"game_type"`
	CurrentStreak       int        `json:"current_streak" db:"current_streak"`
	LongestStreak       int        `json:"longest_streak" db:"longest_streak"`
	SaversUsedThisMonth int        `json:"savers_used_this_month" db:"savers_used_this_month"`
	SaverDeclinedFor    *time.Time `json:"saver_declined_for" db:"saver_declined_for"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// Summary is the derived streak state for one game mode.
type Summary struct {
	CurrentStreak   int  `json:"current_streak"`
	MaxStreak       int  `json:"max_streak"`
	MissedYesterday bool `json:"missed_yesterday"`
}

// DateOnly truncates to a UTC calendar date. All streak arithmetic uses
// UTC midnight as the day boundary.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Compute derives the streak summary from a user's attempt ledger for a
// single game mode. Attempt order does not matter. Rules:
//
//   - A day counts when it was won or is holiday/saver covered.
//   - Today's puzzle, if unplayed or still in progress, neither breaks
//     nor extends the streak. A terminal loss today breaks it.
//   - An in-progress past day is skipped: it neither breaks nor
//     extends the streak until it resolves.
//   - An absent or lost past day breaks the streak.
//   - MaxStreak is the longest qualifying run anywhere in history.
func Compute(attempts []attempt.GameAttempt, today time.Time) Summary {
	today = DateOnly(today)
	yesterday := today.AddDate(0, 0, -1)

	byDate := make(map[time.Time]attempt.GameAttempt, len(attempts))
	for _, a := range attempts {
		d := DateOnly(a.PuzzleDate)
		if d.After(today) {
			continue
		}
		byDate[d] = a
	}

	var s Summary

	brokenToday := false
	if a, ok := byDate[today]; ok {
		if a.CountsTowardStreak() {
			s.CurrentStreak = 1
		} else if a.Result.Terminal() {
			brokenToday = true
		}
	}
	if !brokenToday {
		for d := yesterday; ; d = d.AddDate(0, 0, -1) {
			a, ok := byDate[d]
			if !ok {
				break
			}
			if a.CountsTowardStreak() {
				s.CurrentStreak++
				continue
			}
			if a.Result == attempt.ResultInProgress {
				// Unresolved day: walk past it without counting.
				continue
			}
			break
		}
	} else {
		s.CurrentStreak = 0
	}

	if a, ok := byDate[yesterday]; ok {
		s.MissedYesterday = !a.CountsTowardStreak() && a.Result != attempt.ResultInProgress
	} else {
		s.MissedYesterday = true
	}

	s.MaxStreak = maxRun(byDate)
	if s.CurrentStreak > s.MaxStreak {
		s.MaxStreak = s.CurrentStreak
	}

	return s
}

// maxRun finds the longest run of consecutive qualifying days.
func maxRun(byDate map[time.Time]attempt.GameAttempt) int {
	days := make([]time.Time, 0, len(byDate))
	for d, a := range byDate {
		if a.CountsTowardStreak() {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, run := 0, 0
	for i, d := range days {
		if i > 0 && days[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
