package attempt

import (
	"time"

	"github.com/google/uuid"
)

// GameType selects one of the two parallel gameplay tracks. Streaks,
// stats and badges are kept independently per track.
type GameType string

const (
	GameTypeUser   GameType = "USER"
	GameTypeRegion GameType = "REGION"
)

func (g GameType) Valid() bool {
	return g == GameTypeUser || g == GameTypeRegion
}

type Result string

const (
	ResultWon        Result = "won"
	ResultLost       Result = "lost"
	ResultInProgress Result = "in-progress"
	ResultNotPlayed  Result = "not-played"
)

// Terminal reports whether the result can no longer change.
func (r Result) Terminal() bool {
	return r == ResultWon || r == ResultLost
}

func (r Result) Valid() bool {
	switch r {
	case ResultWon, ResultLost, ResultInProgress, ResultNotPlayed:
		return true
	}
	return false
}

// StreakDayStatus values. 0 marks a day as holiday/saver covered,
// anything else is a normal day.
const (
	StreakDayCovered = 0
	StreakDayNormal  = 1
)

type GameAttempt struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	GameType        GameType  `json:"game_type" db:"game_type"`
	PuzzleDate      time.Time `json:"puzzle_date" db:"puzzle_date"`
	Result          Result    `json:"result" db:"result"`
	Guesses         int       `json:"guesses" db:"guesses"`
	StreakDayStatus int       `json:"streak_day_status" db:"streak_day_status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CountsTowardStreak reports whether this day keeps a streak alive:
// either the puzzle was won or the day is holiday/saver covered.
func (a *GameAttempt) CountsTowardStreak() bool {
	return a.Result == ResultWon || a.StreakDayStatus == StreakDayCovered
}

type SubmitAttemptRequest struct {
	GameType   GameType `json:"gameType"`
	PuzzleDate string   `json:"puzzleDate"` // YYYY-MM-DD, defaults to today
	Result     Result   `json:"result"`
	Guesses    int      `json:"guesses"`
}
