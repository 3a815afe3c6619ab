package leaderboard

import "github.com/google/uuid"

type Entry struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Username    string    `json:"username" db:"username"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	GamesWon    int       `json:"games_won" db:"games_won"`
	GamesPlayed int       `json:"games_played" db:"games_played"`
	Rank        int       `json:"rank" db:"rank"`
}

type Ranking struct {
	Entries      []*Entry `json:"entries"`
	UserPosition *Entry   `json:"user_position"`
	TotalUsers   int      `json:"total_users"`
}

// MinDaysForRanking is the presentation contract: the monthly percentile
// is shown only once the user has played at least this many days in the
// current month. The raw percentile is still computed underneath.
const MinDaysForRanking = 5

// MonthlyRanking is the ranking view for one user and game mode.
type MonthlyRanking struct {
	Percentile          float64 `json:"percentile"`
	Rank                int     `json:"rank"`
	TotalUsers          int     `json:"total_users"`
	DaysPlayedThisMonth int     `json:"days_played_this_month"`
	Available           bool    `json:"available"`
}

// Percentile converts a 1-based rank into a percentile where lower is
// better. The top-ranked of N users gets (1/N)*100, the bottom 100.
func Percentile(position, total int) float64 {
	if total <= 0 || position <= 0 {
		return 0
	}
	return float64(position) / float64(total) * 100
}
