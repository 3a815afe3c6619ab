package stats

// UserStats aggregates one game mode for the profile screen.
type UserStats struct {
	GamesPlayed       int     `json:"games_played"`
	GamesWon          int     `json:"games_won"`
	WinRate           float64 `json:"win_rate"`
	GuessDistribution [6]int  `json:"guess_distribution"` // index 0 = won in 1 guess
	CurrentStreak     int     `json:"current_streak"`
	MaxStreak         int     `json:"max_streak"`
	TodayPlayed       bool    `json:"today_played"`
	DaysThisMonth     int     `json:"days_this_month"`
	BadgesEarned      int     `json:"badges_earned"`
}
