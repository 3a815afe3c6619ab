package badge

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"elementleAPI/internal/attempt"
)

// Category is a closed set, validated where badge reference rows are
// read. Percentile thresholds are inverted: a lower number is better
// ("top 1%" outranks "top 10%").
type Category string

const (
	CategoryGuessCount Category = "elementle"
	CategoryStreak     Category = "streak"
	CategoryPercentile Category = "percentile"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryGuessCount, CategoryStreak, CategoryPercentile:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown badge category %q", s)
}

// Badge is reference data seeded once per deployment.
type Badge struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Category    Category  `json:"category" db:"category"`
	Threshold   int       `json:"threshold" db:"threshold"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// UserBadge is one earned badge instance. NewlyAwarded stays true until
// the client acknowledges it, so the award animation plays exactly once.
type UserBadge struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	UserID         uuid.UUID        `json:"user_id" db:"user_id"`
	BadgeID        uuid.UUID        `json:"badge_id" db:"badge_id"`
	GameType       attempt.GameType `json:"game_type" db:"game_type"`
	Region         string           `json:"region" db:"region"`
	AwardCount     int              `json:"award_count" db:"award_count"`
	NewlyAwarded   bool             `json:"newly_awarded" db:"newly_awarded"`
	FirstAwardedAt time.Time        `json:"first_awarded_at" db:"first_awarded_at"`
	LastAwardedAt  time.Time        `json:"last_awarded_at" db:"last_awarded_at"`
}

// WithStatus pairs a reference badge with the caller's earned state.
type WithStatus struct {
	Badge
	Earned       bool       `json:"earned"`
	AwardCount   int        `json:"award_count"`
	NewlyAwarded bool       `json:"newly_awarded"`
	EarnedAt     *time.Time `json:"earned_at,omitempty"`
}

// Awarded is returned from an evaluation pass for the client animation.
type Awarded struct {
	Badge        Badge `json:"badge"`
	AwardCount   int   `json:"award_count"`
	NewlyAwarded bool  `json:"newly_awarded"`
}

// GuessCountBadge selects the guess-count badge for a finished game.
// Only exact 1- and 2-guess finishes qualify; there is no threshold
// climbing in this category.
func GuessCountBadge(badges []Badge, guesses int) (Badge, bool) {
	if guesses != 1 && guesses != 2 {
		return Badge{}, false
	}
	for _, b := range badges {
		if b.Category == CategoryGuessCount && b.Threshold == guesses {
			return b, true
		}
	}
	return Badge{}, false
}

// BestStreakBadge selects the single badge with the highest threshold
// not exceeding the streak. Lower badges passed along the way are not
// awarded separately.
func BestStreakBadge(badges []Badge, streakLen int) (Badge, bool) {
	var best Badge
	found := false
	for _, b := range badges {
		if b.Category != CategoryStreak || b.Threshold > streakLen {
			continue
		}
		if !found || b.Threshold > best.Threshold {
			best = b
			found = true
		}
	}
	return best, found
}

// StreakBadgeToAward decides the award for an updated streak: the best
// badge within reach, and only when it outranks the best streak badge
// already held (heldThreshold, 0 when none is held). Gating on the
// held badge rather than the previous streak value means a crossing
// that went unevaluated is still caught by the next update.
func StreakBadgeToAward(badges []Badge, streakLen, heldThreshold int) (Badge, bool) {
	best, ok := BestStreakBadge(badges, streakLen)
	if !ok || best.Threshold <= heldThreshold {
		return Badge{}, false
	}
	return best, true
}

// PercentileBadge selects the badge with the lowest threshold at or
// above the percentile, since smaller percentile numbers are better.
func PercentileBadge(badges []Badge, percentile float64) (Badge, bool) {
	var best Badge
	found := false
	for _, b := range badges {
		if b.Category != CategoryPercentile || float64(b.Threshold) < percentile {
			continue
		}
		if !found || b.Threshold < best.Threshold {
			best = b
			found = true
		}
	}
	return best, found
}
