package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"elementleAPI/internal/attempt"
	"elementleAPI/internal/badge"
	"elementleAPI/internal/leaderboard"
)

// BadgeService evaluates the three badge categories and computes
// percentile ranks.
type BadgeService struct {
	db          *pgxpool.Pool
	userService *UserService
}

func NewBadgeService(db *pgxpool.Pool, userService *UserService) *BadgeService {
	return &BadgeService{db: db, userService: userService}
}

func (s *BadgeService) referenceBadges(ctx context.Context, category badge.Category) ([]badge.Badge, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, category, threshold, name, description, icon, created_at
	FROM badges
	WHERE category = $1
	ORDER BY threshold
	`, category)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load badges: %v", ErrDataUnavailable, err)
	}
	defer rows.Close()

	var badges []badge.Badge
	for rows.Next() {
		var b badge.Badge
		var cat string
		if err := rows.Scan(&b.ID, &cat, &b.Threshold, &b.Name, &b.Description, &b.Icon, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		// Categories are validated here, at the ingestion boundary,
		// so the selection rules can trust the enum.
		b.Category, err = badge.ParseCategory(cat)
		if err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// award upserts the earned-instance row: first award creates it with
// count 1, repeats increment the count. Either way the newly-awarded
// flag is raised for the client animation.
func (s *BadgeService) award(ctx context.Context, userID uuid.UUID, b badge.Badge, gameType attempt.GameType, region string) (*badge.Awarded, error) {
	var awardCount int
	err := s.db.QueryRow(ctx, `
	INSERT INTO user_badges (id, user_id, badge_id, game_type, region, award_count, newly_awarded, first_awarded_at, last_awarded_at)
	VALUES ($1, $2, $3, $4, $5, 1, true, NOW(), NOW())
	ON CONFLICT (user_id, badge_id, game_type, region)
	DO UPDATE SET
		award_count = user_badges.award_count + 1,
		newly_awarded = true,
		last_awarded_at = NOW()
	RETURNING award_count
	`, uuid.New(), userID, b.ID, gameType, region).Scan(&awardCount)
	if err != nil {
		return nil, fmt.Errorf("failed to award badge: %w", err)
	}

	badgesAwarded.WithLabelValues(string(b.Category)).Inc()
	log.Printf("Awarded badge %s (%s/%d) to user %s, count %d", b.Name, b.Category, b.Threshold, userID, awardCount)

	return &badge.Awarded{Badge: b, AwardCount: awardCount, NewlyAwarded: true}, nil
}

// EvaluateGuessBadges fires after a won game. Only exact 1- and
// 2-guess finishes award anything; each such game is a distinct
// qualifying event, so repeats increment the count.
func (s *BadgeService) EvaluateGuessBadges(ctx context.Context, userID uuid.UUID, gameType attempt.GameType, region string, guesses int) ([]*badge.Awarded, error) {
	badges, err := s.referenceBadges(ctx, badge.CategoryGuessCount)
	if err != nil {
		return nil, err
	}

	b, ok := badge.GuessCountBadge(badges, guesses)
	if !ok {
		return nil, nil
	}

	awarded, err := s.award(ctx, userID, b, gameType, region)
	if err != nil {
		return nil, err
	}
	return []*badge.Awarded{awarded}, nil
}

// EvaluateStreakBadges fires after a streak update. The single badge
// with the highest threshold within reach is awarded, gated on the best
// streak badge the user already holds: re-evaluating an unchanged
// streak awards nothing, and a crossing missed by an earlier update is
// still awarded by the next one.
func (s *BadgeService) EvaluateStreakBadges(ctx context.Context, userID uuid.UUID, gameType attempt.GameType, region string, newStreak int) ([]*badge.Awarded, error) {
	badges, err := s.referenceBadges(ctx, badge.CategoryStreak)
	if err != nil {
		return nil, err
	}

	var heldBest *int
	err = s.db.QueryRow(ctx, `
	SELECT MAX(b.threshold)
	FROM user_badges ub
	JOIN badges b ON b.id = ub.badge_id
	WHERE ub.user_id = $1 AND ub.game_type = $2 AND b.category = 'streak'
	`, userID, gameType).Scan(&heldBest)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read held streak badge: %w", err)
	}

	held := 0
	if heldBest != nil {
		held = *heldBest
	}

	best, ok := badge.StreakBadgeToAward(badges, newStreak, held)
	if !ok {
		return nil, nil
	}

	awarded, err := s.award(ctx, userID, best, gameType, region)
	if err != nil {
		return nil, err
	}
	return []*badge.Awarded{awarded}, nil
}

// EvaluatePercentileBadges recomputes the caller's percentile and
// awards the matching tier when it improves on the best tier held.
func (s *BadgeService) EvaluatePercentileBadges(ctx context.Context, userID uuid.UUID, gameType attempt.GameType, region string) ([]*badge.Awarded, error) {
	percentile, _, total, err := s.ComputePercentile(ctx, userID, gameType, region)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	badges, err := s.referenceBadges(ctx, badge.CategoryPercentile)
	if err != nil {
		return nil, err
	}

	b, ok := badge.PercentileBadge(badges, percentile)
	if !ok {
		return nil, nil
	}

	// Lower thresholds are better; only a strictly better tier than
	// anything already held is a genuine qualifying event.
	var heldBest *int
	err = s.db.QueryRow(ctx, `
	SELECT MIN(b.threshold)
	FROM user_badges ub
	JOIN badges b ON b.id = ub.badge_id
	WHERE ub.user_id = $1 AND ub.game_type = $2 AND ub.region = $3 AND b.category = $4
	`, userID, gameType, region, badge.CategoryPercentile).Scan(&heldBest)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read held percentile badge: %w", err)
	}
	if heldBest != nil && *heldBest <= b.Threshold {
		return nil, nil
	}

	awarded, err := s.award(ctx, userID, b, gameType, region)
	if err != nil {
		return nil, err
	}
	return []*badge.Awarded{awarded}, nil
}

// ComputePercentile ranks all users with at least one terminal attempt
// for the game mode by (games won desc, games played asc) and converts
// the caller's 1-based position into a percentile. REGION mode ranks
// within the caller's region only.
func (s *BadgeService) ComputePercentile(ctx context.Context, userID uuid.UUID, gameType attempt.GameType, region string) (float64, int, int, error) {
	query := `
	WITH scores AS (
		SELECT
			ga.user_id,
			COUNT(*) FILTER (WHERE ga.result = 'won') AS games_won,
			COUNT(*) FILTER (WHERE ga.result IN ('won', 'lost')) AS games_played
		FROM game_attempts ga
		JOIN users u ON u.id = ga.user_id
		WHERE ga.game_type = $2
			AND ($3 = '' OR u.region = $3)
		GROUP BY ga.user_id
		HAVING COUNT(*) FILTER (WHERE ga.result IN ('won', 'lost')) > 0
	),
	ranked AS (
		SELECT
			user_id,
			RANK() OVER (ORDER BY games_won DESC, games_played ASC) AS rank,
			COUNT(*) OVER () AS total
		FROM scores
	)
	SELECT rank, total FROM ranked WHERE user_id = $1
	`

	regionFilter := ""
	if gameType == attempt.GameTypeRegion {
		regionFilter = region
	}

	var rank, total int
	err := s.db.QueryRow(ctx, query, userID, gameType, regionFilter).Scan(&rank, &total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, 0, nil
		}
		return 0, 0, 0, fmt.Errorf("%w: failed to rank user: %v", ErrDataUnavailable, err)
	}

	return leaderboard.Percentile(rank, total), rank, total, nil
}

// GetMonthlyRanking wraps the percentile with the display contract: the
// number is only shown after five played days in the current month.
func (s *BadgeService) GetMonthlyRanking(ctx context.Context, clerkID string, gameType attempt.GameType) (*leaderboard.MonthlyRanking, error) {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	_, region, err := s.userService.GetTier(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	percentile, rank, total, err := s.ComputePercentile(ctx, userID, gameType, region)
	if err != nil {
		return nil, err
	}

	var daysPlayed int
	err = s.db.QueryRow(ctx, `
	SELECT COUNT(*) FROM game_attempts
	WHERE user_id = $1 AND game_type = $2
		AND result IN ('won', 'lost')
		AND puzzle_date >= DATE_TRUNC('month', CURRENT_DATE)
		AND puzzle_date <= CURRENT_DATE
	`, userID, gameType).Scan(&daysPlayed)
	if err != nil {
		return nil, fmt.Errorf("failed to count played days: %w", err)
	}

	return &leaderboard.MonthlyRanking{
		Percentile:          percentile,
		Rank:                rank,
		TotalUsers:          total,
		DaysPlayedThisMonth: daysPlayed,
		Available:           daysPlayed >= leaderboard.MinDaysForRanking,
	}, nil
}

// GetBadges lists every reference badge with the caller's earned state,
// earned first.
func (s *BadgeService) GetBadges(ctx context.Context, clerkID string, gameType attempt.GameType) ([]*badge.WithStatus, error) {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT
		b.id,
		b.category,
		b.threshold,
		b.name,
		b.description,
		b.icon,
		b.created_at,
		CASE WHEN ub.id IS NOT NULL THEN true ELSE false END AS earned,
		COALESCE(ub.award_count, 0),
		COALESCE(ub.newly_awarded, false),
		ub.first_awarded_at
	FROM badges b
	LEFT JOIN user_badges ub ON b.id = ub.badge_id AND ub.user_id = $1 AND ub.game_type = $2
	ORDER BY earned DESC, b.category, b.threshold
	`

	rows, err := s.db.Query(ctx, query, userID, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}
	defer rows.Close()

	var badges []*badge.WithStatus
	for rows.Next() {
		ws := &badge.WithStatus{}
		var cat string
		err := rows.Scan(
			&ws.ID,
			&cat,
			&ws.Threshold,
			&ws.Name,
			&ws.Description,
			&ws.Icon,
			&ws.CreatedAt,
			&ws.Earned,
			&ws.AwardCount,
			&ws.NewlyAwarded,
			&ws.EarnedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		ws.Category, err = badge.ParseCategory(cat)
		if err != nil {
			return nil, err
		}
		badges = append(badges, ws)
	}

	return badges, rows.Err()
}

// AcknowledgeBadges clears every newly-awarded flag for the user. The
// client calls this once the award animation has played.
func (s *BadgeService) AcknowledgeBadges(ctx context.Context, clerkID string) error {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
	UPDATE user_badges SET newly_awarded = false WHERE user_id = $1 AND newly_awarded = true
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to acknowledge badges: %w", err)
	}
	return nil
}

// snapshotRankingQuery builds the monthly snapshot insert for one game
// type. REGION ranks within each region, matching ComputePercentile;
// USER ranks globally.
func snapshotRankingQuery(gt attempt.GameType) string {
	rankPartition := ""
	countPartition := ""
	if gt == attempt.GameTypeRegion {
		rankPartition = "PARTITION BY u.region "
		countPartition = "PARTITION BY region"
	}

	return fmt.Sprintf(`
	INSERT INTO monthly_rankings (user_id, game_type, region, month, games_won, games_played, rank, percentile)
	SELECT
		user_id,
		$1,
		region,
		$2::date,
		games_won,
		games_played,
		rank,
		rank::float / (COUNT(*) OVER (%s))::float * 100
	FROM (
		SELECT
			ga.user_id,
			u.region,
			COUNT(*) FILTER (WHERE ga.result = 'won') AS games_won,
			COUNT(*) FILTER (WHERE ga.result IN ('won', 'lost')) AS games_played,
			RANK() OVER (%sORDER BY COUNT(*) FILTER (WHERE ga.result = 'won') DESC,
				COUNT(*) FILTER (WHERE ga.result IN ('won', 'lost')) ASC) AS rank
		FROM game_attempts ga
		JOIN users u ON u.id = ga.user_id
		WHERE ga.game_type = $1
			AND ga.puzzle_date >= $2 AND ga.puzzle_date < $3
		GROUP BY ga.user_id, u.region
		HAVING COUNT(*) FILTER (WHERE ga.result IN ('won', 'lost')) > 0
	) ranked
	ON CONFLICT (user_id, game_type, month) DO NOTHING
	`, countPartition, rankPartition)
}

// SnapshotMonthlyRankings writes one ranking row per qualifying user
// for the month that just ended. Run by the scheduler on the 1st.
func (s *BadgeService) SnapshotMonthlyRankings(ctx context.Context) (int, error) {
	monthStart := time.Now().UTC().AddDate(0, -1, 0)
	monthStart = time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	total := 0
	for _, gt := range []attempt.GameType{attempt.GameTypeUser, attempt.GameTypeRegion} {
		result, err := s.db.Exec(ctx, snapshotRankingQuery(gt), gt, monthStart, monthEnd)
		if err != nil {
			return total, fmt.Errorf("failed to snapshot %s rankings: %w", gt, err)
		}
		total += int(result.RowsAffected())
	}

	return total, nil
}
