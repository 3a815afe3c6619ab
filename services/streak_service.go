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

	"elementleAPI/internal/allowance"
	"elementleAPI/internal/attempt"
	"elementleAPI/internal/holiday"
	"elementleAPI/internal/streak"
)

// StreakService owns the attempt ledger reads, the streak cache rows,
// and the holiday / streak-saver allowance state machines.
type StreakService struct {
	db           *pgxpool.Pool
	userService  *UserService
	badgeService *BadgeService
}

func NewStreakService(db *pgxpool.Pool, userService *UserService, badgeService *BadgeService) *StreakService {
	return &StreakService{db: db, userService: userService, badgeService: badgeService}
}

// StreakStatus is the full per-mode streak view for the client,
// including whether a streak-saver offer should be shown.
type StreakStatus struct {
	streak.Summary
	SaversUsedThisMonth int             `json:"savers_used_this_month"`
	SaversPerMonth      int             `json:"savers_per_month"`
	SaverAvailable      bool            `json:"saver_available"`
	ActiveHoliday       *holiday.Period `json:"active_holiday"`
}

// LoadAttempts reads a user's ledger for one game mode, most recent
// first.
func (s *StreakService) LoadAttempts(ctx context.Context, userID uuid.UUID, gameType attempt.GameType) ([]attempt.GameAttempt, error) {
	query := `
	SELECT id, user_id, game_type, puzzle_date, result, guesses, streak_day_status, created_at, updated_at
	FROM game_attempts
	WHERE user_id = $1 AND game_type = $2
	ORDER BY puzzle_date DESC
	`

	rows, err := s.db.Query(ctx, query, userID, gameType)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load attempts: %v", ErrDataUnavailable, err)
	}
	defer rows.Close()

	var attempts []attempt.GameAttempt
	for rows.Next() {
		var a attempt.GameAttempt
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.GameType,
			&a.PuzzleDate,
			&a.Result,
			&a.Guesses,
			&a.StreakDayStatus,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: attempt rows: %v", ErrDataUnavailable, err)
	}

	return attempts, nil
}

// Recompute rederives the streak summary from the ledger and writes the
// cache row.
func (s *StreakService) Recompute(ctx context.Context, userID uuid.UUID, gameType attempt.GameType) (streak.Summary, error) {
	attempts, err := s.LoadAttempts(ctx, userID, gameType)
	if err != nil {
		return streak.Summary{}, err
	}

	summary := streak.Compute(attempts, time.Now())

	query := `
	INSERT INTO streaks (id, user_id, game_type, current_streak, longest_streak, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (user_id, game_type)
	DO UPDATE SET
		current_streak = $4,
		longest_streak = GREATEST(streaks.longest_streak, $5),
		updated_at = NOW()
	`

	_, err = s.db.Exec(ctx, query, uuid.New(), userID, gameType, summary.CurrentStreak, summary.MaxStreak)
	if err != nil {
		return streak.Summary{}, fmt.Errorf("failed to upsert streak: %w", err)
	}

	return summary, nil
}

// recomputeAndEvaluate refreshes the cached streak and runs streak
// badge evaluation, so a saver or holiday that lifts the streak onto a
// threshold awards the badge immediately.
func (s *StreakService) recomputeAndEvaluate(ctx context.Context, userID uuid.UUID, gameType attempt.GameType, region string) (streak.Summary, error) {
	summary, err := s.Recompute(ctx, userID, gameType)
	if err != nil {
		return streak.Summary{}, err
	}

	if _, err := s.badgeService.EvaluateStreakBadges(ctx, userID, gameType, region, summary.CurrentStreak); err != nil {
		log.Printf("Streak badge evaluation failed for %s (%s): %v", userID, gameType, err)
	}

	return summary, nil
}

// GetStreakStatus computes the live summary and decides whether a
// streak-saver offer applies.
func (s *StreakService) GetStreakStatus(ctx context.Context, clerkID string, gameType attempt.GameType) (*StreakStatus, error) {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	tier, _, err := s.userService.GetTier(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	allow := allowance.ForTier(tier)

	attempts, err := s.LoadAttempts(ctx, userID, gameType)
	if err != nil {
		return nil, err
	}
	summary := streak.Compute(attempts, time.Now())

	status := &StreakStatus{
		Summary:        summary,
		SaversPerMonth: allow.StreakSaversPerMonth,
	}

	var declinedFor *time.Time
	err = s.db.QueryRow(ctx, `
	SELECT savers_used_this_month, saver_declined_for
	FROM streaks
	WHERE user_id = $1 AND game_type = $2
	`, userID, gameType).Scan(&status.SaversUsedThisMonth, &declinedFor)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read streak row: %w", err)
	}

	yesterday := streak.DateOnly(time.Now()).AddDate(0, 0, -1)
	declined := declinedFor != nil && streak.DateOnly(*declinedFor).Equal(yesterday)
	status.SaverAvailable = summary.MissedYesterday &&
		!declined &&
		status.SaversUsedThisMonth < allow.StreakSaversPerMonth

	status.ActiveHoliday, err = s.ActiveHoliday(ctx, userID)
	if err != nil {
		return nil, err
	}

	return status, nil
}

// ActiveHoliday returns the user's active holiday period, or nil.
func (s *StreakService) ActiveHoliday(ctx context.Context, userID uuid.UUID) (*holiday.Period, error) {
	p := &holiday.Period{}
	err := s.db.QueryRow(ctx, `
	SELECT id, user_id, start_date, end_date, is_active, days_taken, early_termination, created_at, ended_at
	FROM holiday_periods
	WHERE user_id = $1 AND is_active = true
	`, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.StartDate,
		&p.EndDate,
		&p.IsActive,
		&p.DaysTaken,
		&p.EarlyTermination,
		&p.CreatedAt,
		&p.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read holiday: %w", err)
	}
	return p, nil
}

// StartHoliday opens a holiday window [today, today+duration) and
// retroactively marks every non-won day entry inside it as covered,
// creating placeholder entries for allocated puzzles not yet attempted.
// The whole batch runs in one transaction; the partial unique index on
// active periods rejects a concurrent second start.
func (s *StreakService) StartHoliday(ctx context.Context, clerkID string) (*holiday.Period, error) {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	tier, region, err := s.userService.GetTier(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	allow := allowance.ForTier(tier)

	// A holiday protects an existing streak; with no streak in either
	// mode there is nothing to protect.
	hasStreak := false
	for _, gt := range []attempt.GameType{attempt.GameTypeUser, attempt.GameTypeRegion} {
		attempts, err := s.LoadAttempts(ctx, userID, gt)
		if err != nil {
			return nil, err
		}
		if streak.Compute(attempts, time.Now()).CurrentStreak > 0 {
			hasStreak = true
			break
		}
	}
	if !hasStreak {
		return nil, ErrNoActiveStreak
	}

	year := time.Now().UTC().Year()
	var used int
	err = s.db.QueryRow(ctx, `
	SELECT holidays_used FROM holiday_usage WHERE user_id = $1 AND year = $2
	`, userID, year).Scan(&used)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read holiday usage: %w", err)
	}
	if used >= allow.HolidaySaversPerYear {
		return nil, ErrAllowanceExhausted
	}

	today := streak.DateOnly(time.Now())
	p := &holiday.Period{
		ID:        uuid.New(),
		UserID:    userID,
		StartDate: today,
		EndDate:   today.AddDate(0, 0, allow.HolidayDurationDays),
		IsActive:  true,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	INSERT INTO holiday_periods (id, user_id, start_date, end_date, is_active, days_taken, created_at)
	VALUES ($1, $2, $3, $4, true, 0, NOW())
	`, p.ID, userID, p.StartDate, p.EndDate)
	if err != nil {
		// The partial unique index fires when a holiday is already
		// active; anything else is a real failure.
		if isUniqueViolation(err) {
			return nil, ErrHolidayActive
		}
		return nil, fmt.Errorf("failed to insert holiday period: %w", err)
	}

	_, err = tx.Exec(ctx, `
	INSERT INTO holiday_usage (user_id, year, holidays_used)
	VALUES ($1, $2, 1)
	ON CONFLICT (user_id, year)
	DO UPDATE SET holidays_used = holiday_usage.holidays_used + 1
	`, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to increment holiday usage: %w", err)
	}

	// Mark existing day entries in the window, never overwriting a win.
	_, err = tx.Exec(ctx, `
	UPDATE game_attempts
	SET streak_day_status = 0, updated_at = NOW()
	WHERE user_id = $1
		AND puzzle_date >= $2 AND puzzle_date < $3
		AND result != 'won'
	`, userID, p.StartDate, p.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to mark holiday days: %w", err)
	}

	// Placeholder entries for allocated puzzles with no attempt yet.
	_, err = tx.Exec(ctx, `
	INSERT INTO game_attempts (id, user_id, game_type, puzzle_date, result, guesses, streak_day_status, created_at, updated_at)
	SELECT gen_random_uuid(), $1, gt.game_type, p.puzzle_date, 'not-played', 0, 0, NOW(), NOW()
	FROM puzzles p
	CROSS JOIN (VALUES ('USER'), ('REGION')) AS gt(game_type)
	WHERE p.puzzle_date >= $2 AND p.puzzle_date < $3
	ON CONFLICT (user_id, game_type, puzzle_date) DO NOTHING
	`, userID, p.StartDate, p.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create placeholder days: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit holiday: %w", err)
	}

	holidaysStarted.Inc()
	log.Printf("Started holiday %s for user %s (%s to %s)", p.ID, userID, p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))

	// The cached streak views are stale once coverage changes.
	for _, gt := range []attempt.GameType{attempt.GameTypeUser, attempt.GameTypeRegion} {
		if _, err := s.recomputeAndEvaluate(ctx, userID, gt, region); err != nil {
			log.Printf("Failed to recompute %s streak after holiday start: %v", gt, err)
		}
	}

	return p, nil
}

// EndHoliday closes the active period. Allowance consumed at start is
// never refunded, even on early termination; early termination only
// stops coverage of the remaining window days.
func (s *StreakService) EndHoliday(ctx context.Context, clerkID string, earlyTermination bool) error {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return err
	}

	p, err := s.ActiveHoliday(ctx, userID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNoActiveHoliday
	}

	today := streak.DateOnly(time.Now())
	daysTaken := p.DaysElapsed(today)

	_, err = s.db.Exec(ctx, `
	UPDATE holiday_periods
	SET is_active = false,
		early_termination = $2,
		ended_at = NOW(),
		days_taken = $3
	WHERE id = $1 AND is_active = true
	`, p.ID, earlyTermination, daysTaken)
	if err != nil {
		return fmt.Errorf("failed to end holiday: %w", err)
	}

	if earlyTermination {
		// Remaining window days lose their coverage. Placeholder
		// entries go away entirely; nothing else exists past today.
		_, err = s.db.Exec(ctx, `
		DELETE FROM game_attempts
		WHERE user_id = $1
			AND puzzle_date > $2 AND puzzle_date < $3
			AND result = 'not-played'
			AND streak_day_status = 0
		`, userID, today, p.EndDate)
		if err != nil {
			return fmt.Errorf("failed to clear remaining holiday days: %w", err)
		}
	}

	log.Printf("Ended holiday %s for user %s (early=%t, days taken=%d)", p.ID, userID, earlyTermination, daysTaken)

	for _, gt := range []attempt.GameType{attempt.GameTypeUser, attempt.GameTypeRegion} {
		if _, err := s.Recompute(ctx, userID, gt); err != nil {
			log.Printf("Failed to recompute %s streak after holiday end: %v", gt, err)
		}
	}

	return nil
}

// GetHolidayStatus reports the active period and the annual allowance
// position.
func (s *StreakService) GetHolidayStatus(ctx context.Context, clerkID string) (*holiday.Status, error) {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	tier, _, err := s.userService.GetTier(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	allow := allowance.ForTier(tier)

	status := &holiday.Status{DurationDays: allow.HolidayDurationDays}

	status.Active, err = s.ActiveHoliday(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow(ctx, `
	SELECT holidays_used FROM holiday_usage WHERE user_id = $1 AND year = $2
	`, userID, time.Now().UTC().Year()).Scan(&status.UsedThisYear)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read holiday usage: %w", err)
	}

	status.RemainingThisYear = allow.HolidaySaversPerYear - status.UsedThisYear
	if status.RemainingThisYear < 0 {
		status.RemainingThisYear = 0
	}

	return status, nil
}

// UseStreakSaver retroactively covers yesterday's missed day for one
// game mode and consumes one unit of the monthly allowance.
func (s *StreakService) UseStreakSaver(ctx context.Context, clerkID string, gameType attempt.GameType) (*StreakStatus, error) {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	tier, region, err := s.userService.GetTier(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	allow := allowance.ForTier(tier)

	attempts, err := s.LoadAttempts(ctx, userID, gameType)
	if err != nil {
		return nil, err
	}
	summary := streak.Compute(attempts, time.Now())
	if !summary.MissedYesterday {
		return nil, ErrSaverNotNeeded
	}

	var used int
	err = s.db.QueryRow(ctx, `
	SELECT savers_used_this_month FROM streaks WHERE user_id = $1 AND game_type = $2
	`, userID, gameType).Scan(&used)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read saver usage: %w", err)
	}
	if used >= allow.StreakSaversPerMonth {
		return nil, ErrAllowanceExhausted
	}

	yesterday := streak.DateOnly(time.Now()).AddDate(0, 0, -1)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	INSERT INTO game_attempts (id, user_id, game_type, puzzle_date, result, guesses, streak_day_status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, 'not-played', 0, 0, NOW(), NOW())
	ON CONFLICT (user_id, game_type, puzzle_date)
	DO UPDATE SET streak_day_status = 0, updated_at = NOW()
	WHERE game_attempts.result != 'won'
	`, uuid.New(), userID, gameType, yesterday)
	if err != nil {
		return nil, fmt.Errorf("failed to cover missed day: %w", err)
	}

	_, err = tx.Exec(ctx, `
	INSERT INTO streaks (id, user_id, game_type, current_streak, longest_streak, savers_used_this_month, updated_at)
	VALUES ($1, $2, $3, 0, 0, 1, NOW())
	ON CONFLICT (user_id, game_type)
	DO UPDATE SET savers_used_this_month = streaks.savers_used_this_month + 1, updated_at = NOW()
	`, uuid.New(), userID, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to increment saver usage: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit saver: %w", err)
	}

	streakSaversUsed.Inc()
	log.Printf("Streak saver used by %s (%s) for %s", userID, gameType, yesterday.Format("2006-01-02"))

	if _, err := s.recomputeAndEvaluate(ctx, userID, gameType, region); err != nil {
		log.Printf("Failed to recompute streak after saver: %v", err)
	}

	return s.GetStreakStatus(ctx, clerkID, gameType)
}

// DeclineStreakSaver dismisses the offer for yesterday without
// consuming allowance; the streak then breaks naturally.
func (s *StreakService) DeclineStreakSaver(ctx context.Context, clerkID string, gameType attempt.GameType) error {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return err
	}

	yesterday := streak.DateOnly(time.Now()).AddDate(0, 0, -1)

	_, err = s.db.Exec(ctx, `
	INSERT INTO streaks (id, user_id, game_type, current_streak, longest_streak, saver_declined_for, updated_at)
	VALUES ($1, $2, $3, 0, 0, $4, NOW())
	ON CONFLICT (user_id, game_type)
	DO UPDATE SET saver_declined_for = $4, updated_at = NOW()
	`, uuid.New(), userID, gameType, yesterday)
	if err != nil {
		return fmt.Errorf("failed to decline saver: %w", err)
	}

	return nil
}

// CloseExpiredHolidays deactivates every period whose window has fully
// elapsed and returns the affected user ids so the caller can notify
// them. Run daily just after the UTC day boundary.
func (s *StreakService) CloseExpiredHolidays(ctx context.Context) ([]uuid.UUID, error) {
	today := streak.DateOnly(time.Now())

	rows, err := s.db.Query(ctx, `
	UPDATE holiday_periods
	SET is_active = false,
		ended_at = NOW(),
		days_taken = (end_date - start_date)
	WHERE is_active = true AND end_date <= $1
	RETURNING user_id
	`, today)
	if err != nil {
		return nil, fmt.Errorf("failed to close expired holidays: %w", err)
	}
	defer rows.Close()

	var userIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

// ResetMonthlySavers zeroes every monthly saver counter. Run on the
// first of each month.
func (s *StreakService) ResetMonthlySavers(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
	UPDATE streaks SET savers_used_this_month = 0, saver_declined_for = NULL, updated_at = NOW()
	WHERE savers_used_this_month > 0 OR saver_declined_for IS NOT NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to reset monthly savers: %w", err)
	}
	return nil
}
