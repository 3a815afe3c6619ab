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
	"elementleAPI/internal/calendar"
	"elementleAPI/internal/notification"
	"elementleAPI/internal/puzzle"
	"elementleAPI/internal/streak"
)

// GameService serves puzzles and records attempts. A terminal result
// runs the post-completion pipeline: streak recompute, badge
// evaluation, notifications.
type GameService struct {
	db                  *pgxpool.Pool
	userService         *UserService
	streakService       *StreakService
	badgeService        *BadgeService
	notificationService *NotificationService
}

func NewGameService(db *pgxpool.Pool, userService *UserService, streakService *StreakService, badgeService *BadgeService, notificationService *NotificationService) *GameService {
	return &GameService{
		db:                  db,
		userService:         userService,
		streakService:       streakService,
		badgeService:        badgeService,
		notificationService: notificationService,
	}
}

func (s *GameService) GetPuzzleByDate(ctx context.Context, date time.Time) (*puzzle.Puzzle, error) {
	p := &puzzle.Puzzle{}
	err := s.db.QueryRow(ctx, `
	SELECT id, puzzle_date, event_text, answer_date, created_at
	FROM puzzles
	WHERE puzzle_date = $1
	`, streak.DateOnly(date)).Scan(&p.ID, &p.PuzzleDate, &p.EventText, &p.AnswerDate, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPuzzleNotFound
		}
		return nil, fmt.Errorf("failed to get puzzle: %w", err)
	}
	return p, nil
}

func (s *GameService) GetTodayPuzzle(ctx context.Context) (*puzzle.Puzzle, error) {
	return s.GetPuzzleByDate(ctx, time.Now())
}

// SubmitResult is what SubmitAttempt returns: the updated attempt plus
// whatever the completion pipeline produced.
type SubmitResult struct {
	Attempt       *attempt.GameAttempt `json:"attempt"`
	Streak        *streak.Summary      `json:"streak,omitempty"`
	AwardedBadges []*badge.Awarded     `json:"awarded_badges,omitempty"`
}

// SubmitAttempt upserts the day's attempt. Terminal results are final:
// further submissions for the same day are rejected. The holiday flag
// on an existing row survives the update.
func (s *GameService) SubmitAttempt(ctx context.Context, clerkID string, req *attempt.SubmitAttemptRequest) (*SubmitResult, error) {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if !req.GameType.Valid() {
		return nil, fmt.Errorf("%w: game type %q", ErrInvalidInput, req.GameType)
	}
	if !req.Result.Valid() {
		return nil, fmt.Errorf("%w: result %q", ErrInvalidInput, req.Result)
	}

	date := streak.DateOnly(time.Now())
	if req.PuzzleDate != "" {
		date, err = time.ParseInLocation("2006-01-02", req.PuzzleDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: puzzle date %q", ErrInvalidInput, req.PuzzleDate)
		}
	}

	// Attempts exist only for allocated puzzles.
	if _, err := s.GetPuzzleByDate(ctx, date); err != nil {
		return nil, err
	}

	// A day inside an active holiday window starts out covered, so
	// puzzles allocated after the holiday began are protected too. The
	// upsert leaves the status of an existing row alone.
	dayStatus := attempt.StreakDayNormal
	if p, err := s.streakService.ActiveHoliday(ctx, userID); err == nil && p != nil && p.Covers(date) {
		dayStatus = attempt.StreakDayCovered
	}

	a := &attempt.GameAttempt{}
	err = s.db.QueryRow(ctx, `
	INSERT INTO game_attempts (id, user_id, game_type, puzzle_date, result, guesses, streak_day_status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	ON CONFLICT (user_id, game_type, puzzle_date)
	DO UPDATE SET result = $5, guesses = $6, updated_at = NOW()
	WHERE game_attempts.result NOT IN ('won', 'lost')
	RETURNING id, user_id, game_type, puzzle_date, result, guesses, streak_day_status, created_at, updated_at
	`, uuid.New(), userID, req.GameType, date, req.Result, req.Guesses, dayStatus).Scan(
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptFinalized
		}
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	result := &SubmitResult{Attempt: a}
	if !a.Result.Terminal() {
		return result, nil
	}

	summary, err := s.streakService.Recompute(ctx, userID, req.GameType)
	if err != nil {
		return nil, err
	}
	result.Streak = &summary

	_, region, err := s.userService.GetTier(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	var awarded []*badge.Awarded

	if a.Result == attempt.ResultWon {
		guessAwards, err := s.badgeService.EvaluateGuessBadges(ctx, userID, req.GameType, region, a.Guesses)
		if err != nil {
			log.Printf("Guess badge evaluation failed for %s: %v", userID, err)
		} else {
			awarded = append(awarded, guessAwards...)
		}
	}

	streakAwards, err := s.badgeService.EvaluateStreakBadges(ctx, userID, req.GameType, region, summary.CurrentStreak)
	if err != nil {
		log.Printf("Streak badge evaluation failed for %s: %v", userID, err)
	} else {
		awarded = append(awarded, streakAwards...)
	}

	percentileAwards, err := s.badgeService.EvaluatePercentileBadges(ctx, userID, req.GameType, region)
	if err != nil {
		log.Printf("Percentile badge evaluation failed for %s: %v", userID, err)
	} else {
		awarded = append(awarded, percentileAwards...)
	}

	result.AwardedBadges = awarded

	for _, aw := range awarded {
		s.notificationService.Notify(ctx, &notification.CreateNotificationRequest{
			UserID: userID,
			Type:   notification.TypeBadgeAwarded,
			Title:  "Badge earned",
			Body:   fmt.Sprintf("You earned the %s badge", aw.Badge.Name),
		})
	}
	if len(streakAwards) > 0 {
		s.notificationService.Notify(ctx, &notification.CreateNotificationRequest{
			UserID: userID,
			Type:   notification.TypeStreakMilestone,
			Title:  "Streak milestone",
			Body:   fmt.Sprintf("Your streak reached %d days", summary.CurrentStreak),
		})
	}

	return result, nil
}

// GetCalendar builds the archive month view: every day of the month
// with its attempt state and holiday coverage.
func (s *GameService) GetCalendar(ctx context.Context, clerkID string, gameType attempt.GameType, year, month int) (*calendar.MonthResponse, error) {
	userID, err := s.userService.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)

	rows, err := s.db.Query(ctx, `
	SELECT p.puzzle_date, ga.result, ga.guesses, ga.streak_day_status
	FROM puzzles p
	LEFT JOIN game_attempts ga ON ga.puzzle_date = p.puzzle_date
		AND ga.user_id = $1 AND ga.game_type = $2
	WHERE p.puzzle_date >= $3 AND p.puzzle_date <= $4
	ORDER BY p.puzzle_date
	`, userID, gameType, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}
	defer rows.Close()

	type dayRow struct {
		result  *string
		guesses *int
		status  *int
	}
	dayMap := make(map[string]dayRow)
	for rows.Next() {
		var date time.Time
		var dr dayRow
		if err := rows.Scan(&date, &dr.result, &dr.guesses, &dr.status); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		dayMap[date.Format("2006-01-02")] = dr
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	var days []*calendar.Day
	today := streak.DateOnly(time.Now()).Format("2006-01-02")

	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		day := &calendar.Day{
			Date:    d,
			Result:  attempt.ResultNotPlayed,
			IsToday: dateStr == today,
		}
		if dr, ok := dayMap[dateStr]; ok {
			day.HasPuzzle = true
			if dr.result != nil {
				day.Result = attempt.Result(*dr.result)
			}
			if dr.guesses != nil {
				day.Guesses = *dr.guesses
			}
			if dr.status != nil {
				day.HolidayCovered = *dr.status == attempt.StreakDayCovered
			}
		}
		days = append(days, day)
	}

	return &calendar.MonthResponse{
		Year:  year,
		Month: month,
		Days:  days,
	}, nil
}
