package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"elementleAPI/internal/allowance"
	"elementleAPI/internal/attempt"
	"elementleAPI/internal/stats"
	"elementleAPI/internal/streak"
	"elementleAPI/internal/user"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u := &user.User{
		ID:        uuid.New().String(),
		ClerkID:   req.ClerkID,
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
		Region:    req.Region,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
	INSERT INTO users (id, clerk_id, email, username, first_name, last_name, image_url, region, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, clerk_id, email, username, first_name, last_name, image_url, email_verified, region, tier, created_at, updated_at
	`

	err := s.db.QueryRow(
		ctx,
		query,
		u.ID,
		u.ClerkID,
		u.Email,
		u.Username,
		u.FirstName,
		u.LastName,
		u.ImageURL,
		u.Region,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.Region,
		&u.Tier,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `
	SELECT id, clerk_id, email, username, first_name, last_name, image_url, email_verified, region, tier, created_at, updated_at
	FROM users
	WHERE clerk_id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.Region,
		&u.Tier,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// UserIDFromClerkID resolves the internal user id for an authenticated
// Clerk subject.
func (s *UserService) UserIDFromClerkID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

// GetTier returns the user's subscription tier together with the region
// used for REGION-mode ranking.
func (s *UserService) GetTier(ctx context.Context, clerkID string) (allowance.Tier, string, error) {
	var tier, region string
	err := s.db.QueryRow(ctx, `SELECT tier, region FROM users WHERE clerk_id = $1`, clerkID).Scan(&tier, &region)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrUserNotFound
		}
		return "", "", fmt.Errorf("failed to get tier: %w", err)
	}
	return allowance.Tier(tier), region, nil
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		username = COALESCE(NULLIF($2, ''), username),
		first_name = COALESCE(NULLIF($3, ''), first_name),
		last_name = COALESCE(NULLIF($4, ''), last_name),
		image_url = COALESCE(NULLIF($5, ''), image_url),
		region = COALESCE(NULLIF($6, ''), region),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING id, clerk_id, email, username, first_name, last_name, image_url, email_verified, region, tier, created_at, updated_at
	`

	u := &user.User{}
	err := s.db.QueryRow(
		ctx,
		query,
		clerkID,
		req.Username,
		req.FirstName,
		req.LastName,
		req.ImageURL,
		req.Region,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.Region,
		&u.Tier,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	query := `DELETE FROM users WHERE clerk_id = $1`

	result, err := s.db.Exec(ctx, query, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (s *UserService) UpdateEmailVerification(ctx context.Context, clerkID string, verified bool) error {
	query := `
	UPDATE users
	SET email_verified = $2, updated_at = NOW()
	WHERE clerk_id = $1
	`

	_, err := s.db.Exec(ctx, query, clerkID, verified)
	return err
}

// GetUserStats aggregates the profile stats for one game mode.
func (s *UserService) GetUserStats(ctx context.Context, clerkID string, gameType attempt.GameType) (*stats.UserStats, error) {
	userID, err := s.UserIDFromClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT
		COALESCE(COUNT(*) FILTER (WHERE ga.result IN ('won', 'lost')), 0) AS games_played,
		COALESCE(COUNT(*) FILTER (WHERE ga.result = 'won'), 0) AS games_won,
		COALESCE(COUNT(*) FILTER (WHERE ga.result = 'won' AND ga.guesses = 1), 0),
		COALESCE(COUNT(*) FILTER (WHERE ga.result = 'won' AND ga.guesses = 2), 0),
		COALESCE(COUNT(*) FILTER (WHERE ga.result = 'won' AND ga.guesses = 3), 0),
		COALESCE(COUNT(*) FILTER (WHERE ga.result = 'won' AND ga.guesses = 4), 0),
		COALESCE(COUNT(*) FILTER (WHERE ga.result = 'won' AND ga.guesses = 5), 0),
		COALESCE(COUNT(*) FILTER (WHERE ga.result = 'won' AND ga.guesses >= 6), 0),
		COALESCE(BOOL_OR(ga.puzzle_date = CURRENT_DATE AND ga.result IN ('won', 'lost')), false) AS today_played,
		COALESCE(COUNT(*) FILTER (
			WHERE ga.result IN ('won', 'lost')
			AND ga.puzzle_date >= DATE_TRUNC('month', CURRENT_DATE)
			AND ga.puzzle_date <= CURRENT_DATE
		), 0) AS days_this_month
	FROM game_attempts ga
	WHERE ga.user_id = $1 AND ga.game_type = $2
	`

	st := &stats.UserStats{}
	err = s.db.QueryRow(ctx, query, userID, gameType).Scan(
		&st.GamesPlayed,
		&st.GamesWon,
		&st.GuessDistribution[0],
		&st.GuessDistribution[1],
		&st.GuessDistribution[2],
		&st.GuessDistribution[3],
		&st.GuessDistribution[4],
		&st.GuessDistribution[5],
		&st.TodayPlayed,
		&st.DaysThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	if st.GamesPlayed > 0 {
		st.WinRate = float64(st.GamesWon) / float64(st.GamesPlayed) * 100
	}

	var streakRow streak.Streak
	err = s.db.QueryRow(ctx, `
	SELECT current_streak, longest_streak
	FROM streaks
	WHERE user_id = $1 AND game_type = $2
	`, userID, gameType).Scan(&streakRow.CurrentStreak, &streakRow.LongestStreak)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get streak row: %w", err)
	}
	st.CurrentStreak = streakRow.CurrentStreak
	st.MaxStreak = streakRow.LongestStreak

	err = s.db.QueryRow(ctx, `
	SELECT COUNT(*) FROM user_badges WHERE user_id = $1 AND game_type = $2
	`, userID, gameType).Scan(&st.BadgesEarned)
	if err != nil {
		return nil, fmt.Errorf("failed to count badges: %w", err)
	}

	return st, nil
}
