package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Engine error kinds. Handlers map these onto HTTP statuses with
// errors.Is; everything else is treated as an internal error.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPuzzleNotFound     = errors.New("puzzle not found")
	ErrNoActiveStreak     = errors.New("no active streak to protect")
	ErrNoActiveHoliday    = errors.New("no active holiday")
	ErrHolidayActive      = errors.New("holiday already active")
	ErrAllowanceExhausted = errors.New("allowance exhausted")
	ErrSaverNotNeeded     = errors.New("no missed day to save")
	ErrAttemptFinalized   = errors.New("attempt already has a terminal result")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDataUnavailable    = errors.New("data unavailable")
)

// isUniqueViolation reports whether err is a Postgres unique or
// exclusion constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
