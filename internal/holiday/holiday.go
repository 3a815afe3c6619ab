package holiday

import (
	"time"

	"github.com/google/uuid"
)

// Period is one holiday activation. The window is [StartDate, EndDate):
// the end date itself is a normal day again. At most one period per user
// may be active at a time, enforced by a partial unique index.
type Period struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	StartDate        time.Time  `json:"start_date" db:"start_date"`
	EndDate          time.Time  `json:"end_date" db:"end_date"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	DaysTaken        int        `json:"days_taken" db:"days_taken"`
	EarlyTermination bool       `json:"early_termination" db:"early_termination"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty" db:"ended_at"`
}

// Covers reports whether the given calendar date falls inside the window.
func (p *Period) Covers(d time.Time) bool {
	return !d.Before(p.StartDate) && d.Before(p.EndDate)
}

// DaysElapsed counts how many window days have passed up to and
// including today, capped at the window length.
func (p *Period) DaysElapsed(today time.Time) int {
	if today.Before(p.StartDate) {
		return 0
	}
	elapsed := int(today.Sub(p.StartDate).Hours()/24) + 1
	if total := p.DurationDays(); elapsed > total {
		return total
	}
	return elapsed
}

func (p *Period) DurationDays() int {
	return int(p.EndDate.Sub(p.StartDate).Hours() / 24)
}

// Status is the holiday state returned to the client.
type Status struct {
	Active            *Period `json:"active"`
	UsedThisYear      int     `json:"used_this_year"`
	RemainingThisYear int     `json:"remaining_this_year"`
	DurationDays      int     `json:"duration_days"`
}
