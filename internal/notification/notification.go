package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeBadgeAwarded    Type = "badge_awarded"
	TypeStreakMilestone Type = "streak_milestone"
	TypeHolidayEnded    Type = "holiday_ended"
)

type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Type      Type      `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateNotificationRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Type   Type      `json:"type"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
}
