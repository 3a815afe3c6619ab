package jobs

import (
	"testing"

	"github.com/google/uuid"

	"elementleAPI/internal/notification"
)

func TestHolidayEndedNotification(t *testing.T) {
	userID := uuid.New()
	req := holidayEndedNotification(userID)

	if req.UserID != userID {
		t.Errorf("UserID = %s, want %s", req.UserID, userID)
	}
	if req.Type != notification.TypeHolidayEnded {
		t.Errorf("Type = %q, want %q", req.Type, notification.TypeHolidayEnded)
	}
	if req.Title == "" || req.Body == "" {
		t.Error("notification has empty title or body")
	}
}
