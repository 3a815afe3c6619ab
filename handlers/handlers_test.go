package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"elementleAPI/services"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrUserNotFound, http.StatusNotFound},
		{services.ErrPuzzleNotFound, http.StatusNotFound},
		{services.ErrNoActiveHoliday, http.StatusNotFound},
		{services.ErrNoActiveStreak, http.StatusConflict},
		{services.ErrHolidayActive, http.StatusConflict},
		{services.ErrAllowanceExhausted, http.StatusConflict},
		{services.ErrSaverNotNeeded, http.StatusConflict},
		{services.ErrAttemptFinalized, http.StatusConflict},
		{services.ErrInvalidInput, http.StatusBadRequest},
		{services.ErrDataUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForError(tt.err); got != tt.want {
			t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestStatusForErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading streak: %w", services.ErrDataUnavailable)
	if got := statusForError(wrapped); got != http.StatusServiceUnavailable {
		t.Errorf("statusForError(wrapped) = %d, want %d", got, http.StatusServiceUnavailable)
	}

	// Malformed submissions surface as 400, not 500.
	invalid := fmt.Errorf("%w: game type %q", services.ErrInvalidInput, "GLOBAL")
	if got := statusForError(invalid); got != http.StatusBadRequest {
		t.Errorf("statusForError(invalid input) = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestGameTypeParam(t *testing.T) {
	tests := []struct {
		query    string
		want     string
		wantOK   bool
		wantCode int
	}{
		{"", "USER", true, http.StatusOK},
		{"?gameType=USER", "USER", true, http.StatusOK},
		{"?gameType=REGION", "REGION", true, http.StatusOK},
		{"?gameType=global", "", false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/streak"+tt.query, nil)
		w := httptest.NewRecorder()

		gameType, ok := gameTypeParam(w, r)
		if ok != tt.wantOK {
			t.Errorf("gameTypeParam(%q) ok = %t, want %t", tt.query, ok, tt.wantOK)
			continue
		}
		if ok && string(gameType) != tt.want {
			t.Errorf("gameTypeParam(%q) = %q, want %q", tt.query, gameType, tt.want)
		}
		if !ok && w.Code != tt.wantCode {
			t.Errorf("gameTypeParam(%q) wrote %d, want %d", tt.query, w.Code, tt.wantCode)
		}
	}
}
