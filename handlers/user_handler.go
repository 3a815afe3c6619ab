package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"elementleAPI/internal/attempt"
	"elementleAPI/internal/user"
	"elementleAPI/middleware"
	"elementleAPI/services"
)

type UserHandler struct {
	userService *services.UserService
	gameService *services.GameService
}

func NewUserHandler(userService *services.UserService, gameService *services.GameService) *UserHandler {
	return &UserHandler{
		userService: userService,
		gameService: gameService,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, statusForError(err), "User not found")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.userService.UpdateProfileByClerkID(ctx, clerkID, &req)
	if err != nil {
		respondWithError(w, statusForError(err), "Failed to update profile")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.userService.DeleteUserByClerkID(ctx, clerkID); err != nil {
		respondWithError(w, statusForError(err), "Failed to delete account")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *UserHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	gameType, ok := gameTypeParam(w, r)
	if !ok {
		return
	}

	userStats, err := h.userService.GetUserStats(ctx, clerkID, gameType)
	if err != nil {
		respondWithError(w, statusForError(err), "Failed to get stats")
		return
	}

	respondWithJSON(w, http.StatusOK, userStats)
}

func (h *UserHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	gameType, ok := gameTypeParam(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil || parsed < 2020 || parsed > now.Year()+1 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'year' parameter")
			return
		}
		year = parsed
	}
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'month' parameter")
			return
		}
		month = parsed
	}

	calendarMonth, err := h.gameService.GetCalendar(ctx, clerkID, gameType, year, month)
	if err != nil {
		respondWithError(w, statusForError(err), "Failed to get calendar")
		return
	}

	respondWithJSON(w, http.StatusOK, calendarMonth)
}

// gameTypeParam reads the gameType query parameter, defaulting to the
// personal game. A bad value writes the 400 itself.
func gameTypeParam(w http.ResponseWriter, r *http.Request) (attempt.GameType, bool) {
	raw := r.URL.Query().Get("gameType")
	if raw == "" {
		return attempt.GameTypeUser, true
	}
	gameType := attempt.GameType(raw)
	if !gameType.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid 'gameType' parameter")
		return "", false
	}
	return gameType, true
}

// statusForError maps service sentinels onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPuzzleNotFound),
		errors.Is(err, services.ErrNoActiveHoliday):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNoActiveStreak),
		errors.Is(err, services.ErrHolidayActive),
		errors.Is(err, services.ErrAllowanceExhausted),
		errors.Is(err, services.ErrSaverNotNeeded),
		errors.Is(err, services.ErrAttemptFinalized):
		return http.StatusConflict
	case errors.Is(err, services.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
