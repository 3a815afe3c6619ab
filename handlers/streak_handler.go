package handlers

import (
	"context"
	"net/http"
	"time"

	"elementleAPI/middleware"
	"elementleAPI/services"
)

type StreakHandler struct {
	streakService *services.StreakService
}

func NewStreakHandler(streakService *services.StreakService) *StreakHandler {
	return &StreakHandler{
		streakService: streakService,
	}
}

func (h *StreakHandler) GetStreakStatus(w http.ResponseWriter, r *http.Request) {
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

	status, err := h.streakService.GetStreakStatus(ctx, clerkID, gameType)
	if err != nil {
		respondWithError(w, statusForError(err), "Failed to get streak status")
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

func (h *StreakHandler) StartHoliday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	period, err := h.streakService.StartHoliday(ctx, clerkID)
	if err != nil {
		respondWithError(w, statusForError(err), "Failed to start holiday")
		return
	}

	respondWithJSON(w, http.StatusCreated, period)
}

func (h *StreakHandler) EndHoliday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	early := r.URL.Query().Get("early") == "true"

	if err := h.streakService.EndHoliday(ctx, clerkID, early); err != nil {
		respondWithError(w, statusForError(err), "Failed to end holiday")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

func (h *StreakHandler) GetHolidayStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	status, err := h.streakService.GetHolidayStatus(ctx, clerkID)
	if err != nil {
		respondWithError(w, statusForError(err), "Failed to get holiday status")
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

func (h *StreakHandler) UseStreakSaver(w http.ResponseWriter, r *http.Request) {
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

	status, err := h.streakService.UseStreakSaver(ctx, clerkID, gameType)
	if err != nil {
		respondWithError(w, statusForError(err), "Failed to use streak saver")
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

func (h *StreakHandler) DeclineStreakSaver(w http.ResponseWriter, r *http.Request) {
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

	if err := h.streakService.DeclineStreakSaver(ctx, clerkID, gameType); err != nil {
		respondWithError(w, statusForError(err), "Failed to decline streak saver")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "declined"})
}
