package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"elementleAPI/internal/attempt"
	"elementleAPI/middleware"
	"elementleAPI/services"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

func (h *GameHandler) GetTodayPuzzle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.gameService.GetTodayPuzzle(ctx)
	if err != nil {
		respondWithError(w, statusForError(err), "No puzzle for today")
		return
	}

	// The answer stays server-side until the attempt resolves.
	respondWithJSON(w, http.StatusOK, p.Public())
}

func (h *GameHandler) GetPuzzleByDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	raw := r.URL.Query().Get("date")
	if raw == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'date' is required")
		return
	}
	date, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}
	if date.After(time.Now().UTC()) {
		respondWithError(w, http.StatusBadRequest, "Puzzle date is in the future")
		return
	}

	p, err := h.gameService.GetPuzzleByDate(ctx, date)
	if err != nil {
		respondWithError(w, statusForError(err), "No puzzle for that date")
		return
	}

	respondWithJSON(w, http.StatusOK, p.Public())
}

func (h *GameHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req attempt.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.gameService.SubmitAttempt(ctx, clerkID, &req)
	if err != nil {
		respondWithError(w, statusForError(err), "Failed to submit attempt")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
