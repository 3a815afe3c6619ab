package handlers

import (
	"context"
	"net/http"
	"time"

	"elementleAPI/middleware"
	"elementleAPI/services"
)

type BadgeHandler struct {
	badgeService *services.BadgeService
}

func NewBadgeHandler(badgeService *services.BadgeService) *BadgeHandler {
	return &BadgeHandler{
		badgeService: badgeService,
	}
}

func (h *BadgeHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
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

	badges, err := h.badgeService.GetBadges(ctx, clerkID, gameType)
	if err != nil {
		respondWithError(w, statusForError(err), "Failed to get badges")
		return
	}

	respondWithJSON(w, http.StatusOK, badges)
}

func (h *BadgeHandler) AcknowledgeBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.badgeService.AcknowledgeBadges(ctx, clerkID); err != nil {
		respondWithError(w, statusForError(err), "Failed to acknowledge badges")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}

func (h *BadgeHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
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

	ranking, err := h.badgeService.GetMonthlyRanking(ctx, clerkID, gameType)
	if err != nil {
		respondWithError(w, statusForError(err), "Failed to get ranking")
		return
	}

	respondWithJSON(w, http.StatusOK, ranking)
}
