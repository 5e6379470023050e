package api

import (
	"net/http"

	"github.com/dewdrop/dewdrop/internal/logger"
)

type settingsResponse struct {
	NewCardsPerDay int `json:"new_cards_per_day"`
}

type settingsRequest struct {
	NewCardsPerDay *int `json:"new_cards_per_day" validate:"required,gte=0,lte=1000"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	perDay, err := s.SettingsService.GetNewCardsPerDay(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settingsResponse{NewCardsPerDay: perDay})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.SettingsService.SetNewCardsPerDay(r.Context(), *req.NewCardsPerDay); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("settings updated: new_cards_per_day=%d", *req.NewCardsPerDay)
	respondJSON(w, http.StatusOK, settingsResponse{NewCardsPerDay: *req.NewCardsPerDay})
}
