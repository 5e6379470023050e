package api

import (
	"net/http"
	"strconv"

	"github.com/dewdrop/dewdrop/internal/errors"
	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/models"
)

type cardRequest struct {
	DeckID        int64  `json:"deck_id" validate:"required"`
	FrontContent  string `json:"front_content" validate:"required"`
	BackContent   string `json:"back_content" validate:"required"`
	FrontImageURL string `json:"front_image_url"`
	BackImageURL  string `json:"back_image_url"`
}

// scopeFromQuery reads the optional deck_id query parameter; absent or zero
// means all decks.
func scopeFromQuery(r *http.Request) (models.Scope, error) {
	deckIDStr := r.URL.Query().Get("deck_id")
	if deckIDStr == "" {
		return models.AllDecks(), nil
	}
	deckID, err := strconv.ParseInt(deckIDStr, 10, 64)
	if err != nil {
		return models.Scope{}, errors.NewInvalidArgumentError("deck_id", "must be an integer")
	}
	return models.DeckScope(deckID), nil
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	cards, err := s.CardService.ListCards(r.Context(), scope)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.GetCard(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.CreateCard(r.Context(), req.DeckID, models.CardUpdate{
		DeckID:        req.DeckID,
		FrontContent:  req.FrontContent,
		BackContent:   req.BackContent,
		FrontImageURL: req.FrontImageURL,
		BackImageURL:  req.BackImageURL,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card created: id=%d, deck_id=%d", card.ID, card.DeckID)
	respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.UpdateCard(r.Context(), id, models.CardUpdate{
		DeckID:        req.DeckID,
		FrontContent:  req.FrontContent,
		BackContent:   req.BackContent,
		FrontImageURL: req.FrontImageURL,
		BackImageURL:  req.BackImageURL,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.CardService.DeleteCard(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card deleted: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCardReviews(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reviews, err := s.CardService.CardReviews(r.Context(), id, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}
