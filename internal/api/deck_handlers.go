package api

import (
	"net/http"

	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/models"
)

type deckRequest struct {
	ParentDeckID *int64 `json:"parent_deck_id"`
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	FrontLabel   string `json:"front_label"`
	BackLabel    string `json:"back_label"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.DeckService.ListDecks(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, decks)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.GetDeck(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

func (s *Server) handleChildDecks(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	decks, err := s.DeckService.ChildDecks(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, decks)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req deckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.CreateDeck(r.Context(), models.Deck{
		ParentDeckID: req.ParentDeckID,
		Name:         req.Name,
		Description:  req.Description,
		FrontLabel:   req.FrontLabel,
		BackLabel:    req.BackLabel,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck created: id=%d", deck.ID)
	respondJSON(w, http.StatusCreated, deck)
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req deckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.UpdateDeck(r.Context(), models.Deck{
		ID:           id,
		ParentDeckID: req.ParentDeckID,
		Name:         req.Name,
		Description:  req.Description,
		FrontLabel:   req.FrontLabel,
		BackLabel:    req.BackLabel,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.DeckService.DeleteDeck(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck deleted: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
