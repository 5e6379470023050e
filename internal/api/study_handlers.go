package api

import (
	"net/http"
	"time"

	"github.com/dewdrop/dewdrop/internal/errors"
	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/models"
	"github.com/dewdrop/dewdrop/internal/study"

	"github.com/go-chi/chi/v5"
)

type startSessionRequest struct {
	DeckID int64 `json:"deck_id"`
	Cram   bool  `json:"cram"`
}

type rateRequest struct {
	Score     *int    `json:"score" validate:"required,gte=0,lte=5"`
	TimeTaken float64 `json:"time_taken" validate:"gte=0"`
}

type sessionResponse struct {
	ID string `json:"id"`
	study.Snapshot
}

func (s *Server) lookupSession(r *http.Request) (string, *sessionEntry, error) {
	id := chi.URLParam(r, "id")
	entry, ok := s.Sessions.get(id)
	if !ok {
		return "", nil, errors.NewNotFoundError("session", id)
	}
	return id, entry, nil
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	scope := models.AllDecks()
	if req.DeckID != 0 {
		scope = models.DeckScope(req.DeckID)
	}

	sess, err := s.StudyService.StartSession(r.Context(), scope, req.Cram, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}

	id := s.Sessions.Add(sess)
	log.Info("study session started: session_id=%s, deck_id=%d, queue=%d", id, scope.DeckID, sess.QueueLength())
	respondJSON(w, http.StatusCreated, sessionResponse{ID: id, Snapshot: sess.Snapshot()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, entry, err := s.lookupSession(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touch()
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: entry.sess.Snapshot()})
}

func (s *Server) handleRateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, entry, err := s.lookupSession(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touch()

	if err := s.StudyService.Rate(r.Context(), entry.sess, *req.Score, req.TimeTaken, time.Now()); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("card rated: session_id=%s, score=%d", id, *req.Score)
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: entry.sess.Snapshot()})
}

func (s *Server) handleToggleCram(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, entry, err := s.lookupSession(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touch()

	if err := s.StudyService.ToggleCram(r.Context(), entry.sess, time.Now()); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("cram mode toggled: session_id=%s, cram=%v", id, entry.sess.Cram())
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: entry.sess.Snapshot()})
}

func (s *Server) handleRestartSession(w http.ResponseWriter, r *http.Request) {
	id, entry, err := s.lookupSession(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touch()
	entry.sess.Restart()
	respondJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: entry.sess.Snapshot()})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id, _, err := s.lookupSession(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.Sessions.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}
