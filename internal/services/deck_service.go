package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/dewdrop/dewdrop/internal/errors"
	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/models"
	"github.com/dewdrop/dewdrop/internal/repository"
)

// DeckService handles deck-related business logic
type DeckService interface {
	ListDecks(ctx context.Context) ([]models.Deck, error)
	GetDeck(ctx context.Context, id int64) (*models.Deck, error)
	ChildDecks(ctx context.Context, parentID int64) ([]models.Deck, error)
	CreateDeck(ctx context.Context, deck models.Deck) (*models.Deck, error)
	UpdateDeck(ctx context.Context, deck models.Deck) (*models.Deck, error)
	DeleteDeck(ctx context.Context, id int64) error
}

type deckService struct {
	decks repository.DeckRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository) DeckService {
	return &deckService{decks: decks}
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks")

	decks, err := s.decks.List(ctx)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewStoreError(err)
	}
	return decks, nil
}

func (s *deckService) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting deck: id=%d", id)

	deck, err := s.decks.Get(ctx, id)
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, errors.NewStoreError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func (s *deckService) ChildDecks(ctx context.Context, parentID int64) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing child decks: parent_id=%d", parentID)

	decks, err := s.decks.Children(ctx, parentID)
	if err != nil {
		log.Error("failed to list child decks: %v", err)
		return nil, errors.NewStoreError(err)
	}
	return decks, nil
}

// defaultLabels fills in the face labels when the caller leaves them blank.
func defaultLabels(deck *models.Deck) {
	if deck.FrontLabel == "" {
		deck.FrontLabel = models.DefaultFrontLabel
	}
	if deck.BackLabel == "" {
		deck.BackLabel = models.DefaultBackLabel
	}
}

func (s *deckService) CreateDeck(ctx context.Context, deck models.Deck) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: name=%s", deck.Name)

	if deck.Name == "" {
		return nil, errors.NewInvalidArgumentError("name", "cannot be empty")
	}
	defaultLabels(&deck)

	if deck.ParentDeckID != nil {
		parent, err := s.decks.Get(ctx, *deck.ParentDeckID)
		if err != nil {
			return nil, errors.NewStoreError(err)
		}
		if parent == nil {
			return nil, errors.NewNotFoundError("deck", *deck.ParentDeckID)
		}
	}

	id, err := s.decks.Insert(ctx, deck)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return nil, errors.NewStoreError(err)
	}
	return s.GetDeck(ctx, id)
}

func (s *deckService) UpdateDeck(ctx context.Context, deck models.Deck) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating deck: id=%d", deck.ID)

	if deck.Name == "" {
		return nil, errors.NewInvalidArgumentError("name", "cannot be empty")
	}
	defaultLabels(&deck)

	if err := s.decks.Update(ctx, deck); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("deck", deck.ID)
		}
		log.Error("failed to update deck: %v", err)
		return nil, errors.NewStoreError(err)
	}
	return s.GetDeck(ctx, deck.ID)
}

func (s *deckService) DeleteDeck(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: id=%d", id)

	if err := s.decks.Delete(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("deck", id)
		}
		log.Error("failed to delete deck: %v", err)
		return errors.NewStoreError(err)
	}
	return nil
}
