package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/dewdrop/dewdrop/internal/errors"
	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/models"
	"github.com/dewdrop/dewdrop/internal/repository"
	"github.com/dewdrop/dewdrop/internal/srs"
)

// CardService handles card CRUD
type CardService interface {
	ListCards(ctx context.Context, scope models.Scope) ([]models.Card, error)
	GetCard(ctx context.Context, id int64) (*models.Card, error)
	CreateCard(ctx context.Context, deckID int64, fields models.CardUpdate) (*models.Card, error)
	UpdateCard(ctx context.Context, id int64, fields models.CardUpdate) (*models.Card, error)
	DeleteCard(ctx context.Context, id int64) error
	CardReviews(ctx context.Context, cardID int64, limit int) ([]models.Review, error)
}

type cardService struct {
	cards repository.CardRepository
	decks repository.DeckRepository
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository, decks repository.DeckRepository) CardService {
	return &cardService{cards: cards, decks: decks}
}

func (s *cardService) ListCards(ctx context.Context, scope models.Scope) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: deck_id=%d", scope.DeckID)

	cards, err := s.cards.List(ctx, scope)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewStoreError(err)
	}
	return cards, nil
}

func (s *cardService) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting card: id=%d", id)

	card, err := s.cards.Get(ctx, id)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewStoreError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

// CreateCard inserts a card with fresh scheduling state: interval 0, ease
// 2.5, due immediately, zero reviews.
func (s *cardService) CreateCard(ctx context.Context, deckID int64, fields models.CardUpdate) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: deck_id=%d", deckID)

	if fields.FrontContent == "" {
		return nil, errors.NewInvalidArgumentError("front_content", "cannot be empty")
	}
	if fields.BackContent == "" {
		return nil, errors.NewInvalidArgumentError("back_content", "cannot be empty")
	}

	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewStoreError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	card := models.Card{
		DeckID:         deckID,
		FrontContent:   fields.FrontContent,
		BackContent:    fields.BackContent,
		FrontImageURL:  fields.FrontImageURL,
		BackImageURL:   fields.BackImageURL,
		IntervalDays:   0,
		EaseFactor:     srs.InitialEaseFactor,
		NextReviewDate: time.Now(),
		ReviewCount:    0,
		SuccessRate:    0,
	}

	id, err := s.cards.Insert(ctx, card)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewStoreError(err)
	}
	return s.GetCard(ctx, id)
}

func (s *cardService) UpdateCard(ctx context.Context, id int64, fields models.CardUpdate) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating card: id=%d", id)

	if fields.FrontContent == "" {
		return nil, errors.NewInvalidArgumentError("front_content", "cannot be empty")
	}
	if fields.BackContent == "" {
		return nil, errors.NewInvalidArgumentError("back_content", "cannot be empty")
	}

	if err := s.cards.Update(ctx, id, fields); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("card", id)
		}
		log.Error("failed to update card: %v", err)
		return nil, errors.NewStoreError(err)
	}
	return s.GetCard(ctx, id)
}

func (s *cardService) DeleteCard(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: id=%d", id)

	if err := s.cards.Delete(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("card", id)
		}
		log.Error("failed to delete card: %v", err)
		return errors.NewStoreError(err)
	}
	return nil
}

func (s *cardService) CardReviews(ctx context.Context, cardID int64, limit int) ([]models.Review, error) {
	log := logger.FromContext(ctx)
	log.Debug("fetching reviews: card_id=%d", cardID)

	if limit <= 0 {
		limit = 50
	}
	reviews, err := s.cards.Reviews(ctx, cardID, limit)
	if err != nil {
		log.Error("failed to fetch reviews: %v", err)
		return nil, errors.NewStoreError(err)
	}
	return reviews, nil
}
