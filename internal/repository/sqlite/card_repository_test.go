package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dewdrop/dewdrop/internal/models"
	"github.com/dewdrop/dewdrop/internal/repository"
	"github.com/dewdrop/dewdrop/internal/repository/sqlite"
	"github.com/dewdrop/dewdrop/internal/srs"
	"github.com/dewdrop/dewdrop/internal/testutil"
)

type CardRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	repo  repository.CardRepository
	decks repository.DeckRepository
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)
	s.decks = sqlite.NewDeckRepository(s.db)
}

func (s *CardRepositorySuite) setupDeck(name string) int64 {
	id, err := s.decks.Insert(context.Background(), models.Deck{
		Name:       name,
		FrontLabel: models.DefaultFrontLabel,
		BackLabel:  models.DefaultBackLabel,
	})
	s.Require().NoError(err)
	return id
}

func (s *CardRepositorySuite) insertCard(deckID int64, reviewCount int, nextReview time.Time) int64 {
	id, err := s.repo.Insert(context.Background(), models.Card{
		DeckID:         deckID,
		FrontContent:   "front",
		BackContent:    "back",
		IntervalDays:   0,
		EaseFactor:     srs.InitialEaseFactor,
		NextReviewDate: nextReview,
		ReviewCount:    reviewCount,
	})
	s.Require().NoError(err)
	return id
}

func (s *CardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	deckID := s.setupDeck("Spanish")

	id, err := s.repo.Insert(ctx, models.Card{
		DeckID:         deckID,
		FrontContent:   "hola",
		BackContent:    "hello",
		FrontImageURL:  "https://example.com/hola.png",
		EaseFactor:     srs.InitialEaseFactor,
		NextReviewDate: time.Now().UTC(),
	})
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	card, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Assert().Equal("hola", card.FrontContent)
	s.Assert().Equal("hello", card.BackContent)
	s.Assert().Equal("https://example.com/hola.png", card.FrontImageURL)
	s.Assert().Equal(deckID, card.DeckID)
	s.Assert().Equal(0, card.ReviewCount)
	s.Assert().Equal(srs.InitialEaseFactor, card.EaseFactor)
}

func (s *CardRepositorySuite) TestGetMissingReturnsNil() {
	card, err := s.repo.Get(context.Background(), 9999)
	s.Require().NoError(err)
	s.Assert().Nil(card)
}

func (s *CardRepositorySuite) TestUpdateContent() {
	ctx := context.Background()
	deckID := s.setupDeck("Spanish")
	id := s.insertCard(deckID, 0, time.Now().UTC())

	err := s.repo.Update(ctx, id, models.CardUpdate{
		DeckID:       deckID,
		FrontContent: "adios",
		BackContent:  "goodbye",
	})
	s.Require().NoError(err)

	card, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Assert().Equal("adios", card.FrontContent)
	s.Assert().Equal("goodbye", card.BackContent)
}

func (s *CardRepositorySuite) TestUpdateMissingCard() {
	err := s.repo.Update(context.Background(), 9999, models.CardUpdate{DeckID: 1})
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *CardRepositorySuite) TestDueCardsFilteringAndOrder() {
	ctx := context.Background()
	deckID := s.setupDeck("Spanish")
	now := time.Now().UTC()

	oldest := s.insertCard(deckID, 2, now.Add(-72*time.Hour))
	recent := s.insertCard(deckID, 1, now.Add(-time.Hour))
	s.insertCard(deckID, 3, now.Add(48*time.Hour)) // not yet due
	s.insertCard(deckID, 0, now.Add(-time.Hour))   // new, never reviewed

	due, err := s.repo.DueCards(ctx, models.AllDecks(), now)
	s.Require().NoError(err)
	s.Require().Len(due, 2)
	s.Assert().Equal(oldest, due[0].ID)
	s.Assert().Equal(recent, due[1].ID)
}

func (s *CardRepositorySuite) TestDueCardsScopedToDeck() {
	ctx := context.Background()
	spanish := s.setupDeck("Spanish")
	french := s.setupDeck("French")
	now := time.Now().UTC()

	inSpanish := s.insertCard(spanish, 1, now.Add(-time.Hour))
	s.insertCard(french, 1, now.Add(-time.Hour))

	due, err := s.repo.DueCards(ctx, models.DeckScope(spanish), now)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Assert().Equal(inSpanish, due[0].ID)
}

func (s *CardRepositorySuite) TestNewCardsNewestFirstWithLimit() {
	ctx := context.Background()
	deckID := s.setupDeck("Spanish")
	now := time.Now().UTC()

	s.insertCard(deckID, 0, now)
	second := s.insertCard(deckID, 0, now)
	third := s.insertCard(deckID, 0, now)
	s.insertCard(deckID, 2, now.Add(-time.Hour)) // already in review

	fresh, err := s.repo.NewCards(ctx, models.AllDecks(), 2)
	s.Require().NoError(err)
	s.Require().Len(fresh, 2)
	s.Assert().Equal(third, fresh[0].ID)
	s.Assert().Equal(second, fresh[1].ID)
}

func (s *CardRepositorySuite) TestApplyReviewWritesBothRows() {
	ctx := context.Background()
	deckID := s.setupDeck("Spanish")
	now := time.Now().UTC()
	id := s.insertCard(deckID, 0, now)

	card, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(card)

	sched, err := srs.ComputeNextReview(*card, 4, now)
	s.Require().NoError(err)
	updated := srs.Apply(*card, sched, 4)

	err = s.repo.ApplyReview(ctx, updated, models.Review{
		CardID:           id,
		PerformanceScore: 4,
		TimeTaken:        3.2,
		Success:          true,
		ReviewedAt:       now,
	})
	s.Require().NoError(err)

	stored, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Assert().Equal(1, stored.IntervalDays)
	s.Assert().Equal(1, stored.ReviewCount)
	s.Assert().Equal(1.0, stored.SuccessRate)

	reviews, err := s.repo.Reviews(ctx, id, 10)
	s.Require().NoError(err)
	s.Require().Len(reviews, 1)
	s.Assert().Equal(4, reviews[0].PerformanceScore)
	s.Assert().Equal(3.2, reviews[0].TimeTaken)
	s.Assert().True(reviews[0].Success)
}

func (s *CardRepositorySuite) TestApplyReviewMissingCardRollsBack() {
	ctx := context.Background()
	now := time.Now().UTC()

	err := s.repo.ApplyReview(ctx, models.Card{ID: 9999, EaseFactor: 2.5}, models.Review{
		CardID:     9999,
		ReviewedAt: now,
	})
	s.Assert().ErrorIs(err, sql.ErrNoRows)

	// The review insert must not survive the failed card update.
	var count int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&count)
	s.Require().NoError(err)
	s.Assert().Equal(0, count)
}

func (s *CardRepositorySuite) TestDeleteCascadesReviews() {
	ctx := context.Background()
	deckID := s.setupDeck("Spanish")
	now := time.Now().UTC()
	id := s.insertCard(deckID, 0, now)

	_, err := s.db.ExecContext(ctx, `
INSERT INTO reviews (card_id, performance_score, time_taken, success, reviewed_at)
VALUES (?, 4, 2.0, 1, ?)
`, id, now)
	s.Require().NoError(err)

	err = s.repo.Delete(ctx, id)
	s.Require().NoError(err)

	card, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Nil(card)

	var count int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE card_id = ?`, id).Scan(&count)
	s.Require().NoError(err)
	s.Assert().Equal(0, count)
}

func (s *CardRepositorySuite) TestDeleteMissingCard() {
	err := s.repo.Delete(context.Background(), 9999)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *CardRepositorySuite) TestListScoped() {
	ctx := context.Background()
	spanish := s.setupDeck("Spanish")
	french := s.setupDeck("French")
	now := time.Now().UTC()

	s.insertCard(spanish, 0, now)
	s.insertCard(spanish, 1, now)
	s.insertCard(french, 0, now)

	all, err := s.repo.List(ctx, models.AllDecks())
	s.Require().NoError(err)
	s.Assert().Len(all, 3)

	scoped, err := s.repo.List(ctx, models.DeckScope(french))
	s.Require().NoError(err)
	s.Assert().Len(scoped, 1)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
