package repository

import (
	"context"
	"time"

	"github.com/dewdrop/dewdrop/internal/models"
)

// CardRepository handles card data access
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	// List returns every card in scope in natural fetch order (cram mode and
	// plain card listings).
	List(ctx context.Context, scope models.Scope) ([]models.Card, error)
	// DueCards returns reviewed cards (review_count > 0) whose next review
	// date is at or before now, earliest-overdue first.
	DueCards(ctx context.Context, scope models.Scope, now time.Time) ([]models.Card, error)
	// NewCards returns up to limit never-reviewed cards, most recently
	// created first.
	NewCards(ctx context.Context, scope models.Scope, limit int) ([]models.Card, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	Update(ctx context.Context, id int64, fields models.CardUpdate) error
	// ApplyReview persists a card's new scheduling state and appends the
	// review record in a single transaction.
	ApplyReview(ctx context.Context, card models.Card, review models.Review) error
	Delete(ctx context.Context, id int64) error
	// Reviews returns the most recent review records for a card.
	Reviews(ctx context.Context, cardID int64, limit int) ([]models.Review, error)
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context) ([]models.Deck, error)
	Children(ctx context.Context, parentID int64) ([]models.Deck, error)
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	Update(ctx context.Context, deck models.Deck) error
	Delete(ctx context.Context, id int64) error
}

// SettingsRepository is a durable key-value store for user settings.
// Get returns ("", nil) when the key is absent.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// CounterStore is the durable key-value store backing the daily new-card
// counters. Keys embed the calendar date, so counters roll over implicitly;
// Get returns 0 for absent keys.
type CounterStore interface {
	Get(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value int) error
	// Increment atomically adds one to the counter, creating it at 1 when
	// absent, and returns the new value.
	Increment(ctx context.Context, key string) (int, error)
	// PruneBefore deletes counters untouched since cutoff and returns how
	// many rows went away.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
