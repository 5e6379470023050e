// Package study builds study queues and drives review sessions over them.
package study

import (
	"context"
	"time"

	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/models"
	"github.com/dewdrop/dewdrop/internal/repository"
)

// Builder assembles the ordered queue of cards to study for a scope. It
// reads the daily new-card counter but never mutates it; incrementing
// happens when a new card is actually rated, so rebuilding a queue (page
// reload, cram toggle) can never burn quota.
type Builder struct {
	cards    repository.CardRepository
	counters repository.CounterStore
}

// NewBuilder creates a queue Builder over the given stores.
func NewBuilder(cards repository.CardRepository, counters repository.CounterStore) *Builder {
	return &Builder{cards: cards, counters: counters}
}

// Build returns the cards eligible for study at now: all due review cards,
// earliest-overdue first, followed by up to (newCardsPerDay - shown today)
// new cards, newest first. In cram mode every card in scope comes back in
// natural fetch order and the daily counter is ignored entirely.
//
// The due fetch, the counter read and the new-card fetch are three separate
// reads with no atomicity between them; a card changing state in between
// shifts at most its own placement.
func (b *Builder) Build(ctx context.Context, scope models.Scope, now time.Time, newCardsPerDay int, cram bool) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("study")

	if cram {
		cards, err := b.cards.List(ctx, scope)
		if err != nil {
			log.Error("failed to list cards for cram: %v", err)
			return nil, err
		}
		log.Debug("cram queue built: deck_id=%d, cards=%d", scope.DeckID, len(cards))
		return cards, nil
	}

	due, err := b.cards.DueCards(ctx, scope, now)
	if err != nil {
		log.Error("failed to fetch due cards: %v", err)
		return nil, err
	}

	shown, err := b.counters.Get(ctx, DailyKey(scope, now))
	if err != nil {
		log.Error("failed to read daily counter: %v", err)
		return nil, err
	}

	remaining := newCardsPerDay - shown
	if remaining <= 0 {
		log.Debug("daily new-card cap reached: shown=%d, cap=%d", shown, newCardsPerDay)
		return due, nil
	}

	fresh, err := b.cards.NewCards(ctx, scope, remaining)
	if err != nil {
		log.Error("failed to fetch new cards: %v", err)
		return nil, err
	}

	log.Debug("queue built: deck_id=%d, due=%d, new=%d", scope.DeckID, len(due), len(fresh))
	return append(due, fresh...), nil
}
