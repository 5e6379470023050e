package study

import (
	"fmt"
	"time"

	"github.com/dewdrop/dewdrop/internal/models"
)

// DailyKey returns the daily new-card counter key for a scope on the
// calendar day of t. The date is part of the key, so counters reset at
// midnight without any explicit cleanup, and per-deck and all-decks limits
// stay independent.
func DailyKey(scope models.Scope, t time.Time) string {
	day := t.Format("2006-01-02")
	if scope.IsAllDecks() {
		return fmt.Sprintf("new_cards:%s:all", day)
	}
	return fmt.Sprintf("new_cards:%s:deck:%d", day, scope.DeckID)
}
