package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewdrop/dewdrop/internal/models"
)

func testQueue(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{ID: int64(i + 1), FrontContent: "front", BackContent: "back"}
	}
	return cards
}

func TestSession_Lifecycle(t *testing.T) {
	sess := NewSession(models.AllDecks(), false)
	assert.Equal(t, StatusLoading, sess.Status())

	sess.Start(testQueue(2))
	assert.Equal(t, StatusActive, sess.Status())

	sess.Advance(4)
	sess.Advance(4)
	assert.Equal(t, StatusCompleted, sess.Status())
	assert.Equal(t, Stats{Total: 2, Correct: 2}, sess.Stats())
}

func TestSession_EmptyQueueCompletesImmediately(t *testing.T) {
	sess := NewSession(models.AllDecks(), false)
	sess.Start(nil)

	assert.Equal(t, StatusCompleted, sess.Status())
	_, ok := sess.Current()
	assert.False(t, ok)
}

func TestSession_CurrentAdvances(t *testing.T) {
	sess := NewSession(models.DeckScope(7), false)
	sess.Start(testQueue(3))

	card, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, int64(1), card.ID)

	sess.Advance(5)
	card, ok = sess.Current()
	require.True(t, ok)
	assert.Equal(t, int64(2), card.ID)
	assert.Equal(t, 1, sess.Index())
}

func TestSession_HardFailRequeuesOnce(t *testing.T) {
	sess := NewSession(models.AllDecks(), false)
	sess.Start(testQueue(3))

	sess.Advance(0)
	assert.Equal(t, 1, sess.PendingFailed())

	sess.Advance(4)
	sess.Advance(4)

	// The primary pass ended with one failed card, so the queue grows by one
	// and the position jumps to the failed section.
	assert.Equal(t, StatusActive, sess.Status())
	assert.True(t, sess.ReviewingFailed())
	assert.Equal(t, 4, sess.QueueLength())
	assert.Equal(t, 0, sess.PendingFailed())

	card, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, int64(1), card.ID)

	sess.Advance(3)
	assert.Equal(t, StatusCompleted, sess.Status())
}

func TestSession_PartialFailNotRequeued(t *testing.T) {
	sess := NewSession(models.AllDecks(), false)
	sess.Start(testQueue(2))

	// Scores 1 and 2 are wrong answers but do not earn a same-session retry.
	sess.Advance(1)
	sess.Advance(2)

	assert.Equal(t, StatusCompleted, sess.Status())
	assert.Equal(t, Stats{Total: 2, Incorrect: 2}, sess.Stats())
}

func TestSession_FailedCardDeduplicated(t *testing.T) {
	sess := NewSession(models.AllDecks(), false)
	sess.Start(testQueue(1))

	sess.Advance(0)
	require.True(t, sess.ReviewingFailed())
	assert.Equal(t, 2, sess.QueueLength())

	// Failing the same card again during the failed pass must not grow the
	// queue a second time; the session completes after one retry.
	sess.Advance(0)
	assert.Equal(t, StatusCompleted, sess.Status())
	assert.Equal(t, 2, sess.QueueLength())
	assert.Equal(t, 0, sess.PendingFailed())
}

func TestSession_FailedRetryNeverLoops(t *testing.T) {
	sess := NewSession(models.AllDecks(), false)
	sess.Start(testQueue(3))

	// Fail every card in the primary pass and again in the failed pass. The
	// session must still terminate with exactly one retry per card.
	for i := 0; i < 3; i++ {
		sess.Advance(0)
	}
	require.True(t, sess.ReviewingFailed())
	require.Equal(t, 6, sess.QueueLength())

	for i := 0; i < 3; i++ {
		sess.Advance(0)
	}
	assert.Equal(t, StatusCompleted, sess.Status())
	assert.Equal(t, 6, sess.QueueLength())
	assert.Equal(t, Stats{Total: 6, Incorrect: 6}, sess.Stats())
}

func TestSession_FailedPassStatsCountEveryRating(t *testing.T) {
	sess := NewSession(models.AllDecks(), false)
	sess.Start(testQueue(2))

	sess.Advance(0)
	sess.Advance(5)
	require.True(t, sess.ReviewingFailed())
	sess.Advance(4)

	// Total grew with the failed section, so every rating is accounted for.
	stats := sess.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Correct)
	assert.Equal(t, 1, stats.Incorrect)
	assert.Equal(t, stats.Total, stats.Correct+stats.Incorrect)
}

func TestSession_Restart(t *testing.T) {
	sess := NewSession(models.AllDecks(), false)
	sess.Start(testQueue(2))
	sess.Advance(4)
	sess.Advance(4)
	require.Equal(t, StatusCompleted, sess.Status())

	sess.Restart()

	assert.Equal(t, StatusActive, sess.Status())
	assert.Equal(t, 0, sess.Index())
	assert.Equal(t, Stats{Total: 2}, sess.Stats())
	card, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, int64(1), card.ID)
}

func TestSession_ReloadSwitchesCram(t *testing.T) {
	sess := NewSession(models.DeckScope(3), false)
	sess.Start(testQueue(2))
	sess.Advance(4)

	sess.Reload(testQueue(5), true)

	assert.True(t, sess.Cram())
	assert.Equal(t, StatusActive, sess.Status())
	assert.Equal(t, 0, sess.Index())
	assert.Equal(t, 5, sess.QueueLength())
	assert.Equal(t, Stats{Total: 5}, sess.Stats())
}

func TestSession_AdvanceIgnoredWhenNotActive(t *testing.T) {
	sess := NewSession(models.AllDecks(), false)
	sess.Advance(4)
	assert.Equal(t, StatusLoading, sess.Status())
	assert.Equal(t, Stats{}, sess.Stats())

	sess.Start(nil)
	sess.Advance(4)
	assert.Equal(t, StatusCompleted, sess.Status())
	assert.Equal(t, Stats{}, sess.Stats())
}

func TestSession_SnapshotCopiesQueue(t *testing.T) {
	sess := NewSession(models.DeckScope(2), true)
	sess.Start(testQueue(2))
	sess.Advance(0)

	snap := sess.Snapshot()

	assert.Equal(t, "active", snap.Status)
	assert.Equal(t, models.DeckScope(2), snap.Scope)
	assert.True(t, snap.Cram)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, 1, snap.PendingFailed)
	require.Len(t, snap.Queue, 2)

	snap.Queue[0].FrontContent = "mutated"
	card, ok := sess.Current()
	require.True(t, ok)
	assert.NotEqual(t, "mutated", card.FrontContent)
}
