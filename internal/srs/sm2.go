// Package srs implements the SM-2 derived spaced-repetition scheduler.
// ComputeNextReview is a pure function: scheduling state in, scheduling
// state out, no I/O. Callers persist the result and append a review record.
package srs

import (
	"errors"
	"math"
	"time"

	"github.com/dewdrop/dewdrop/internal/models"
)

const (
	// MinEaseFactor is the floor below which the ease factor never drops.
	MinEaseFactor = 1.3
	// InitialEaseFactor is the ease factor assigned to freshly created cards.
	InitialEaseFactor = 2.5
	// PassThreshold is the lowest score counted as a successful recall.
	PassThreshold = 3

	// MinScore and MaxScore bound the valid performance score range.
	MinScore = 0
	MaxScore = 5

	initialIntervalDays = 1
	secondIntervalDays  = 6
)

// ErrScoreOutOfRange is returned when a performance score falls outside
// [MinScore, MaxScore]. Scores are never silently clamped.
var ErrScoreOutOfRange = errors.New("srs: performance score out of range")

// Schedule is the next scheduling state computed for a card.
type Schedule struct {
	IntervalDays   int
	EaseFactor     float64
	NextReviewDate time.Time
}

// Success reports whether a score counts as a successful recall.
func Success(score int) bool { return score >= PassThreshold }

// ComputeNextReview computes the card's next interval, ease factor and review
// date from a performance score in [0,5].
//
// The ease factor moves on every review, pass or fail: score 5 nudges it up,
// score 0 drops it sharply, and MinEaseFactor caps the fall. A failing score
// (< 3) resets the interval to one day regardless of how long it had grown.
// Passing reviews walk the ladder 0 -> 1 day, 1 -> 6 days, then multiply the
// prior interval by the updated ease factor.
func ComputeNextReview(card models.Card, score int, now time.Time) (Schedule, error) {
	if score < MinScore || score > MaxScore {
		return Schedule{}, ErrScoreOutOfRange
	}

	miss := float64(MaxScore - score)
	ease := card.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}

	var interval int
	switch {
	case score < PassThreshold:
		interval = initialIntervalDays
	case card.IntervalDays == 0:
		interval = initialIntervalDays
	case card.IntervalDays == 1:
		interval = secondIntervalDays
	default:
		interval = int(math.Round(float64(card.IntervalDays) * ease))
	}

	return Schedule{
		IntervalDays:   interval,
		EaseFactor:     ease,
		NextReviewDate: now.AddDate(0, 0, interval),
	}, nil
}

// Apply returns a copy of card with the schedule applied and the review
// bookkeeping done: the review count increments by one and the success rate
// is recomputed incrementally using the pre-increment count.
func Apply(card models.Card, sched Schedule, score int) models.Card {
	hit := 0.0
	if Success(score) {
		hit = 1
	}
	card.SuccessRate = (card.SuccessRate*float64(card.ReviewCount) + hit) / float64(card.ReviewCount+1)
	card.ReviewCount++
	card.IntervalDays = sched.IntervalDays
	card.EaseFactor = sched.EaseFactor
	card.NextReviewDate = sched.NextReviewDate
	return card
}
