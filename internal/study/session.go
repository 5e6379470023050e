package study

import (
	"github.com/dewdrop/dewdrop/internal/models"
	"github.com/dewdrop/dewdrop/internal/srs"
)

// Status is the lifecycle state of a study session.
type Status int

const (
	StatusLoading Status = iota
	StatusActive
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Stats aggregates rating outcomes across a session. Correct counts scores
// at or above the pass threshold; everything below is incorrect. Total is
// the number of queue slots to rate, growing when a failed-cards section is
// appended, so Correct+Incorrect == Total once the session completes.
type Stats struct {
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Session steps through a study queue one card at a time. Cards rated 0 are
// requeued once at the end of the queue for re-study within the same
// session; a card that fails its retry is not requeued again. Scores 1-2
// count as incorrect for the stats but are not requeued.
//
// The session holds no I/O and performs no persistence. Callers persist the
// rating first and call Advance only on success, so a failed persist leaves
// the position untouched and the same card can be rated again.
type Session struct {
	scope           models.Scope
	cram            bool
	queue           []models.Card
	index           int
	failed          []models.Card
	requeued        map[int64]bool
	reviewingFailed bool
	stats           Stats
	status          Status
}

// NewSession creates a session in the loading state; Start activates it.
func NewSession(scope models.Scope, cram bool) *Session {
	return &Session{scope: scope, cram: cram, status: StatusLoading}
}

// Start activates the session over the given queue. An empty queue completes
// immediately.
func (s *Session) Start(queue []models.Card) {
	s.queue = queue
	s.index = 0
	s.failed = nil
	s.requeued = make(map[int64]bool)
	s.reviewingFailed = false
	s.stats = Stats{Total: len(queue)}
	if len(queue) == 0 {
		s.status = StatusCompleted
		return
	}
	s.status = StatusActive
}

// Reload replaces the queue and cram flag, restarting from the top. Used
// when cram mode is toggled mid-session.
func (s *Session) Reload(queue []models.Card, cram bool) {
	s.cram = cram
	s.Start(queue)
}

// Restart replays the same queue from the first card. The queue keeps any
// failed-card section appended during the previous pass.
func (s *Session) Restart() {
	s.Start(s.queue)
}

// Current returns the card awaiting a rating, or false when the session is
// not active.
func (s *Session) Current() (models.Card, bool) {
	if s.status != StatusActive || s.index >= len(s.queue) {
		return models.Card{}, false
	}
	return s.queue[s.index], true
}

// Advance records the rating outcome for the current card and moves on.
// Score 0 queues the card for a failed-cards pass after the primary pass,
// at most once per card. When the primary pass ends with failed cards
// pending, they are appended to the queue and the position jumps to the
// start of that section; otherwise the session completes.
func (s *Session) Advance(score int) {
	if s.status != StatusActive {
		return
	}

	card := s.queue[s.index]
	if srs.Success(score) {
		s.stats.Correct++
	} else {
		s.stats.Incorrect++
	}

	// Only a hard fail (score 0) earns a same-session retry, and at most one:
	// a card that fails again during the failed-cards pass stays retired
	// until its next scheduled review. Scores 1-2 are incorrect for the
	// stats but never retried in-session.
	if score == 0 && !s.requeued[card.ID] {
		s.failed = append(s.failed, card)
		s.requeued[card.ID] = true
	}

	if s.index < len(s.queue)-1 {
		s.index++
		return
	}

	if len(s.failed) > 0 {
		start := len(s.queue)
		s.queue = append(s.queue, s.failed...)
		s.failed = nil
		s.index = start
		s.stats.Total = len(s.queue)
		s.reviewingFailed = true
		return
	}

	s.reviewingFailed = false
	s.status = StatusCompleted
}

// Status returns the session's lifecycle state.
func (s *Session) Status() Status { return s.status }

// Scope returns the deck scope the session was built for.
func (s *Session) Scope() models.Scope { return s.scope }

// Cram reports whether the session runs in cram mode.
func (s *Session) Cram() bool { return s.cram }

// Stats returns the aggregate rating outcomes so far.
func (s *Session) Stats() Stats { return s.stats }

// ReviewingFailed reports whether the session is in the failed-cards pass.
func (s *Session) ReviewingFailed() bool { return s.reviewingFailed }

// QueueLength returns the current queue length, including any appended
// failed-cards section.
func (s *Session) QueueLength() int { return len(s.queue) }

// Index returns the zero-based position of the current card.
func (s *Session) Index() int { return s.index }

// PendingFailed returns how many failed cards await the failed-cards pass.
func (s *Session) PendingFailed() int { return len(s.failed) }

// Snapshot is a serializable view of a session for the presentation layer.
type Snapshot struct {
	Status          string        `json:"status"`
	Scope           models.Scope  `json:"scope"`
	Cram            bool          `json:"cram"`
	Queue           []models.Card `json:"queue"`
	Index           int           `json:"index"`
	ReviewingFailed bool          `json:"reviewing_failed"`
	PendingFailed   int           `json:"pending_failed"`
	Stats           Stats         `json:"stats"`
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	queue := make([]models.Card, len(s.queue))
	copy(queue, s.queue)
	return Snapshot{
		Status:          s.status.String(),
		Scope:           s.scope,
		Cram:            s.cram,
		Queue:           queue,
		Index:           s.index,
		ReviewingFailed: s.reviewingFailed,
		PendingFailed:   len(s.failed),
		Stats:           s.stats,
	}
}
