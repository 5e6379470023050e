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
	"github.com/dewdrop/dewdrop/internal/study"
)

// StudyService builds study sessions and records ratings against them.
type StudyService interface {
	// StartSession builds the study queue for a scope and returns an active
	// session over it.
	StartSession(ctx context.Context, scope models.Scope, cram bool, now time.Time) (*study.Session, error)
	// Rate records a rating for the session's current card: scheduling state
	// is recomputed, persisted together with the review record, the daily
	// new-card counter bumps when a new card was rated outside cram mode,
	// and only then does the session advance. A failed persist leaves the
	// session exactly where it was.
	Rate(ctx context.Context, sess *study.Session, score int, timeTaken float64, now time.Time) error
	// ToggleCram flips cram mode and rebuilds the session's queue, the same
	// way the session was first built.
	ToggleCram(ctx context.Context, sess *study.Session, now time.Time) error
}

type studyService struct {
	cards    repository.CardRepository
	counters repository.CounterStore
	settings SettingsService
	builder  *study.Builder
}

// NewStudyService creates a new StudyService
func NewStudyService(cards repository.CardRepository, counters repository.CounterStore, settings SettingsService) StudyService {
	return &studyService{
		cards:    cards,
		counters: counters,
		settings: settings,
		builder:  study.NewBuilder(cards, counters),
	}
}

func (s *studyService) buildQueue(ctx context.Context, scope models.Scope, cram bool, now time.Time) ([]models.Card, error) {
	perDay, err := s.settings.GetNewCardsPerDay(ctx)
	if err != nil {
		return nil, err
	}
	queue, err := s.builder.Build(ctx, scope, now, perDay, cram)
	if err != nil {
		return nil, errors.NewStoreError(err)
	}
	return queue, nil
}

func (s *studyService) StartSession(ctx context.Context, scope models.Scope, cram bool, now time.Time) (*study.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting study session: deck_id=%d, cram=%v", scope.DeckID, cram)

	sess := study.NewSession(scope, cram)
	queue, err := s.buildQueue(ctx, scope, cram, now)
	if err != nil {
		return nil, err
	}
	sess.Start(queue)
	log.Info("study session started: queue=%d, cram=%v", sess.QueueLength(), cram)
	return sess, nil
}

func (s *studyService) Rate(ctx context.Context, sess *study.Session, score int, timeTaken float64, now time.Time) error {
	log := logger.FromContext(ctx)

	if score < srs.MinScore || score > srs.MaxScore {
		return errors.NewInvalidArgumentError("score", "must be between 0 and 5")
	}

	current, ok := sess.Current()
	if !ok {
		return errors.NewInvalidArgumentError("session", "no card awaiting a rating")
	}

	// Re-fetch so the computation starts from persisted state, not the queue
	// copy: a requeued failed card has already been rated once this session.
	card, err := s.cards.Get(ctx, current.ID)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return errors.NewStoreError(err)
	}
	if card == nil {
		return errors.NewNotFoundError("card", current.ID)
	}
	wasNew := card.IsNew()

	sched, err := srs.ComputeNextReview(*card, score, now)
	if err != nil {
		return errors.NewInvalidArgumentError("score", err.Error())
	}
	updated := srs.Apply(*card, sched, score)

	review := models.Review{
		CardID:           card.ID,
		PerformanceScore: score,
		TimeTaken:        timeTaken,
		Success:          srs.Success(score),
		ReviewedAt:       now,
	}

	if err := s.cards.ApplyReview(ctx, updated, review); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("card", card.ID)
		}
		log.Error("failed to persist review: %v", err)
		return errors.NewStoreError(err)
	}

	log.Debug("review recorded: card_id=%d, score=%d, interval=%d, ease=%.2f",
		card.ID, score, updated.IntervalDays, updated.EaseFactor)

	// A newly introduced card consumes daily quota once, and never in cram
	// mode. Counter failure is bookkeeping loss, not a failed rating.
	if wasNew && !sess.Cram() {
		if _, err := s.counters.Increment(ctx, study.DailyKey(sess.Scope(), now)); err != nil {
			log.Warn("failed to increment daily counter: %v", err)
		}
	}

	sess.Advance(score)
	return nil
}

func (s *studyService) ToggleCram(ctx context.Context, sess *study.Session, now time.Time) error {
	log := logger.FromContext(ctx)
	cram := !sess.Cram()
	log.Debug("toggling cram mode: deck_id=%d, cram=%v", sess.Scope().DeckID, cram)

	queue, err := s.buildQueue(ctx, sess.Scope(), cram, now)
	if err != nil {
		return err
	}
	sess.Reload(queue, cram)
	return nil
}
