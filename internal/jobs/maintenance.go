// Package jobs holds the background maintenance jobs run by the worker pool.
package jobs

import (
	"context"
	"time"

	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/repository"
)

// CounterPruneJob deletes daily new-card counters past the retention window.
// Counter keys embed the calendar date, so old rows are dead weight once the
// day rolls over.
type CounterPruneJob struct {
	counters  repository.CounterStore
	retention time.Duration
}

// NewCounterPruneJob creates the prune job with the given retention window.
func NewCounterPruneJob(counters repository.CounterStore, retention time.Duration) *CounterPruneJob {
	return &CounterPruneJob{counters: counters, retention: retention}
}

func (j *CounterPruneJob) Name() string { return "counter-prune" }

func (j *CounterPruneJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	cutoff := time.Now().Add(-j.retention)
	n, err := j.counters.PruneBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	log.Info("pruned %d stale daily counters", n)
	return nil
}

// SessionPruner removes idle study sessions and reports how many went away.
type SessionPruner interface {
	PruneIdle(olderThan time.Duration) int
}

// SessionSweepJob drops in-memory study sessions nobody has touched for a
// while; abandoned sessions would otherwise accumulate until restart.
type SessionSweepJob struct {
	sessions SessionPruner
	maxIdle  time.Duration
}

// NewSessionSweepJob creates the sweep job with the given idle cutoff.
func NewSessionSweepJob(sessions SessionPruner, maxIdle time.Duration) *SessionSweepJob {
	return &SessionSweepJob{sessions: sessions, maxIdle: maxIdle}
}

func (j *SessionSweepJob) Name() string { return "session-sweep" }

func (j *SessionSweepJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	n := j.sessions.PruneIdle(j.maxIdle)
	if n > 0 {
		log.Info("swept %d idle study sessions", n)
	}
	return nil
}
