package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dewdrop/dewdrop/internal/jobs"
	"github.com/dewdrop/dewdrop/internal/testutil/mocks"
)

func TestCounterPruneJob_CutoffRespectsRetention(t *testing.T) {
	counters := new(mocks.MockCounterStore)
	retention := 30 * 24 * time.Hour
	job := jobs.NewCounterPruneJob(counters, retention)

	counters.On("PruneBefore", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().Add(-retention)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(int64(4), nil)

	err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "counter-prune", job.Name())
	counters.AssertExpectations(t)
}

func TestCounterPruneJob_PropagatesError(t *testing.T) {
	counters := new(mocks.MockCounterStore)
	job := jobs.NewCounterPruneJob(counters, time.Hour)

	boom := errors.New("db locked")
	counters.On("PruneBefore", mock.Anything, mock.Anything).Return(int64(0), boom)

	err := job.Run(context.Background())

	assert.ErrorIs(t, err, boom)
}

type fakePruner struct {
	gotOlderThan time.Duration
	pruned       int
}

func (f *fakePruner) PruneIdle(olderThan time.Duration) int {
	f.gotOlderThan = olderThan
	return f.pruned
}

func TestSessionSweepJob(t *testing.T) {
	pruner := &fakePruner{pruned: 2}
	job := jobs.NewSessionSweepJob(pruner, 6*time.Hour)

	err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, pruner.gotOlderThan)
	assert.Equal(t, "session-sweep", job.Name())
}
