package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewdrop/dewdrop/internal/models"
	"github.com/dewdrop/dewdrop/internal/study"
)

func TestSessionManager_AddAndGet(t *testing.T) {
	m := NewSessionManager()
	sess := study.NewSession(models.AllDecks(), false)

	id := m.Add(sess)

	require.NotEmpty(t, id)
	entry, ok := m.get(id)
	require.True(t, ok)
	assert.Same(t, sess, entry.sess)
	assert.Equal(t, 1, m.Len())
}

func TestSessionManager_IDsAreUnique(t *testing.T) {
	m := NewSessionManager()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := m.Add(study.NewSession(models.AllDecks(), false))
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSessionManager_Remove(t *testing.T) {
	m := NewSessionManager()
	id := m.Add(study.NewSession(models.AllDecks(), false))

	m.Remove(id)

	_, ok := m.get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestSessionManager_GetUnknownID(t *testing.T) {
	m := NewSessionManager()

	_, ok := m.get("nope")
	assert.False(t, ok)
}

func TestSessionManager_PruneIdle(t *testing.T) {
	m := NewSessionManager()
	stale := m.Add(study.NewSession(models.AllDecks(), false))
	fresh := m.Add(study.NewSession(models.AllDecks(), false))

	entry, ok := m.get(stale)
	require.True(t, ok)
	entry.lastTouch = time.Now().Add(-time.Hour)

	n := m.PruneIdle(30 * time.Minute)

	assert.Equal(t, 1, n)
	_, ok = m.get(stale)
	assert.False(t, ok)
	_, ok = m.get(fresh)
	assert.True(t, ok)
}

func TestSessionManager_TouchKeepsSessionAlive(t *testing.T) {
	m := NewSessionManager()
	id := m.Add(study.NewSession(models.AllDecks(), false))

	entry, ok := m.get(id)
	require.True(t, ok)
	entry.lastTouch = time.Now().Add(-time.Hour)
	entry.touch()

	n := m.PruneIdle(30 * time.Minute)

	assert.Equal(t, 0, n)
}
