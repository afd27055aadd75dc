package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reelmate_server/models"
)

func snapshotWithMatches(matches ...string) *models.Session {
	return &models.Session{
		SessionID: "session-1",
		Users:     []string{"user-a", "user-b"},
		Mode:      models.ModeCinema,
		Matches:   matches,
	}
}

func TestMatchObserver_PrimesWithoutFiring(t *testing.T) {
	var events []string
	observer := NewMatchObserver(func(movieID string) { events = append(events, movieID) })

	// Matches that existed before attaching are not announced.
	observer.Observe(snapshotWithMatches("100", "200"))

	assert.Empty(t, events)
}

func TestMatchObserver_EmitsNewestMatchPerGrowth(t *testing.T) {
	var events []string
	observer := NewMatchObserver(func(movieID string) { events = append(events, movieID) })

	// Length sequence 0 (priming) -> 0 -> 2 -> 2 -> 3 fires exactly twice,
	// for the elements at index 1 and index 2.
	observer.Observe(snapshotWithMatches())
	observer.Observe(snapshotWithMatches())
	observer.Observe(snapshotWithMatches("100", "200"))
	observer.Observe(snapshotWithMatches("100", "200"))
	observer.Observe(snapshotWithMatches("100", "200", "300"))

	assert.Equal(t, []string{"200", "300"}, events)
}

func TestMatchObserver_NilSnapshotCountsAsEmpty(t *testing.T) {
	var events []string
	observer := NewMatchObserver(func(movieID string) { events = append(events, movieID) })

	observer.Observe(nil)
	observer.Observe(snapshotWithMatches("100"))

	assert.Equal(t, []string{"100"}, events)
}

func TestMatchObserver_ToleratesShrinkingLength(t *testing.T) {
	var events []string
	observer := NewMatchObserver(func(movieID string) { events = append(events, movieID) })

	observer.Observe(snapshotWithMatches("100", "200"))
	observer.Observe(snapshotWithMatches("100"))
	observer.Observe(snapshotWithMatches("100", "200"))

	// The shrink reconciles silently; the regrowth fires for the tail.
	assert.Equal(t, []string{"200"}, events)
}

func TestMatchObserver_ResetReenters(t *testing.T) {
	var events []string
	observer := NewMatchObserver(func(movieID string) { events = append(events, movieID) })

	observer.Observe(snapshotWithMatches())
	observer.Observe(snapshotWithMatches("100"))
	assert.Equal(t, []string{"100"}, events)

	observer.Reset()

	// After a reset the next snapshot primes again without firing.
	observer.Observe(snapshotWithMatches("100", "200"))
	observer.Observe(snapshotWithMatches("100", "200", "300"))
	assert.Equal(t, []string{"100", "300"}, events)
}
