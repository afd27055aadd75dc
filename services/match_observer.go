package services

import (
	"sync"

	"reelmate_server/models"
)

// MatchObserver turns a stream of session snapshots into discrete
// "new match" events. The first snapshot primes the observer without
// firing, so matches that existed before attaching (e.g. after a page
// reload) are not re-announced. From then on, a growth in the matches
// list fires the callback with the newest entry.
//
// Reconciling by length delta tolerates coalesced notifications: as
// long as matches only grows and snapshots arrive in non-decreasing
// order of length, each match is announced at most once.
type MatchObserver struct {
	mu         sync.Mutex
	priming    bool
	lastSeen   int
	onNewMatch func(movieID string)
}

// NewMatchObserver creates an observer in the priming state.
func NewMatchObserver(onNewMatch func(movieID string)) *MatchObserver {
	return &MatchObserver{priming: true, onNewMatch: onNewMatch}
}

// Observe feeds the next session snapshot to the observer. A nil
// session (document absent) counts as zero matches.
func (o *MatchObserver) Observe(session *models.Session) {
	var matches []string
	if session != nil {
		matches = session.Matches
	}

	o.mu.Lock()
	newCount := len(matches)
	if o.priming {
		o.priming = false
		o.lastSeen = newCount
		o.mu.Unlock()
		return
	}
	if newCount <= o.lastSeen {
		// Should not happen while matches are append-only; tolerate by
		// reconciling without firing.
		o.lastSeen = newCount
		o.mu.Unlock()
		return
	}
	o.lastSeen = newCount
	movieID := matches[newCount-1]
	callback := o.onNewMatch
	o.mu.Unlock()

	if callback != nil {
		callback(movieID)
	}
}

// Reset returns the observer to the priming state, as when the
// underlying subscription is torn down and re-established.
func (o *MatchObserver) Reset() {
	o.mu.Lock()
	o.priming = true
	o.lastSeen = 0
	o.mu.Unlock()
}
