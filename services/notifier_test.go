package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"reelmate_server/utils"
)

func TestNotifier_WriteDuringFetchIsDelivered(t *testing.T) {
	hub := newNotifier()
	key := "sessions/session-1"
	stale := Doc{"matches": []string{}}
	fresh := Doc{"matches": []string{"603"}}

	updates := make(chan Doc, 4)
	unsubscribe := hub.subscribe(key, func() (Doc, error) {
		// A write lands while the initial read is in flight; the read
		// still returns the pre-write state.
		hub.publish(key, fresh)
		return stale, nil
	}, func(d Doc) { updates <- d }, func(err error) { t.Errorf("unexpected error: %v", err) })
	defer unsubscribe()

	first := waitForDoc(t, updates)
	assert.Empty(t, utils.GetStringSlice(first, "matches"))

	// The racing write must follow the snapshot, not vanish.
	next := waitForDoc(t, updates)
	assert.Equal(t, []string{"603"}, utils.GetStringSlice(next, "matches"))
}

func TestNotifier_PreSubscribeWritesNotRedelivered(t *testing.T) {
	hub := newNotifier()
	key := "sessions/session-1"
	current := Doc{"matches": []string{"100"}}

	updates := make(chan Doc, 4)
	unsubscribe := hub.subscribe(key, func() (Doc, error) {
		return current, nil
	}, func(d Doc) { updates <- d }, func(err error) { t.Errorf("unexpected error: %v", err) })
	defer unsubscribe()

	first := waitForDoc(t, updates)
	assert.Equal(t, []string{"100"}, utils.GetStringSlice(first, "matches"))

	select {
	case doc := <-updates:
		t.Fatalf("unexpected redelivery: %v", doc)
	case <-time.After(100 * time.Millisecond):
	}
}
