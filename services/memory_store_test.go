package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelmate_server/utils"
)

const (
	storeTestTimeout    = 2 * time.Second
	storeTestGoroutines = 8
	storeTestIterations = 50
)

func waitForDoc(t *testing.T, ch <-chan Doc) Doc {
	t.Helper()
	select {
	case doc := <-ch:
		return doc
	case <-time.After(storeTestTimeout):
		t.Fatal("timed out waiting for subscription delivery")
		return nil
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	path := SessionPath("session-1")

	require.NoError(t, store.Create(ctx, path, Doc{"mode": "cinema"}))

	doc, err := store.Get(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "cinema", utils.GetString(doc, "mode"))
	assert.Equal(t, "session-1", utils.GetString(doc, "sessionId"))
}

func TestMemoryStore_CreateConflict(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	path := SessionPath("session-1")

	require.NoError(t, store.Create(ctx, path, Doc{"mode": "cinema"}))
	err := store.Create(ctx, path, Doc{"mode": "home"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), SessionPath("missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SetMerge(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	path := UserPath("user-a")

	require.NoError(t, store.Set(ctx, path, Doc{"email": "a@example.com", "displayName": "A"}, false))
	require.NoError(t, store.Set(ctx, path, Doc{"displayName": "Alice"}, true))

	doc, err := store.Get(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", utils.GetString(doc, "email"))
	assert.Equal(t, "Alice", utils.GetString(doc, "displayName"))
}

func TestMemoryStore_UpdateUnionIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	path := SwipePath("session-1", "603")

	doc, added, err := store.UpdateUnion(ctx, path, "likes", "user-a")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"user-a"}, utils.GetStringSlice(doc, "likes"))

	doc, added, err = store.UpdateUnion(ctx, path, "likes", "user-a")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"user-a"}, utils.GetStringSlice(doc, "likes"))

	// Key fields materialize on the lazily created record.
	assert.Equal(t, "session-1", utils.GetString(doc, "sessionId"))
	assert.Equal(t, "603", utils.GetString(doc, "movieId"))
}

func TestMemoryStore_UpdateUnionConcurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	path := SessionPath("session-1")

	var wg sync.WaitGroup
	for g := 0; g < storeTestGoroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < storeTestIterations; i++ {
				_, _, err := store.UpdateUnion(ctx, path, "matches", "movie-"+string(rune('a'+i%10)))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	doc, err := store.Get(ctx, path)
	require.NoError(t, err)
	matches := utils.GetStringSlice(doc, "matches")
	assert.Len(t, matches, 10)
	seen := map[string]bool{}
	for _, m := range matches {
		assert.False(t, seen[m], "duplicate entry %s", m)
		seen[m] = true
	}
}

func TestMemoryStore_SubscribeDeliversSnapshotThenUpdates(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	path := SessionPath("session-1")
	require.NoError(t, store.Create(ctx, path, Doc{"matches": []string{}}))

	updates := make(chan Doc, 16)
	unsubscribe, err := store.Subscribe(path, func(d Doc) { updates <- d }, func(err error) { t.Errorf("unexpected error: %v", err) })
	require.NoError(t, err)
	defer unsubscribe()

	initial := waitForDoc(t, updates)
	require.NotNil(t, initial)
	assert.Empty(t, utils.GetStringSlice(initial, "matches"))

	_, _, err = store.UpdateUnion(ctx, path, "matches", "603")
	require.NoError(t, err)

	next := waitForDoc(t, updates)
	assert.Equal(t, []string{"603"}, utils.GetStringSlice(next, "matches"))
}

func TestMemoryStore_SubscribeMissingDocDeliversNil(t *testing.T) {
	store := NewMemoryStore()

	updates := make(chan Doc, 1)
	unsubscribe, err := store.Subscribe(SessionPath("missing"), func(d Doc) { updates <- d }, func(err error) { t.Errorf("unexpected error: %v", err) })
	require.NoError(t, err)
	defer unsubscribe()

	assert.Nil(t, waitForDoc(t, updates))
}

func TestMemoryStore_UnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	path := SessionPath("session-1")
	require.NoError(t, store.Create(ctx, path, Doc{}))

	updates := make(chan Doc, 16)
	unsubscribe, err := store.Subscribe(path, func(d Doc) { updates <- d }, func(err error) {})
	require.NoError(t, err)
	waitForDoc(t, updates)

	unsubscribe()
	unsubscribe() // second call is a no-op

	_, _, err = store.UpdateUnion(ctx, path, "matches", "603")
	require.NoError(t, err)

	select {
	case doc := <-updates:
		t.Fatalf("unexpected delivery after unsubscribe: %v", doc)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMemoryStore_QueryWhere(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, UserPath("user-a"), Doc{"email": "a@example.com"}, false))
	require.NoError(t, store.Set(ctx, UserPath("user-b"), Doc{"email": "b@example.com"}, false))
	require.NoError(t, store.Set(ctx, UserPath("user-c"), Doc{"email": "c@example.com"}, false))

	docs, err := store.QueryWhere(ctx, "users", "email", OpEqual, "b@example.com")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "user-b", utils.GetString(docs[0], "userId"))

	docs, err = store.QueryWhere(ctx, "users", "userId", OpIn, []string{"user-a", "user-c"})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
