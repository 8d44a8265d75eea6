package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReturnsDistinctIDs(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := store.Create(ctx, Payload{"token": "t"})
		require.NoError(t, err)
		assert.False(t, seen[id], "id %s returned twice", id)
		seen[id] = true
	}
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	_, err := store.Get(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetReturnsStoredPayload(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	id, err := store.Create(ctx, Payload{"address": "a@b.c", "token": "secret"})
	require.NoError(t, err)

	payload, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", payload["address"])
	assert.Equal(t, "secret", payload["token"])
}

func TestPayloadIsCopied(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	original := Payload{"token": "before"}
	id, err := store.Create(ctx, original)
	require.NoError(t, err)

	original["token"] = "after"

	payload, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "before", payload["token"])
}

func TestExpiredRecordNotReturned(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	ctx := context.Background()

	id, err := store.Create(ctx, Payload{"token": "t"})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveExpiredSweepsOnlyStale(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	fresh, err := store.Create(ctx, Payload{"k": "v"})
	require.NoError(t, err)

	stale, err := store.Create(ctx, Payload{"k": "v"})
	require.NoError(t, err)
	store.mu.Lock()
	rec := store.records[stale]
	rec.expiresAt = time.Now().Add(-time.Minute)
	store.records[stale] = rec
	store.mu.Unlock()

	store.removeExpired(time.Now())

	assert.Equal(t, 1, store.len())
	_, err = store.Get(ctx, fresh)
	assert.NoError(t, err)
	_, err = store.Get(ctx, stale)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAfterCloseDoesNotPanic(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	id, err := store.Create(ctx, Payload{"k": "v"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Create(ctx, Payload{"k": "v"})
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentCreateAndGet(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan string, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.Create(ctx, Payload{"k": "v"})
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true

		_, err := store.Get(ctx, id)
		assert.NoError(t, err)
	}
	assert.Len(t, seen, 200)
}
