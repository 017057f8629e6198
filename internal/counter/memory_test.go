package counter

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_IncrementSequence(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	for want := int64(1); want <= 5; want++ {
		got, err := store.Increment(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), v)
}

func TestMemoryStore_Seed(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	got, err := store.Increment(ctx, ReservedKey, WithSeed(ReservedSeed))
	require.NoError(t, err)
	assert.Equal(t, int64(9811), got)

	got, err = store.Increment(ctx, ReservedKey, WithSeed(ReservedSeed))
	require.NoError(t, err)
	assert.Equal(t, int64(9812), got)

	// An existing key ignores the seed.
	_, err = store.Increment(ctx, "plain")
	require.NoError(t, err)
	got, err = store.Increment(ctx, "plain", WithSeed(100))
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

func TestMemoryStore_ConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const workers, perWorker = 16, 250
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, _ = store.Increment(ctx, "hot")
			}
		}()
	}
	wg.Wait()

	v, _, err := store.Get(ctx, "hot")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), v)
}

func TestMemoryStore_List(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_, _ = store.Increment(ctx, "b")
	_, _ = store.Increment(ctx, "a")
	_, _ = store.Increment(ctx, "a")

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "a", Value: 2}, {Key: "b", Value: 1}}, entries)
	assert.Equal(t, "memory", store.Backend())
}
