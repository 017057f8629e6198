package counter

import (
	"context"
	"testing"

	"readmekit/internal/config"
	"readmekit/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDBStore(t *testing.T) *DBStore {
	t.Helper()
	service, err := db.NewService(config.DatabaseConfig{Type: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	return NewDBStore(service)
}

func TestDBStore(t *testing.T) {
	store := newTestDBStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "repo")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.Increment(ctx, "repo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	got, err = store.Increment(ctx, ReservedKey, WithSeed(ReservedSeed))
	require.NoError(t, err)
	assert.Equal(t, int64(9811), got)

	v, ok, err := store.Get(ctx, ReservedKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(9811), v)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "repo", Value: 1}, {Key: ReservedKey, Value: 9811}}, entries)
	assert.Equal(t, "database", store.Backend())
}
