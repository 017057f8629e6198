package counter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTraced(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	store := Traced(NewMemoryStore(), tp)
	ctx := context.Background()

	got, err := store.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
	_, _, err = store.Get(ctx, "k")
	require.NoError(t, err)

	lister, ok := store.(Lister)
	require.True(t, ok, "traced memory store should still list")
	entries, err := lister.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "counter.increment", spans[0].Name())
	assert.Equal(t, "counter.get", spans[1].Name())
	assert.Equal(t, "counter.list", spans[2].Name())
	assert.Equal(t, "memory", store.Backend())
}

type plainStore struct{ Store }

func TestTraced_WithoutLister(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	store := Traced(plainStore{NewMemoryStore()}, tp)
	_, ok := store.(Lister)
	assert.False(t, ok)
}
