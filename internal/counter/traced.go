package counter

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "readmekit/internal/counter"

type tracedStore struct {
	next   Store
	tracer trace.Tracer
}

type tracedLister struct {
	*tracedStore
	lister Lister
}

// Traced wraps store so each call records a span. The Lister capability of
// store is preserved.
func Traced(store Store, tp trace.TracerProvider) Store {
	t := &tracedStore{next: store, tracer: tp.Tracer(tracerName)}
	if l, ok := store.(Lister); ok {
		return &tracedLister{tracedStore: t, lister: l}
	}
	return t
}

func (s *tracedStore) start(ctx context.Context, op, key string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "counter."+op)
	span.SetAttributes(
		attribute.String("counter.backend", s.next.Backend()),
		attribute.String("counter.key", key),
	)
	return ctx, span
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *tracedStore) Get(ctx context.Context, key string) (int64, bool, error) {
	ctx, span := s.start(ctx, "get", key)
	v, ok, err := s.next.Get(ctx, key)
	span.SetAttributes(attribute.Bool("counter.found", ok))
	finish(span, err)
	return v, ok, err
}

func (s *tracedStore) Increment(ctx context.Context, key string, opts ...Option) (int64, error) {
	ctx, span := s.start(ctx, "increment", key)
	v, err := s.next.Increment(ctx, key, opts...)
	span.SetAttributes(attribute.Int64("counter.value", v))
	finish(span, err)
	return v, err
}

func (s *tracedStore) Backend() string { return s.next.Backend() }

func (s *tracedLister) List(ctx context.Context) ([]Entry, error) {
	ctx, span := s.start(ctx, "list", "")
	entries, err := s.lister.List(ctx)
	finish(span, err)
	return entries, err
}
