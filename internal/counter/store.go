// Package counter stores named visitor counters.
//
// A Store is chosen once at startup by NewStore and shared by every request.
// Increments must never be lost between concurrent callers of the same Store;
// the in-memory backend only guarantees this within a single process.
package counter

import "context"

// Store reads and increments named counters.
type Store interface {
	// Get returns the stored value. ok is false when key was never written.
	Get(ctx context.Context, key string) (value int64, ok bool, err error)
	// Increment adds one to key and returns the new value. A missing key
	// counts from zero unless WithSeed is given.
	Increment(ctx context.Context, key string, opts ...Option) (int64, error)
	// Backend names the implementation, for health output and logs.
	Backend() string
}

// Entry is one counter as reported by a Lister.
type Entry struct {
	Key   string `json:"key"`
	Value int64  `json:"value"`
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	List(ctx context.Context) ([]Entry, error)
}

type incrementOptions struct {
	seed int64
}

// Option adjusts a single Increment call.
type Option func(*incrementOptions)

// WithSeed initializes a missing key to seed before incrementing it, so the
// first Increment returns seed+1. It has no effect on an existing key.
func WithSeed(seed int64) Option {
	return func(o *incrementOptions) {
		o.seed = seed
	}
}

func applyOptions(opts []Option) incrementOptions {
	var o incrementOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
