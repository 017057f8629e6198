package counter

import (
	"context"

	"readmekit/internal/db"
)

// DBStore persists counters through the gorm-backed db.Service.
type DBStore struct {
	db db.Service
}

// NewDBStore wraps an opened database service.
func NewDBStore(service db.Service) *DBStore {
	return &DBStore{db: service}
}

// Get implements Store.
func (s *DBStore) Get(ctx context.Context, key string) (int64, bool, error) {
	return s.db.GetVisitorCount(ctx, key)
}

// Increment implements Store.
func (s *DBStore) Increment(ctx context.Context, key string, opts ...Option) (int64, error) {
	o := applyOptions(opts)
	return s.db.IncrementVisitorCount(ctx, key, o.seed)
}

// List implements Lister.
func (s *DBStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.ListVisitorCounters(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(rows))
	for i, row := range rows {
		entries[i] = Entry{Key: row.Name, Value: row.Hits}
	}
	return entries, nil
}

// Backend implements Store.
func (s *DBStore) Backend() string { return "database" }
