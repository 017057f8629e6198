package counter

import (
	"context"
	"log/slog"
	"time"

	"readmekit/internal/config"
	"readmekit/internal/db"
)

const startupPingTimeout = 3 * time.Second

// openDB is swapped out in tests.
var openDB = db.NewService

// NewStore picks the counter backend once, at startup: the KV service when it
// is configured and answers PING, else the database when it is configured and
// opens, else process memory. Failures are logged and fall through; there is no
// failover after this returns.
func NewStore(ctx context.Context, cfg *config.Config, client HTTPClient, log *slog.Logger) Store {
	log = log.With("component", "counter")

	if cfg.KV.Enabled() {
		kv := NewKVStore(cfg.KV.URL, cfg.KV.Token, client)
		pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
		err := kv.Ping(pingCtx)
		cancel()
		if err == nil {
			log.Info("Using remote key-value counter store", "url", cfg.KV.URL)
			return kv
		}
		log.Warn("Remote key-value store unreachable, falling back", "error", err)
	}

	if cfg.Database.Enabled() {
		service, err := openDB(cfg.Database)
		if err == nil {
			log.Info("Using database counter store", "type", cfg.Database.Type)
			return NewDBStore(service)
		}
		log.Warn("Database counter store unavailable, falling back", "error", err)
	}

	log.Warn("Using in-memory counter store; counts are per process and reset on restart")
	return NewMemoryStore()
}
