package admin

import (
	"log/slog"
	"net/http"

	"readmekit/internal/counter"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store  counter.Store
	logger *slog.Logger
}

func NewHandler(store counter.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger.With("component", "admin")}
}

// ListCountersHandler returns every counter the store can enumerate.
func (h *Handler) ListCountersHandler(c *gin.Context) {
	lister, ok := h.store.(counter.Lister)
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Store " + h.store.Backend() + " cannot list counters"})
		return
	}
	entries, err := lister.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list counters", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list counters"})
		return
	}
	if entries == nil {
		entries = []counter.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"backend": h.store.Backend(), "counters": entries})
}

// GetCounterHandler reads one counter without incrementing it.
func (h *Handler) GetCounterHandler(c *gin.Context) {
	key := counter.NormalizeKey(c.Param("key"))
	value, exists, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("Failed to read counter", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read counter"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value, "exists": exists})
}
