package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"readmekit/internal/card"
	"readmekit/internal/config"
	"readmekit/internal/counter"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// reservedPreviewValue is what a preview of the never-incremented reserved
// counter shows: the value its first real visit will produce.
const reservedPreviewValue = counter.ReservedSeed + 1

// BackgroundSource supplies the data URL drawn under the reserved counter.
type BackgroundSource interface {
	DataURL(ctx context.Context) (string, error)
}

// Handler serves the visitor counter endpoints.
type Handler struct {
	store       counter.Store
	backgrounds BackgroundSource
	publicURL   string
	repoURL     string
	logger      *slog.Logger
}

// NewHandler wires a Handler. backgrounds may be nil.
func NewHandler(store counter.Store, backgrounds BackgroundSource, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		store:       store,
		backgrounds: backgrounds,
		publicURL:   cfg.PublicURL,
		repoURL:     cfg.RepoURL,
		logger:      logger.With("component", "api"),
	}
}

// requestKey reads key, falling back to the legacy username parameter.
func requestKey(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.Query("key"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("username"))
	}
	if raw == "" {
		return "", false
	}
	return counter.NormalizeKey(raw), true
}

func requestTheme(c *gin.Context) card.Theme {
	base := card.DefaultTheme()
	if preset, ok := card.Preset(c.Query("preset")); ok {
		base = preset
	}
	return card.ParseTheme(c.Query("theme"), base)
}

func setNoCache(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0, private")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

// VisitorCount renders the counter card. Non-preview requests count a visit.
// A preview is requested with preview=1 or any t cache-buster.
func (h *Handler) VisitorCount(c *gin.Context) {
	key, ok := requestKey(c)
	if !ok {
		c.String(http.StatusBadRequest, "Query param 'key' (or 'username') is required")
		return
	}
	_, hasCacheBuster := c.GetQuery("t")
	preview := c.Query("preview") == "1" || hasCacheBuster
	reserved := key == counter.ReservedKey

	ctx := c.Request.Context()
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("counter.key", key),
		attribute.Bool("counter.preview", preview),
	)

	frame, animate := h.frame(ctx, key, preview, reserved)

	opts := card.Options{AnimateFromPrev: animate}
	if reserved && h.backgrounds != nil {
		if dataURL, err := h.backgrounds.DataURL(ctx); err == nil {
			opts.BackgroundDataURL = dataURL
		} else {
			h.logger.Debug("Rendering without background", "error", err)
		}
	}

	svg := card.Render(frame, requestTheme(c), opts)
	setNoCache(c)
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

// frame computes the three rows. The bool reports whether the card should
// animate; store failures fall back to a static card showing the default.
func (h *Handler) frame(ctx context.Context, key string, preview, reserved bool) (card.Frame, bool) {
	fallback := int64(0)
	if reserved {
		fallback = reservedPreviewValue
	}

	var current int64
	animate := !preview
	if preview {
		v, ok, err := h.store.Get(ctx, key)
		switch {
		case err != nil:
			h.logger.Error("Failed to read visitor count", "key", key, "error", err)
			current = fallback
		case !ok:
			current = fallback
		default:
			current = v
		}
	} else {
		var opts []counter.Option
		if reserved {
			opts = append(opts, counter.WithSeed(counter.ReservedSeed))
		}
		v, err := h.store.Increment(ctx, key, opts...)
		if err != nil {
			h.logger.Error("Failed to increment visitor count", "key", key, "error", err)
			current = fallback
			animate = false
		} else {
			current = v
		}
	}

	prev := current - 1
	if prev < 0 {
		prev = 0
	}
	return card.Frame{Previous: prev, Current: current, Next: current + 1}, animate
}

// Themes lists the preset themes.
func (h *Handler) Themes(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, card.Presets())
}

// Readme returns the markdown snippet that embeds the live counter. It never
// touches the store.
func (h *Handler) Readme(c *gin.Context) {
	key, ok := requestKey(c)
	if !ok {
		c.String(http.StatusBadRequest, "Query param 'key' (or 'username') is required")
		return
	}
	theme := requestTheme(c)
	imageURL := fmt.Sprintf("%s/api/visitor-count?key=%s&theme=%s",
		RequestOrigin(c.Request, h.publicURL), url.QueryEscape(key), url.QueryEscape(theme.JSON()))
	markdown := fmt.Sprintf("<div align=\"center\">\n\n[![Visitor Count](%s)](%s)\n\n</div>", imageURL, h.repoURL)

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, gin.H{"key": key, "url": imageURL, "markdown": markdown})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdown))
}

// Health reports liveness and the selected counter backend.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": h.store.Backend()})
}
