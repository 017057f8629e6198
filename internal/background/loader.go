// Package background loads the image layered under the reserved counter card
// and keeps it cached as a data URL.
package background

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	maxImageBytes = 8 << 20
	fetchTimeout  = 4 * time.Second
	userAgent     = "readmekit/1.0"
)

// ErrUnavailable is returned when neither the file nor the fallback URL
// produced an image.
var ErrUnavailable = errors.New("background image unavailable")

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Loader resolves the background image. The local file wins; the fallback URL
// is fetched only when the file cannot be read.
type Loader struct {
	path        string
	fallbackURL string
	client      HTTPClient
	logger      *slog.Logger

	mu     sync.RWMutex
	cached string
}

// NewLoader builds a Loader. Either source may be empty.
func NewLoader(path, fallbackURL string, client HTTPClient, logger *slog.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Loader{
		path:        path,
		fallbackURL: fallbackURL,
		client:      client,
		logger:      logger.With("component", "background"),
	}
}

// DataURL returns the cached image, loading it on first use. Errors leave the
// cache empty so the next call retries.
func (l *Loader) DataURL(ctx context.Context) (string, error) {
	l.mu.RLock()
	cached := l.cached
	l.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}
	return l.Refresh(ctx)
}

// Refresh reloads the image and replaces the cache. On failure the previous
// cached value is kept.
func (l *Loader) Refresh(ctx context.Context) (string, error) {
	data, mime, err := l.load(ctx)
	if err != nil {
		return "", err
	}
	url := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)

	l.mu.Lock()
	l.cached = url
	l.mu.Unlock()
	l.logger.Debug("Background image loaded", "mime", mime, "bytes", len(data))
	return url, nil
}

func (l *Loader) load(ctx context.Context) ([]byte, string, error) {
	if l.path != "" {
		data, err := readFile(l.path)
		if err == nil {
			return data, mimetype.Detect(data).String(), nil
		}
		l.logger.Debug("Background file unavailable", "path", l.path, "error", err)
	}
	if l.fallbackURL != "" {
		data, mime, err := l.fetch(ctx)
		if err == nil {
			return data, mime, nil
		}
		l.logger.Warn("Background fallback fetch failed", "url", l.fallbackURL, "error", err)
	}
	return nil, "", ErrUnavailable
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, maxImageBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.fallbackURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create background request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("background request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("background request returned non-200 status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read background body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("background body exceeds %d bytes", maxImageBytes)
	}

	mime := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	if !strings.HasPrefix(mime, "image/") {
		mime = mimetype.Detect(data).String()
	}
	return data, mime, nil
}
