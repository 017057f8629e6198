package api

import (
	"net/http"
	"strings"
)

// RequestOrigin returns the public base URL the client used. Proxies such as
// Vercel or Netlify rewrite the Host, so X-Forwarded-Host wins when present,
// then the configured public URL, then the request itself.
func RequestOrigin(r *http.Request, publicURL string) string {
	if host := firstHeaderValue(r.Header.Get("X-Forwarded-Host")); host != "" {
		proto := firstHeaderValue(r.Header.Get("X-Forwarded-Proto"))
		if proto != "http" && proto != "https" {
			proto = "https"
		}
		return proto + "://" + host
	}
	if publicURL != "" {
		return strings.TrimRight(publicURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func firstHeaderValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
