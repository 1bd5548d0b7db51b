package httptransport

import (
	"net/http"
	"strings"
)

// realIP extracts the originating client address, preferring proxy-set
// headers in trust order and falling back to loopback when nothing usable is
// present. X-Forwarded-For may carry a chain; the first entry is the client.
func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	return "127.0.0.1"
}
