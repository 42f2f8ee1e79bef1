package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// unknownClient is the sentinel identity used when no address can be
// derived from the request.
const unknownClient = "unknown"

// ClientIP derives the caller's network address from trusted proxy headers,
// falling back to the connection's remote address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// first hop is the original client
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			fwd = fwd[:idx]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		return host
	}
	return unknownClient
}

// ClientIPKey keys a limiter by client IP.
func ClientIPKey(r *http.Request) string {
	return ClientIP(r)
}

// ClientIPUserAgentKey keys a limiter by client IP and user agent, used for
// bot protection where many user agents share one address.
func ClientIPUserAgentKey(r *http.Request) string {
	ua := r.Header.Get("User-Agent")
	if ua == "" {
		ua = unknownClient
	}
	return ClientIP(r) + "|" + ua
}
