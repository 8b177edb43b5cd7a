// Package metadata records who is calling: the client IP and a parsed
// summary of the User-Agent header.
package metadata

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

type contextKeyClient struct{}

// Client describes the caller of the current request.
type Client struct {
	IP        string
	UserAgent string
	Browser   string
	OS        string
	Mobile    bool
	Bot       bool
}

// ClientMetadata stores the caller's Client in the request context. Apply it
// before the request logger.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := Parse(ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(WithClient(r.Context(), client)))
	})
}

// Parse builds a Client from a raw IP and User-Agent string.
func Parse(ip, userAgent string) Client {
	client := Client{IP: ip, UserAgent: userAgent}
	if userAgent == "" {
		return client
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	client.Browser = strings.TrimSpace(name + " " + version)
	client.OS = ua.OS()
	client.Mobile = ua.Mobile()
	client.Bot = ua.Bot()
	return client
}

// FromContext returns the Client stored by ClientMetadata, or the zero value.
func FromContext(ctx context.Context) Client {
	if c, ok := ctx.Value(contextKeyClient{}).(Client); ok {
		return c
	}
	return Client{}
}

// WithClient injects c into ctx.
// Useful for service unit tests that don't run the full HTTP middleware chain.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, contextKeyClient{}, c)
}

// ClientIPFromRequest prefers the first X-Forwarded-For hop, then X-Real-IP,
// then the connection's remote address.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
