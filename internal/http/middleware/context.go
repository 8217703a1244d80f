// Package middleware contiene los middlewares HTTP del servidor.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dropDatabas3/idocracy/internal/jwt"
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	requestIDKey
)

// WithClaims guarda los claims del token verificado en el contexto.
func WithClaims(ctx context.Context, c *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFrom recupera los claims; ok=false si la ruta no pasó por RequireAuth.
func ClaimsFrom(ctx context.Context) (*jwt.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwt.Claims)
	return c, ok
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom devuelve el id de la request, o "" si no hay.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// clientIP extrae la IP real del cliente, respetando proxies conocidos.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
