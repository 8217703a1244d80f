package middleware

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/idocracy/internal/authz"
	"github.com/dropDatabas3/idocracy/internal/http/httperrors"
	"github.com/dropDatabas3/idocracy/internal/jwt"
)

// RequireAuth exige un Bearer token válido y deja los claims en el
// contexto. Tokens scoped a una app (con app_id) también pasan: el
// handler decide si los acepta.
func RequireAuth(issuer *jwt.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				httperrors.WriteError(w, r, httperrors.ErrUnauthorized.WithDetail("falta el header Authorization"))
				return
			}
			claims, err := issuer.Verify(raw)
			if err != nil {
				httperrors.WriteError(w, r, httperrors.ErrUnauthorized.WithCause(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin corta con 403 si el token no trae el rol admin.
// Debe encadenarse después de RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok {
			httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
			return
		}
		if !authz.IsAdmin(claims) {
			httperrors.WriteError(w, r, httperrors.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
