package middleware

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/idocracy/internal/http/httperrors"
	"github.com/dropDatabas3/idocracy/internal/metrics"
	"github.com/dropDatabas3/idocracy/internal/observability/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statusWriter captura el status para logging y métricas.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Recover convierte un panic en 500 sin tumbar el proceso.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.From(r.Context()).Error("panic recuperado",
					zap.Any("panic", rec),
					logger.Path(r.URL.Path),
				)
				httperrors.WriteError(w, r, httperrors.ErrInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestID asigna (o propaga) un X-Request-ID y lo inyecta en el
// contexto junto con un logger enriquecido.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := withRequestID(r.Context(), id)
		ctx = logger.ToContext(ctx, logger.L().With(logger.RequestID(id)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logging registra cada request con latencia y alimenta el histograma HTTP.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		metrics.ObserveHTTPDuration(r.Method, sw.status, elapsed)
		logger.From(r.Context()).Info("http request",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Status(sw.status),
			logger.Duration(elapsed),
			logger.ClientIP(clientIP(r)),
		)
	})
}

// CORS habilita los orígenes configurados; "*" permite cualquiera.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				w.Header().Set("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
