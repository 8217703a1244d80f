// Package metrics define los collectors Prometheus del servicio. Paquete
// standalone para evitar ciclos de import entre HTTP y services.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "idocracy_login_attempts_total",
		Help: "Intentos de login por resultado (ok|invalid|error)",
	}, []string{"result"})

	TokensIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "idocracy_tokens_issued_total",
		Help: "Access tokens emitidos por tipo (login|register|refresh|sso)",
	}, []string{"kind"})

	RefreshRotations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "idocracy_refresh_rotations_total",
		Help: "Rotaciones de refresh token exitosas",
	})

	SweptTokens = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "idocracy_swept_refresh_tokens_total",
		Help: "Refresh tokens expirados eliminados por sweep",
	})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "idocracy_http_request_duration_ms",
		Help:    "Latencia de requests HTTP en milisegundos",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"method", "status"})
)

// ObserveHTTPDuration alimenta el histograma de latencias HTTP.
func ObserveHTTPDuration(method string, status int, d time.Duration) {
	HTTPDuration.WithLabelValues(method, strconv.Itoa(status)).
		Observe(float64(d.Milliseconds()))
}

// Register registra los collectors en el registry dado (default si nil).
// Tolera dobles registros (AlreadyRegisteredError no es fatal).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		LoginAttempts, TokensIssued, RefreshRotations, SweptTokens, HTTPDuration,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
