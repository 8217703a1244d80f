// Package http arma el router del servicio: middlewares globales,
// /healthz, /metrics y la API versionada bajo /api/v1.
package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/idocracy/internal/http/handlers"
	"github.com/dropDatabas3/idocracy/internal/http/middleware"
	"github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/rate"
	"github.com/dropDatabas3/idocracy/internal/service"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

// Deps son las dependencias ya construidas que el router cablea.
// LoginLimiter puede ser nil (rate limiting deshabilitado).
type Deps struct {
	Repo       core.Repository
	Issuer     *jwt.Issuer
	Identity   *service.IdentityService
	Apps       *service.AppService
	Membership *service.MembershipService
	Tokens     *service.TokenService
	SSO        *service.SSOService

	LoginLimiter rate.Limiter
	CORSOrigins  []string
	Version      string
}

// NewRouter construye el árbol de rutas completo.
func NewRouter(d Deps) nethttp.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	if len(d.CORSOrigins) > 0 {
		r.Use(middleware.CORS(d.CORSOrigins))
	}

	health := handlers.NewHealthHandler(d.Repo, d.Version)
	r.Get("/healthz", health.Healthz)
	r.Method(nethttp.MethodGet, "/metrics", promhttp.Handler())

	requireAuth := middleware.RequireAuth(d.Issuer)

	var loginLimit func(nethttp.Handler) nethttp.Handler
	if d.LoginLimiter != nil {
		loginLimit = middleware.RateLimit(d.LoginLimiter)
	}

	r.Route("/api/v1", func(api chi.Router) {
		handlers.NewAuthHandler(d.Identity, d.Tokens, loginLimit).Register(api, requireAuth)
		handlers.NewTokenHandler(d.Tokens).Register(api)
		handlers.NewSSOHandler(d.SSO, d.Apps, d.Issuer).Register(api, requireAuth)

		// recursos protegidos: todo detrás de RequireAuth
		api.Group(func(protected chi.Router) {
			protected.Use(requireAuth)
			handlers.NewUserHandler(d.Identity).Register(protected)
			protected.Route("/apps", func(apps chi.Router) {
				handlers.NewAppHandler(d.Apps).Register(apps)
				handlers.NewAppUserHandler(d.Apps, d.Membership).Register(apps)
			})
		})
	})

	return r
}
