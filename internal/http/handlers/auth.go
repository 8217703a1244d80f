// Package handlers expone la API REST bajo /api/v1. Cada feature
// registra sus rutas vía Register(r chi.Router); los handlers
// autorizan y adaptan, la semántica vive en los services.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/idocracy/internal/http/helpers"
	"github.com/dropDatabas3/idocracy/internal/http/httperrors"
	"github.com/dropDatabas3/idocracy/internal/http/middleware"
	"github.com/dropDatabas3/idocracy/internal/metrics"
	"github.com/dropDatabas3/idocracy/internal/service"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

type AuthHandler struct {
	identity *service.IdentityService
	tokens   *service.TokenService
	login    func(http.Handler) http.Handler // rate limit opcional
}

func NewAuthHandler(identity *service.IdentityService, tokens *service.TokenService, loginLimit func(http.Handler) http.Handler) *AuthHandler {
	return &AuthHandler{identity: identity, tokens: tokens, login: loginLimit}
}

// Register monta las rutas de /auth. Las protegidas reciben el
// middleware de auth ya construido por el router.
func (h *AuthHandler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		if h.login != nil {
			r.With(h.login).Post("/login", h.loginHandler)
		} else {
			r.Post("/login", h.loginHandler)
		}
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", h.me)
			r.Post("/logout", h.logout)
		})
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type authResponse struct {
	User   *core.User         `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}

	// el rol siempre es "user": los admin se crean por bootstrap o CLI
	u, err := h.identity.Create(r.Context(), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}

	pair, err := h.tokens.IssuePair(r.Context(), u, "register")
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, authResponse{User: u, Tokens: pair})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}

	u, err := h.identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch httperrors.FromError(err).HTTPStatus {
		case http.StatusUnauthorized:
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		default:
			metrics.LoginAttempts.WithLabelValues("error").Inc()
		}
		httperrors.WriteError(w, r, err)
		return
	}

	pair, err := h.tokens.IssuePair(r.Context(), u, "login")
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		httperrors.WriteError(w, r, err)
		return
	}
	metrics.LoginAttempts.WithLabelValues("ok").Inc()
	helpers.WriteJSON(w, http.StatusOK, pair)
}

// me devuelve el usuario del token, releído del store (el token puede
// traer roles viejos).
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	u, err := h.identity.GetByID(r.Context(), claims.Subject)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, u)
}

// logout revoca TODOS los refresh tokens del sujeto. El access token
// sigue siendo válido hasta su exp (es stateless); lo que muere es la
// capacidad de renovar.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	if err := h.tokens.RevokeAll(r.Context(), claims.Subject); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"message": "sesión cerrada"})
}
