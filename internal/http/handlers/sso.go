package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/idocracy/internal/http/helpers"
	"github.com/dropDatabas3/idocracy/internal/http/httperrors"
	"github.com/dropDatabas3/idocracy/internal/http/middleware"
	"github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/service"
)

type SSOHandler struct {
	sso    *service.SSOService
	apps   *service.AppService
	issuer *jwt.Issuer
}

func NewSSOHandler(sso *service.SSOService, apps *service.AppService, issuer *jwt.Issuer) *SSOHandler {
	return &SSOHandler{sso: sso, apps: apps, issuer: issuer}
}

// Register monta /sso. Dashboard y launch son del usuario (Bearer);
// verify es de la app consumidora, que se autentica con sus client
// credentials en vez de un Bearer.
func (h *SSOHandler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/sso", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/dashboard", h.dashboard)
			r.Get("/launch/{appID}", h.launch)
		})
		r.Post("/verify", h.verify)
	})
}

// dashboard lista las apps donde el sujeto tiene membresía.
func (h *SSOHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	apps, err := h.sso.Dashboard(r.Context(), claims.Subject)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"apps":  apps,
		"total": len(apps),
	})
}

// launch emite el token SSO de 5 minutos scoped a la app y devuelve la
// redirect URL armada. 404 si la app no existe, 403 si el sujeto no es
// miembro ni owner ni admin.
func (h *SSOHandler) launch(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	res, err := h.sso.Launch(r.Context(), claims, chi.URLParam(r, "appID"))
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

type ssoVerifyRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Token        string `json:"token"`
}

type ssoVerifyResponse struct {
	Valid  bool     `json:"valid"`
	UserID string   `json:"user_id,omitempty"`
	Email  string   `json:"email,omitempty"`
	Name   string   `json:"name,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	AppID  string   `json:"app_id,omitempty"`
}

// verify lo llama la app consumidora al recibir el redirect: autentica
// con sus client credentials y canjea el token SSO por la identidad del
// usuario. Un token emitido para OTRA app no es válido acá.
func (h *SSOHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req ssoVerifyRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" || req.Token == "" {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithDetail("client_id, client_secret y token son requeridos"))
		return
	}

	app, err := h.apps.VerifyClientCredentials(r.Context(), req.ClientID, req.ClientSecret)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}

	claims, err := h.issuer.Verify(req.Token)
	if err != nil || claims.AppID != app.ID {
		helpers.WriteJSON(w, http.StatusOK, ssoVerifyResponse{Valid: false})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ssoVerifyResponse{
		Valid:  true,
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Roles:  claims.Roles,
		AppID:  claims.AppID,
	})
}
