package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/idocracy/internal/authz"
	"github.com/dropDatabas3/idocracy/internal/http/helpers"
	"github.com/dropDatabas3/idocracy/internal/http/httperrors"
	"github.com/dropDatabas3/idocracy/internal/http/middleware"
	"github.com/dropDatabas3/idocracy/internal/service"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

type AppHandler struct {
	apps *service.AppService
}

func NewAppHandler(apps *service.AppService) *AppHandler {
	return &AppHandler{apps: apps}
}

// Register monta el CRUD de apps sobre el subrouter /apps que arma el
// router (las subrutas de membresía las agrega AppUserHandler ahí mismo).
func (h *AppHandler) Register(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{appID}", h.get)
	r.Put("/{appID}", h.update)
	r.Delete("/{appID}", h.delete)
}

type createAppRequest struct {
	Name         string   `json:"name"`
	RedirectURIs []string `json:"redirect_uris"`
	Description  *string  `json:"description"`
	LogoURL      *string  `json:"logo_url"`
	WebsiteURL   *string  `json:"website_url"`
}

type createAppResponse struct {
	App *core.App `json:"app"`
	// plaintext una única vez: después solo existe el hash
	ClientSecret string `json:"client_secret"`
}

func (h *AppHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())

	var req createAppRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}

	app, secret, err := h.apps.Create(r.Context(), service.CreateAppInput{
		Name:         req.Name,
		RedirectURIs: req.RedirectURIs,
		Description:  req.Description,
		LogoURL:      req.LogoURL,
		WebsiteURL:   req.WebsiteURL,
	}, claims.Subject)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, createAppResponse{App: app, ClientSecret: secret})
}

func (h *AppHandler) list(w http.ResponseWriter, r *http.Request) {
	apps, err := h.apps.List(r.Context())
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"apps":  apps,
		"total": len(apps),
	})
}

// get devuelve la metadata pública de la app (el hash del secret nunca
// se serializa); alcanza con estar autenticado.
func (h *AppHandler) get(w http.ResponseWriter, r *http.Request) {
	app, err := h.apps.GetByID(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, app)
}

type updateAppRequest struct {
	Name         *string   `json:"name"`
	RedirectURIs *[]string `json:"redirect_uris"`
	Description  *string   `json:"description"`
	LogoURL      *string   `json:"logo_url"`
	WebsiteURL   *string   `json:"website_url"`
}

func (h *AppHandler) update(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())

	// primero resolver el target: 404 le gana a 403
	app, err := h.apps.GetByID(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	if !authz.IsAppOwnerOrAdmin(claims, app) {
		httperrors.WriteError(w, r, httperrors.ErrForbidden)
		return
	}

	var req updateAppRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}
	upd := core.AppUpdate{
		Name:         req.Name,
		RedirectURIs: req.RedirectURIs,
		Description:  req.Description,
		LogoURL:      req.LogoURL,
		WebsiteURL:   req.WebsiteURL,
	}
	if upd.Empty() {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithDetail("ningún campo para actualizar"))
		return
	}

	updated, err := h.apps.Update(r.Context(), app.ID, upd)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, updated)
}

func (h *AppHandler) delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())

	app, err := h.apps.GetByID(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	if !authz.IsAppOwnerOrAdmin(claims, app) {
		httperrors.WriteError(w, r, httperrors.ErrForbidden)
		return
	}

	if err := h.apps.Delete(r.Context(), app.ID); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"message": "app eliminada"})
}
