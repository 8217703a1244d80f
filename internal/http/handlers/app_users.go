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

type AppUserHandler struct {
	apps       *service.AppService
	membership *service.MembershipService
}

func NewAppUserHandler(apps *service.AppService, membership *service.MembershipService) *AppUserHandler {
	return &AppUserHandler{apps: apps, membership: membership}
}

// Register monta las rutas de membresía bajo {appID}/users del
// subrouter /apps.
func (h *AppUserHandler) Register(r chi.Router) {
	r.Route("/{appID}/users", func(r chi.Router) {
		r.Post("/", h.add)
		r.Get("/", h.list)
		r.Delete("/{userID}", h.remove)
		r.Put("/{userID}/roles", h.updateRoles)
	})
}

// resolveApp busca la app del path y corta con 404 antes de autorizar.
func (h *AppUserHandler) resolveApp(w http.ResponseWriter, r *http.Request) (*core.App, bool) {
	app, err := h.apps.GetByID(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		httperrors.WriteError(w, r, err)
		return nil, false
	}
	return app, true
}

type addMemberRequest struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

func (h *AppUserHandler) add(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	app, ok := h.resolveApp(w, r)
	if !ok {
		return
	}
	if !authz.IsAppOwnerOrAdmin(claims, app) {
		httperrors.WriteError(w, r, httperrors.ErrForbidden)
		return
	}

	var req addMemberRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}
	if req.UserID == "" {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithDetail("user_id es requerido"))
		return
	}

	m, err := h.membership.Add(r.Context(), app.ID, req.UserID, req.Roles)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, m)
}

func (h *AppUserHandler) list(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	app, ok := h.resolveApp(w, r)
	if !ok {
		return
	}

	memberOf, err := h.membership.ListUserApps(r.Context(), claims.Subject)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	if !authz.IsAppMemberOrOwnerOrAdmin(claims, app, memberOf) {
		httperrors.WriteError(w, r, httperrors.ErrForbidden)
		return
	}

	users, err := h.membership.ListAppUsers(r.Context(), app.ID)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"total": len(users),
	})
}

func (h *AppUserHandler) remove(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	app, ok := h.resolveApp(w, r)
	if !ok {
		return
	}
	if !authz.IsAppOwnerOrAdmin(claims, app) {
		httperrors.WriteError(w, r, httperrors.ErrForbidden)
		return
	}

	if err := h.membership.Remove(r.Context(), app.ID, chi.URLParam(r, "userID")); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"message": "membresía eliminada"})
}

type updateRolesRequest struct {
	Roles []string `json:"roles"`
}

func (h *AppUserHandler) updateRoles(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	app, ok := h.resolveApp(w, r)
	if !ok {
		return
	}
	if !authz.IsAppOwnerOrAdmin(claims, app) {
		httperrors.WriteError(w, r, httperrors.ErrForbidden)
		return
	}

	var req updateRolesRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}
	if len(req.Roles) == 0 {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithDetail("roles no puede estar vacío"))
		return
	}

	m, err := h.membership.UpdateRoles(r.Context(), app.ID, chi.URLParam(r, "userID"), req.Roles)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, m)
}
