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

type UserHandler struct {
	identity *service.IdentityService
}

func NewUserHandler(identity *service.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// Register monta /users. Todas las rutas asumen RequireAuth aplicado
// por el router; la granularidad (admin vs self) se decide por handler.
func (h *UserHandler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequireAdmin).Get("/", h.list)
		r.With(middleware.RequireAdmin).Post("/", h.create)
		r.Get("/{userID}", h.get)
		r.Put("/{userID}", h.update)
		r.Put("/{userID}/password", h.changePassword)
		r.With(middleware.RequireAdmin).Delete("/{userID}", h.delete)
	})
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.List(r.Context())
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"total": len(users),
	})
}

type createUserRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
}

// create es el alta administrativa: a diferencia de /auth/register,
// acá sí se pueden asignar roles arbitrarios.
func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}
	u, err := h.identity.Create(r.Context(), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Roles:    req.Roles,
	})
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	targetID := chi.URLParam(r, "userID")

	if !authz.IsSelfOrAdmin(claims, targetID) {
		httperrors.WriteError(w, r, httperrors.ErrForbidden)
		return
	}
	u, err := h.identity.GetByID(r.Context(), targetID)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, u)
}

type updateUserRequest struct {
	Email *string   `json:"email"`
	Name  *string   `json:"name"`
	Roles *[]string `json:"roles"`
}

// update aplica un update parcial. Self puede tocar email y name;
// cambiar roles es exclusivo de admin.
func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	targetID := chi.URLParam(r, "userID")

	if !authz.IsSelfOrAdmin(claims, targetID) {
		httperrors.WriteError(w, r, httperrors.ErrForbidden)
		return
	}

	var req updateUserRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}
	if req.Roles != nil && !authz.IsAdmin(claims) {
		httperrors.WriteError(w, r, httperrors.ErrForbidden.WithDetail("solo un admin puede modificar roles"))
		return
	}

	upd := core.UserUpdate{Email: req.Email, Name: req.Name, Roles: req.Roles}
	if upd.Empty() {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithDetail("ningún campo para actualizar"))
		return
	}

	u, err := h.identity.Update(r.Context(), targetID, upd)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// changePassword cambia la contraseña del target. Self debe acreditar
// la contraseña vigente; admin puede resetear sin conocerla.
func (h *UserHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	targetID := chi.URLParam(r, "userID")

	if !authz.IsSelfOrAdmin(claims, targetID) {
		httperrors.WriteError(w, r, httperrors.ErrForbidden)
		return
	}

	var req changePasswordRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}

	if !authz.IsAdmin(claims) {
		u, err := h.identity.GetByID(r.Context(), targetID)
		if err != nil {
			httperrors.WriteError(w, r, err)
			return
		}
		if _, err := h.identity.Authenticate(r.Context(), u.Email, req.CurrentPassword); err != nil {
			httperrors.WriteError(w, r, err)
			return
		}
	}

	if err := h.identity.ChangePassword(r.Context(), targetID, req.NewPassword); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"message": "contraseña actualizada"})
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")
	if err := h.identity.Delete(r.Context(), targetID); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"message": "usuario eliminado"})
}
