package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/idocracy/internal/http/helpers"
	"github.com/dropDatabas3/idocracy/internal/http/httperrors"
	"github.com/dropDatabas3/idocracy/internal/service"
)

type TokenHandler struct {
	tokens *service.TokenService
}

func NewTokenHandler(tokens *service.TokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// Register monta /token. Ningún endpoint requiere Bearer: verify y
// refresh reciben el token en el body.
func (h *TokenHandler) Register(r chi.Router) {
	r.Route("/token", func(r chi.Router) {
		r.Post("/verify", h.verify)
		r.Post("/refresh", h.refresh)
	})
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Valid   bool     `json:"valid"`
	UserID  string   `json:"user_id,omitempty"`
	Email   string   `json:"email,omitempty"`
	Roles   []string `json:"roles,omitempty"`
	AppID   string   `json:"app_id,omitempty"`
	AppName string   `json:"app_name,omitempty"`
}

// verify valida un access token y devuelve sus claims. Un token
// inválido NO es un error HTTP: responde 200 con valid=false, para que
// los consumidores no tengan que distinguir 401 de red caída.
func (h *TokenHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}
	if req.Token == "" {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithDetail("token es requerido"))
		return
	}

	claims, err := h.tokens.Issuer().Verify(req.Token)
	if err != nil {
		helpers.WriteJSON(w, http.StatusOK, verifyResponse{Valid: false})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, verifyResponse{
		Valid:   true,
		UserID:  claims.Subject,
		Email:   claims.Email,
		Roles:   claims.Roles,
		AppID:   claims.AppID,
		AppName: claims.AppName,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refresh rota el refresh token: el viejo se consume (single-use) y se
// emite un par nuevo. Reusar un token ya rotado da 401.
func (h *TokenHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return
	}
	if req.RefreshToken == "" {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithDetail("refresh_token es requerido"))
		return
	}

	pair, err := h.tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, pair)
}
