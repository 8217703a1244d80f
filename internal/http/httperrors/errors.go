package httperrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/observability/logger"
	"github.com/dropDatabas3/idocracy/internal/service"
	"github.com/dropDatabas3/idocracy/internal/store/core"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error *AppError `json:"error"`
}

// WriteError serializa un AppError; cualquier otro error se colapsa a 500
// y solo se loguea la causa (nunca se expone al cliente).
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("error del servidor",
			zap.String("code", appErr.Code),
			logger.Path(r.URL.Path),
			logger.Err(appErr.Err),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: appErr})
}

// FromError mapea los sentinelas de servicio/store a la taxonomía HTTP.
// El orden importa: primero los sentinelas específicos, después los
// genéricos de core.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, service.ErrMissingFields):
		return ErrMissingFields.WithCause(err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return ErrInvalidCredentials.WithCause(err)
	case errors.Is(err, service.ErrInvalidRefresh),
		errors.Is(err, service.ErrInvalidClient),
		errors.Is(err, jwt.ErrInvalidToken):
		return ErrUnauthorized.WithCause(err)
	case errors.Is(err, service.ErrNotAppMember):
		return ErrForbidden.WithCause(err)
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyMember):
		return ErrConflict.WithCause(err)
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAppNotFound),
		errors.Is(err, service.ErrMembershipNotFound):
		return ErrNotFound.WithCause(err)
	case errors.Is(err, service.ErrNoRedirectURI):
		return ErrBadRequest.WithCause(err).WithDetail("la aplicación no tiene redirect URIs configuradas")
	case errors.Is(err, core.ErrInvalid):
		return ErrBadRequest.WithCause(err)
	case errors.Is(err, core.ErrNotFound):
		return ErrNotFound.WithCause(err)
	case errors.Is(err, core.ErrConflict):
		return ErrConflict.WithCause(err)
	case errors.Is(err, core.ErrUnavailable):
		return ErrUnavailable.WithCause(err)
	}

	return ErrInternal.WithCause(err)
}
