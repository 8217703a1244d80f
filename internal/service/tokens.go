package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	jwtx "github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/metrics"
	"github.com/dropDatabas3/idocracy/internal/observability/logger"
	tokens "github.com/dropDatabas3/idocracy/internal/security/token"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

// Errores del ciclo de vida de tokens
var (
	ErrInvalidRefresh = errors.New("invalid or expired refresh token")
)

// TokenPair es la respuesta de login/register/refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type TokenService struct {
	repo       core.Repository
	issuer     *jwtx.Issuer
	refreshTTL time.Duration
}

func NewTokenService(repo core.Repository, issuer *jwtx.Issuer, refreshTTL time.Duration) *TokenService {
	return &TokenService{repo: repo, issuer: issuer, refreshTTL: refreshTTL}
}

// Issuer expone el codec para verificación directa (handlers de verify).
func (s *TokenService) Issuer() *jwtx.Issuer { return s.issuer }

// IssuePair emite access token firmado + refresh token opaco persistido.
// kind es solo para métricas (login|register|refresh).
func (s *TokenService) IssuePair(ctx context.Context, u *core.User, kind string) (*TokenPair, error) {
	access, exp, err := s.issuer.Issue(jwtx.Claims{
		Subject: u.ID,
		Email:   u.Email,
		Roles:   u.Roles,
	}, 0)
	if err != nil {
		return nil, err
	}

	raw, err := tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	rt := &core.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Token:     raw,
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
	}
	if err := s.repo.CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	metrics.TokensIssued.WithLabelValues(kind).Inc()
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: raw,
		TokenType:    "bearer",
		ExpiresIn:    int64(time.Until(exp).Seconds()),
	}, nil
}

// Refresh rota el refresh token: resuelve, chequea expiración (un token
// vencido sin resolver se borra lazy en este primer intento), reclama el
// token viejo borrándolo y emite un par nuevo. Single-use: un segundo
// Refresh con el mismo valor falla con ErrInvalidRefresh.
func (s *TokenService) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	log := logger.From(ctx).With(logger.Component("tokens"), logger.Op("Refresh"))

	rt, err := s.repo.GetRefreshToken(ctx, raw)
	if err != nil {
		if errors.Is(err, core.ErrUnavailable) {
			return nil, err
		}
		return nil, ErrInvalidRefresh
	}

	if rt.ExpiresAt.Before(time.Now().UTC()) {
		// lazy delete del token vencido
		_ = s.repo.DeleteRefreshToken(ctx, raw)
		log.Debug("refresh token expired", logger.UserID(rt.UserID))
		return nil, ErrInvalidRefresh
	}

	// Borrar primero reclama el token: si otro request lo usó en el medio,
	// el delete devuelve not-found y este intento pierde.
	if err := s.repo.DeleteRefreshToken(ctx, raw); err != nil {
		if errors.Is(err, core.ErrUnavailable) {
			return nil, err
		}
		return nil, ErrInvalidRefresh
	}

	u, err := s.repo.GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, core.ErrUnavailable) {
			return nil, err
		}
		return nil, ErrInvalidRefresh
	}

	pair, err := s.IssuePair(ctx, u, "refresh")
	if err != nil {
		return nil, err
	}
	metrics.RefreshRotations.Inc()
	log.Info("refresh token rotated", logger.UserID(u.ID))
	return pair, nil
}

// RevokeAll borra todos los refresh tokens del usuario (logout).
func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	return s.repo.DeleteRefreshTokensByUser(ctx, userID)
}

// SweepExpired elimina los refresh tokens vencidos. No está cableado a
// ningún scheduler: se invoca externamente (comando `tokens sweep`).
func (s *TokenService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredRefreshTokens(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	metrics.SweptTokens.Add(float64(n))
	logger.From(ctx).Info("expired refresh tokens swept",
		logger.Component("tokens"), logger.Count(int(n)))
	return n, nil
}
