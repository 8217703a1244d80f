package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dropDatabas3/idocracy/internal/authz"
	jwtx "github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/metrics"
	"github.com/dropDatabas3/idocracy/internal/observability/logger"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

// Errores de SSO
var (
	ErrNotAppMember  = errors.New("access denied to this app")
	ErrNoRedirectURI = errors.New("no redirect URIs configured for this app")
)

// SSOService implementa el dashboard y el launch flow. Launch reusa el
// core de emisión de tokens con TTL corto y claims app-scoped.
type SSOService struct {
	repo   core.Repository
	issuer *jwtx.Issuer
	ssoTTL time.Duration
}

// NewSSOService: ssoTTL es el TTL del token de launch (corto, default 5m).
func NewSSOService(repo core.Repository, issuer *jwtx.Issuer, ssoTTL time.Duration) *SSOService {
	return &SSOService{repo: repo, issuer: issuer, ssoTTL: ssoTTL}
}

// Dashboard devuelve las apps a las que pertenece el usuario.
// Una membresía cuya app fue borrada se saltea.
func (s *SSOService) Dashboard(ctx context.Context, userID string) ([]core.App, error) {
	ms, err := s.repo.ListAppUsersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	apps := make([]core.App, 0, len(ms))
	for _, m := range ms {
		a, err := s.repo.GetAppByID(ctx, m.AppID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				continue
			}
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, nil
}

// LaunchResult es el payload de redirect del SSO launch. Se responde como
// JSON; el cliente hace el redirect.
type LaunchResult struct {
	RedirectURL string `json:"redirect_url"`
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	AppName     string `json:"app_name"`
}

// Launch emite un token corto app-scoped y arma la URL de redirect sobre
// la primera redirect URI de la app. Orden: app (404) → autorización
// member-or-owner-or-admin (403) → emisión.
func (s *SSOService) Launch(ctx context.Context, claims *jwtx.Claims, appID string) (*LaunchResult, error) {
	log := logger.From(ctx).With(logger.Component("sso"), logger.Op("Launch"), logger.AppID(appID))

	app, err := s.repo.GetAppByID(ctx, appID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, err
	}

	memberOf, err := s.memberAppIDs(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if !authz.IsAppMemberOrOwnerOrAdmin(claims, app, memberOf) {
		log.Debug("launch denied", logger.UserID(claims.Subject))
		return nil, ErrNotAppMember
	}

	u, err := s.repo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if len(app.RedirectURIs) == 0 {
		return nil, ErrNoRedirectURI
	}

	token, _, err := s.issuer.Issue(jwtx.Claims{
		Subject: u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Roles:   u.Roles,
		AppID:   app.ID,
		AppName: app.Name,
	}, s.ssoTTL)
	if err != nil {
		return nil, err
	}
	metrics.TokensIssued.WithLabelValues("sso").Inc()

	redirect := fmt.Sprintf("%s?token=%s&user_id=%s&email=%s",
		app.RedirectURIs[0], url.QueryEscape(token), url.QueryEscape(u.ID), url.QueryEscape(u.Email))

	log.Info("sso launch", logger.UserID(u.ID))
	return &LaunchResult{
		RedirectURL: redirect,
		Token:       token,
		UserID:      u.ID,
		Email:       u.Email,
		AppName:     app.Name,
	}, nil
}

func (s *SSOService) memberAppIDs(ctx context.Context, userID string) ([]string, error) {
	ms, err := s.repo.ListAppUsersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.AppID)
	}
	return ids, nil
}
