package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/idocracy/internal/cache"
	"github.com/dropDatabas3/idocracy/internal/observability/logger"
	"github.com/dropDatabas3/idocracy/internal/security/password"
	tokens "github.com/dropDatabas3/idocracy/internal/security/token"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

// Errores de apps
var (
	ErrAppNotFound   = errors.New("app not found")
	ErrInvalidClient = errors.New("invalid client credentials")
)

const clientCacheTTL = 2 * time.Minute

type AppService struct {
	repo   core.Repository
	cache  cache.Cache
	params password.Params
}

// NewAppService crea el registry de apps. cache puede ser nil (sin cache
// en el lookup por client_id).
func NewAppService(repo core.Repository, c cache.Cache) *AppService {
	return &AppService{repo: repo, cache: c, params: password.Default}
}

type CreateAppInput struct {
	Name         string
	RedirectURIs []string
	Description  *string
	LogoURL      *string
	WebsiteURL   *string
}

// Create registra una app con credenciales generadas. Devuelve el
// client_secret en plaintext EXACTAMENTE una vez (esta respuesta); en
// reposo solo se persiste el hash.
func (s *AppService) Create(ctx context.Context, in CreateAppInput, createdBy string) (*core.App, string, error) {
	log := logger.From(ctx).With(logger.Component("apps"), logger.Op("Create"))

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, "", ErrMissingFields
	}
	if in.RedirectURIs == nil {
		in.RedirectURIs = []string{}
	}

	clientID, err := tokens.GenerateClientID()
	if err != nil {
		return nil, "", err
	}
	secret, err := tokens.GenerateClientSecret()
	if err != nil {
		return nil, "", err
	}
	secretHash, err := password.Hash(s.params, secret)
	if err != nil {
		return nil, "", err
	}

	a := &core.App{
		ID:               uuid.NewString(),
		Name:             in.Name,
		RedirectURIs:     in.RedirectURIs,
		Description:      in.Description,
		LogoURL:          in.LogoURL,
		WebsiteURL:       in.WebsiteURL,
		ClientID:         clientID,
		ClientSecretHash: secretHash,
		CreatedBy:        createdBy,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.CreateApp(ctx, a); err != nil {
		return nil, "", err
	}
	log.Info("app created", logger.AppID(a.ID), logger.ClientID(clientID))
	return a, secret, nil
}

func (s *AppService) GetByID(ctx context.Context, id string) (*core.App, error) {
	a, err := s.repo.GetAppByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AppService) List(ctx context.Context) ([]core.App, error) {
	return s.repo.ListApps(ctx)
}

func (s *AppService) Update(ctx context.Context, id string, upd core.AppUpdate) (*core.App, error) {
	a, err := s.repo.UpdateApp(ctx, id, upd)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, err
	}
	s.invalidate(a.ClientID)
	return a, nil
}

func (s *AppService) Delete(ctx context.Context, id string) error {
	// lookup previo solo para invalidar el cache por client_id
	if a, err := s.repo.GetAppByID(ctx, id); err == nil {
		s.invalidate(a.ClientID)
	}
	if err := s.repo.DeleteApp(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrAppNotFound
		}
		return err
	}
	return nil
}

// VerifyClientCredentials autentica una app por client_id + client_secret.
// Cualquier mismatch ⇒ ErrInvalidClient, sin distinción. El lookup por
// client_id pasa por cache (hot path de apps cliente verificando tokens).
func (s *AppService) VerifyClientCredentials(ctx context.Context, clientID, clientSecret string) (*core.App, error) {
	a := s.cached(clientID)
	if a == nil {
		var err error
		a, err = s.repo.GetAppByClientID(ctx, clientID)
		if err != nil {
			if errors.Is(err, core.ErrUnavailable) {
				return nil, err
			}
			return nil, ErrInvalidClient
		}
		s.store(a)
	}
	if !password.Verify(clientSecret, a.ClientSecretHash) {
		return nil, ErrInvalidClient
	}
	return a, nil
}

// ---- cache client_id → app ----

// cachedApp existe porque core.App serializa el hash con json:"-";
// el cache es interno y necesita llevarlo.
type cachedApp struct {
	App        core.App `json:"app"`
	SecretHash string   `json:"secret_hash"`
}

func cacheKey(clientID string) string { return "app:client:" + clientID }

func (s *AppService) cached(clientID string) *core.App {
	if s.cache == nil {
		return nil
	}
	b, ok := s.cache.Get(cacheKey(clientID))
	if !ok {
		return nil
	}
	var ca cachedApp
	if err := json.Unmarshal(b, &ca); err != nil {
		return nil
	}
	ca.App.ClientSecretHash = ca.SecretHash
	return &ca.App
}

func (s *AppService) store(a *core.App) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(cachedApp{App: *a, SecretHash: a.ClientSecretHash})
	if err != nil {
		return
	}
	s.cache.Set(cacheKey(a.ClientID), b, clientCacheTTL)
}

func (s *AppService) invalidate(clientID string) {
	if s.cache != nil {
		s.cache.Delete(cacheKey(clientID))
	}
}
