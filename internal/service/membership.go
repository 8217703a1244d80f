package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/idocracy/internal/observability/logger"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

// Errores de membresías
var (
	ErrAlreadyMember      = errors.New("user is already in this app")
	ErrMembershipNotFound = errors.New("membership not found")
)

type MembershipService struct {
	repo core.Repository
}

func NewMembershipService(repo core.Repository) *MembershipService {
	return &MembershipService{repo: repo}
}

// Add crea la membresía (user, app) con roles (default ["viewer"]).
// El par duplicado lo rechaza el unique index compuesto ⇒ ErrAlreadyMember.
func (s *MembershipService) Add(ctx context.Context, appID, userID string, roles []string) (*core.AppUser, error) {
	if len(roles) == 0 {
		roles = []string{"viewer"}
	}
	m := &core.AppUser{
		ID:        uuid.NewString(),
		UserID:    userID,
		AppID:     appID,
		Roles:     roles,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateAppUser(ctx, m); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}
	logger.From(ctx).Info("membership added",
		logger.Component("membership"), logger.AppID(appID), logger.UserID(userID))
	return m, nil
}

// ListAppUsers devuelve los usuarios miembros de la app (join membresía →
// user). Una membresía cuyo usuario ya no existe se saltea en silencio.
func (s *MembershipService) ListAppUsers(ctx context.Context, appID string) ([]core.User, error) {
	ms, err := s.repo.ListAppUsersByApp(ctx, appID)
	if err != nil {
		return nil, err
	}
	users := make([]core.User, 0, len(ms))
	for _, m := range ms {
		u, err := s.repo.GetUserByID(ctx, m.UserID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// ListUserApps devuelve los ids de apps a las que pertenece el usuario.
func (s *MembershipService) ListUserApps(ctx context.Context, userID string) ([]string, error) {
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

func (s *MembershipService) Remove(ctx context.Context, appID, userID string) error {
	if err := s.repo.DeleteAppUser(ctx, appID, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrMembershipNotFound
		}
		return err
	}
	return nil
}

func (s *MembershipService) UpdateRoles(ctx context.Context, appID, userID string, roles []string) (*core.AppUser, error) {
	if len(roles) == 0 {
		roles = []string{"viewer"}
	}
	m, err := s.repo.UpdateAppUserRoles(ctx, appID, userID, roles)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return m, nil
}
