// Package service contiene la lógica de negocio: identidad, apps,
// membresías y el ciclo de vida de tokens. Los handlers HTTP solo
// autorizan y adaptan; la semántica vive acá.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/idocracy/internal/observability/logger"
	"github.com/dropDatabas3/idocracy/internal/security/password"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

// Errores de identidad
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingFields      = errors.New("missing required fields")
)

type IdentityService struct {
	repo   core.Repository
	params password.Params
}

func NewIdentityService(repo core.Repository) *IdentityService {
	return &IdentityService{repo: repo, params: password.Default}
}

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Roles    []string
}

// Create da de alta un usuario. Email se normaliza a lowercase; el
// password se hashea antes de persistir y el plaintext no se guarda ni
// retorna nunca. Conflicto de email ⇒ ErrEmailTaken (lo reporta el
// unique index del store, no un pre-check).
func (s *IdentityService) Create(ctx context.Context, in CreateUserInput) (*core.User, error) {
	log := logger.From(ctx).With(logger.Component("identity"), logger.Op("Create"))

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, ErrMissingFields
	}
	if len(in.Roles) == 0 {
		in.Roles = []string{"user"}
	}

	hash, err := password.Hash(s.params, in.Password)
	if err != nil {
		return nil, err
	}

	u := &core.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		Roles:        in.Roles,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, core.ErrConflict) {
			log.Debug("email already registered", logger.Email(in.Email))
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	log.Info("user created", logger.UserID(u.ID))
	return u, nil
}

// Authenticate verifica email+password. Cualquier mismatch (email
// inexistente o password incorrecto) devuelve ErrInvalidCredentials sin
// distinción: el caller nunca sabe cuál de los dos falló.
func (s *IdentityService) Authenticate(ctx context.Context, email, pwd string) (*core.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrUnavailable) {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(pwd, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *IdentityService) GetByID(ctx context.Context, id string) (*core.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *IdentityService) GetByEmail(ctx context.Context, email string) (*core.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *IdentityService) List(ctx context.Context) ([]core.User, error) {
	return s.repo.ListUsers(ctx)
}

// Update aplica un update parcial (solo campos no-nil). La política de
// "non-admin no toca roles" la refuerza la capa HTTP, no el registry.
func (s *IdentityService) Update(ctx context.Context, id string, upd core.UserUpdate) (*core.User, error) {
	u, err := s.repo.UpdateUser(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, core.ErrConflict):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// ChangePassword reemplaza el hash persistido. Verificar el password
// vigente (cuando corresponde) es responsabilidad del caller.
func (s *IdentityService) ChangePassword(ctx context.Context, id, newPwd string) error {
	if strings.TrimSpace(newPwd) == "" {
		return ErrMissingFields
	}
	hash, err := password.Hash(s.params, newPwd)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateUserPasswordHash(ctx, id, hash); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	logger.From(ctx).Info("password changed", logger.Component("identity"), logger.UserID(id))
	return nil
}

// Delete elimina el usuario; membresías y refresh tokens cascadean.
func (s *IdentityService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	logger.From(ctx).Info("user deleted", logger.Component("identity"), logger.UserID(id))
	return nil
}
