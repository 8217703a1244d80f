package core

import (
	"context"
	"time"
)

// Repository es el contrato sobre las colecciones persistentes
// (users, apps, app_users, tokens). Los drivers (pg, memory) lo implementan.
//
// Unicidad: email de usuario, client_id de app y el par (app_id, user_id)
// se garantizan a nivel de constraint del store; la violación se reporta
// como ErrConflict (no hay pre-check read-then-write).
type Repository interface {
	Ping(ctx context.Context) error
	Close()

	// Users
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error)
	UpdateUserPasswordHash(ctx context.Context, id, hash string) error
	// DeleteUser elimina el usuario y cascadea sus membresías y refresh tokens.
	DeleteUser(ctx context.Context, id string) error

	// Apps
	CreateApp(ctx context.Context, a *App) error
	GetAppByID(ctx context.Context, id string) (*App, error)
	GetAppByClientID(ctx context.Context, clientID string) (*App, error)
	ListApps(ctx context.Context) ([]App, error)
	UpdateApp(ctx context.Context, id string, upd AppUpdate) (*App, error)
	// DeleteApp elimina la app y cascadea sus membresías.
	DeleteApp(ctx context.Context, id string) error

	// App users (membresías)
	CreateAppUser(ctx context.Context, m *AppUser) error
	GetAppUser(ctx context.Context, appID, userID string) (*AppUser, error)
	ListAppUsersByApp(ctx context.Context, appID string) ([]AppUser, error)
	ListAppUsersByUser(ctx context.Context, userID string) ([]AppUser, error)
	UpdateAppUserRoles(ctx context.Context, appID, userID string, roles []string) (*AppUser, error)
	DeleteAppUser(ctx context.Context, appID, userID string) error

	// Refresh tokens
	CreateRefreshToken(ctx context.Context, t *RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteRefreshTokensByUser(ctx context.Context, userID string) error
	// DeleteExpiredRefreshTokens borra todo token con expires_at < before.
	// Devuelve la cantidad eliminada. Operación de mantenimiento (sweep).
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}
