package pg

import (
	"context"

	"github.com/dropDatabas3/idocracy/internal/store/core"
)

const appUserCols = `id, user_id, app_id, roles, created_at`

func (s *Store) CreateAppUser(ctx context.Context, m *core.AppUser) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO app_users (id, user_id, app_id, roles, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.AppID, m.Roles, m.CreatedAt,
	)
	return mapErr(err)
}

func (s *Store) GetAppUser(ctx context.Context, appID, userID string) (*core.AppUser, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+appUserCols+` FROM app_users WHERE app_id = $1 AND user_id = $2`, appID, userID)
	return scanAppUser(row)
}

func (s *Store) ListAppUsersByApp(ctx context.Context, appID string) ([]core.AppUser, error) {
	return s.listAppUsers(ctx, `SELECT `+appUserCols+` FROM app_users WHERE app_id = $1`, appID)
}

func (s *Store) ListAppUsersByUser(ctx context.Context, userID string) ([]core.AppUser, error) {
	return s.listAppUsers(ctx, `SELECT `+appUserCols+` FROM app_users WHERE user_id = $1`, userID)
}

func (s *Store) listAppUsers(ctx context.Context, q, arg string) ([]core.AppUser, error) {
	rows, err := s.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.AppUser
	for rows.Next() {
		var m core.AppUser
		if err := rows.Scan(&m.ID, &m.UserID, &m.AppID, &m.Roles, &m.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateAppUserRoles(ctx context.Context, appID, userID string, roles []string) (*core.AppUser, error) {
	row := s.pool.QueryRow(ctx, `
        UPDATE app_users SET roles = $3
         WHERE app_id = $1 AND user_id = $2
     RETURNING `+appUserCols,
		appID, userID, roles,
	)
	return scanAppUser(row)
}

func (s *Store) DeleteAppUser(ctx context.Context, appID, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM app_users WHERE app_id = $1 AND user_id = $2`, appID, userID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanAppUser(row rowScanner) (*core.AppUser, error) {
	var m core.AppUser
	if err := row.Scan(&m.ID, &m.UserID, &m.AppID, &m.Roles, &m.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}
