package pg

import (
	"context"
	"strings"

	"github.com/dropDatabas3/idocracy/internal/store/core"
)

const userCols = `id, email, name, roles, password_hash, created_at`

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO users (id, email, name, roles, password_hash, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, strings.ToLower(u.Email), u.Name, u.Roles, u.PasswordHash, u.CreatedAt,
	)
	return mapErr(err)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = lower($1)`, email)
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Roles, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, u)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd core.UserUpdate) (*core.User, error) {
	if upd.Empty() {
		return s.GetUserByID(ctx, id)
	}
	var email, name *string
	if upd.Email != nil {
		e := strings.ToLower(*upd.Email)
		email = &e
	}
	name = upd.Name
	var roles *[]string = upd.Roles

	row := s.pool.QueryRow(ctx, `
        UPDATE users
           SET email = COALESCE($2, email),
               name  = COALESCE($3, name),
               roles = COALESCE($4, roles)
         WHERE id = $1
     RETURNING `+userCols,
		id, email, name, roles,
	)
	return scanUser(row)
}

func (s *Store) UpdateUserPasswordHash(ctx context.Context, id, hash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteUser: membresías y refresh tokens cascadean por FK.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (*core.User, error) {
	var u core.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Roles, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}
