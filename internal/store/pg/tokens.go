package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/idocracy/internal/store/core"
)

func (s *Store) CreateRefreshToken(ctx context.Context, t *core.RefreshToken) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO refresh_tokens (id, user_id, token, expires_at)
        VALUES ($1, $2, $3, $4)`,
		t.ID, t.UserID, t.Token, t.ExpiresAt,
	)
	return mapErr(err)
}

func (s *Store) GetRefreshToken(ctx context.Context, token string) (*core.RefreshToken, error) {
	var t core.RefreshToken
	err := s.pool.QueryRow(ctx, `
        SELECT id, user_id, token, expires_at
          FROM refresh_tokens WHERE token = $1`, token,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

func (s *Store) DeleteRefreshToken(ctx context.Context, token string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRefreshTokensByUser(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	return mapErr(err)
}

func (s *Store) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}
