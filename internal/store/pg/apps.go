package pg

import (
	"context"

	"github.com/dropDatabas3/idocracy/internal/store/core"
)

const appCols = `id, name, redirect_uris, description, logo_url, website_url,
                 client_id, client_secret_hash, created_by, created_at`

func (s *Store) CreateApp(ctx context.Context, a *core.App) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO apps (id, name, redirect_uris, description, logo_url, website_url,
                          client_id, client_secret_hash, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.Name, a.RedirectURIs, a.Description, a.LogoURL, a.WebsiteURL,
		a.ClientID, a.ClientSecretHash, a.CreatedBy, a.CreatedAt,
	)
	return mapErr(err)
}

func (s *Store) GetAppByID(ctx context.Context, id string) (*core.App, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+appCols+` FROM apps WHERE id = $1`, id)
	return scanApp(row)
}

func (s *Store) GetAppByClientID(ctx context.Context, clientID string) (*core.App, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+appCols+` FROM apps WHERE client_id = $1`, clientID)
	return scanApp(row)
}

func (s *Store) ListApps(ctx context.Context) ([]core.App, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+appCols+` FROM apps ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.App
	for rows.Next() {
		var a core.App
		if err := rows.Scan(&a.ID, &a.Name, &a.RedirectURIs, &a.Description, &a.LogoURL,
			&a.WebsiteURL, &a.ClientID, &a.ClientSecretHash, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, a)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateApp(ctx context.Context, id string, upd core.AppUpdate) (*core.App, error) {
	if upd.Empty() {
		return s.GetAppByID(ctx, id)
	}
	row := s.pool.QueryRow(ctx, `
        UPDATE apps
           SET name          = COALESCE($2, name),
               redirect_uris = COALESCE($3, redirect_uris),
               description   = COALESCE($4, description),
               logo_url      = COALESCE($5, logo_url),
               website_url   = COALESCE($6, website_url)
         WHERE id = $1
     RETURNING `+appCols,
		id, upd.Name, upd.RedirectURIs, upd.Description, upd.LogoURL, upd.WebsiteURL,
	)
	return scanApp(row)
}

// DeleteApp: las membresías de la app cascadean por FK.
func (s *Store) DeleteApp(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM apps WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanApp(row rowScanner) (*core.App, error) {
	var a core.App
	if err := row.Scan(&a.ID, &a.Name, &a.RedirectURIs, &a.Description, &a.LogoURL,
		&a.WebsiteURL, &a.ClientID, &a.ClientSecretHash, &a.CreatedBy, &a.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}
