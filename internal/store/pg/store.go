// Package pg implementa core.Repository sobre postgres (pgxpool).
//
// La unicidad (users.email, apps.client_id, par app_users) está en los
// unique indexes del schema; la violación (SQLSTATE 23505) se traduce a
// core.ErrConflict. No hay pre-check read-then-write.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/idocracy/internal/store/core"
)

type Store struct{ pool *pgxpool.Pool }

// Config de tuning del pool (todo opcional).
type Config struct {
	MaxConns        int
	MinConns        int
	ConnMaxLifetime string
}

func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
			pcfg.MaxConnIdleTime = d
		}
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// Pool expone el pool interno para usos avanzados (métricas/migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

// mapErr traduce errores del driver al vocabulario de core:
// no-rows ⇒ ErrNotFound, unique violation ⇒ ErrConflict, FK violation ⇒
// ErrNotFound (la fila referenciada no existe: error del cliente, no del
// storage), el resto ⇒ ErrUnavailable.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return core.ErrConflict
		case "23503": // foreign_key_violation
			return core.ErrNotFound
		}
	}
	return fmt.Errorf("%w: %v", core.ErrUnavailable, err)
}
