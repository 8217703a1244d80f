package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/idocracy/internal/bootstrap"
	"github.com/dropDatabas3/idocracy/internal/cache"
	"github.com/dropDatabas3/idocracy/internal/config"
	httpx "github.com/dropDatabas3/idocracy/internal/http"
	"github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/metrics"
	"github.com/dropDatabas3/idocracy/internal/observability/logger"
	"github.com/dropDatabas3/idocracy/internal/rate"
	"github.com/dropDatabas3/idocracy/internal/service"
	"github.com/dropDatabas3/idocracy/internal/store/core"
	"github.com/dropDatabas3/idocracy/internal/store/memory"
	"github.com/dropDatabas3/idocracy/internal/store/pg"

	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: cfg.App.Name})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	if err := metrics.Register(nil); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	appCache := cache.New(cache.Config{
		Kind:       cfg.Cache.Kind,
		RedisAddr:  cfg.Cache.Redis.Addr,
		RedisDB:    cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: mustDuration(cfg.Cache.Memory.DefaultTTL),
	})

	issuer := jwt.New(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.AccessTTL())

	identity := service.NewIdentityService(repo)
	apps := service.NewAppService(repo, appCache)
	membership := service.NewMembershipService(repo)
	tokens := service.NewTokenService(repo, issuer, cfg.RefreshTTL())
	sso := service.NewSSOService(repo, issuer, cfg.SSOTTL())

	if err := bootstrap.EnsureAdmin(ctx, identity,
		cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	// rate limit de login: solo con redis configurado
	var limiter rate.Limiter
	if cfg.Rate.Enabled && cfg.Cache.Redis.Addr != "" {
		client := rdb.NewClient(&rdb.Options{Addr: cfg.Cache.Redis.Addr, DB: cfg.Cache.Redis.DB})
		limiter = rate.NewRedisLimiter(client, "rl:login:", cfg.Rate.Login.Limit, cfg.LoginRateWindow())
		log.Info("rate limit de login habilitado",
			zap.Int("limit", cfg.Rate.Login.Limit),
			zap.Duration("window", cfg.LoginRateWindow()))
	}

	router := httpx.NewRouter(httpx.Deps{
		Repo:         repo,
		Issuer:       issuer,
		Identity:     identity,
		Apps:         apps,
		Membership:   membership,
		Tokens:       tokens,
		SSO:          sso,
		LoginLimiter: limiter,
		CORSOrigins:  cfg.Server.CORSAllowedOrigins,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server escuchando",
			zap.String("addr", cfg.Server.Addr),
			zap.String("driver", cfg.Storage.Driver),
			zap.String("version", version))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("apagando http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore abre el repositorio según el driver configurado.
func openStore(ctx context.Context, cfg *config.Config) (core.Repository, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return pg.New(ctx, cfg.Storage.DSN, pg.Config{
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			MinConns:        cfg.Storage.Postgres.MinConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("storage driver desconocido: %q", cfg.Storage.Driver)
	}
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
