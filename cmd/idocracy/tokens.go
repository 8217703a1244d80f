package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/idocracy/internal/config"
	"github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/observability/logger"
	"github.com/dropDatabas3/idocracy/internal/service"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Mantenimiento de refresh tokens",
	}
	cmd.AddCommand(newTokensSweepCmd())
	return cmd
}

// sweep elimina refresh tokens ya expirados. Pensado para correr por
// cron; el servidor igual los rechaza lazy si siguen en el store.
func newTokensSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Elimina refresh tokens expirados del store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			repo, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			issuer := jwt.New(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.AccessTTL())
			tokens := service.NewTokenService(repo, issuer, cfg.RefreshTTL())

			n, err := tokens.SweepExpired(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("refresh tokens expirados eliminados: %d\n", n)
			return nil
		},
	}
}
