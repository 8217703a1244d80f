package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/idocracy/internal/config"
	"github.com/dropDatabas3/idocracy/internal/observability/logger"
	"github.com/dropDatabas3/idocracy/internal/service"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administración de usuarios privilegiados",
	}
	cmd.AddCommand(newAdminCreateCmd())
	return cmd
}

func newAdminCreateCmd() *cobra.Command {
	var email, pwd, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un usuario admin contra el store configurado",
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

			u, err := service.NewIdentityService(repo).Create(ctx, service.CreateUserInput{
				Email:    email,
				Password: pwd,
				Name:     name,
				Roles:    []string{"admin", "user"},
			})
			if err != nil {
				return err
			}
			fmt.Printf("admin creado: %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email del admin")
	cmd.Flags().StringVar(&pwd, "password", "", "password del admin")
	cmd.Flags().StringVar(&name, "name", "Administrator", "nombre a mostrar")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
