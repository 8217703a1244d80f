// idocracy es el servidor de identidad y SSO multi-tenant.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version se inyecta con -ldflags "-X main.version=..."
var version = "dev"

var cfgPath string

func main() {
	// .env es opcional: en producción las vars vienen del entorno
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "idocracy",
		Short:         "Servidor de identidad y SSO multi-tenant",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "ruta al config.yaml (opcional)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newAdminCmd())
	root.AddCommand(newTokensCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
