// Package bootstrap siembra el estado mínimo que el servicio necesita
// al arrancar.
package bootstrap

import (
	"context"
	"errors"

	"github.com/dropDatabas3/idocracy/internal/observability/logger"
	"github.com/dropDatabas3/idocracy/internal/service"
)

// EnsureAdmin garantiza que exista el usuario admin configurado.
// Idempotente: si el email ya está registrado no toca nada (ni el
// password ni los roles), para no pisar cambios hechos en runtime.
func EnsureAdmin(ctx context.Context, identity *service.IdentityService, email, pwd, name string) error {
	log := logger.From(ctx).With(logger.Component("bootstrap"))

	if email == "" || pwd == "" {
		log.Debug("bootstrap admin no configurado, se omite")
		return nil
	}
	if name == "" {
		name = "Administrator"
	}

	u, err := identity.Create(ctx, service.CreateUserInput{
		Email:    email,
		Password: pwd,
		Name:     name,
		Roles:    []string{"admin", "user"},
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			log.Debug("admin ya existe", logger.Email(email))
			return nil
		}
		return err
	}
	log.Info("admin inicial creado", logger.UserID(u.ID), logger.Email(email))
	return nil
}
