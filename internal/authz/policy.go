// Package authz centraliza las decisiones de autorización role-based.
// Todos los entry points componen estos pocos predicados en vez de
// re-derivar los checks por endpoint. El orden en los handlers es siempre:
// resolver sujeto → resolver entidad target (404) → autorizar (403) →
// ejecutar la operación.
package authz

import (
	jwtx "github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	// RoleViewer es el rol por defecto de una membresía app-scoped.
	RoleViewer = "viewer"
)

// IsAdmin: "admin" ∈ claims.roles.
func IsAdmin(c *jwtx.Claims) bool {
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// IsSelfOrAdmin permite la operación sobre el propio registro o a un admin.
func IsSelfOrAdmin(c *jwtx.Claims, targetUserID string) bool {
	if c == nil {
		return false
	}
	return IsAdmin(c) || c.Subject == targetUserID
}

// IsAppOwnerOrAdmin: admin o el creador de la app.
func IsAppOwnerOrAdmin(c *jwtx.Claims, app *core.App) bool {
	if c == nil || app == nil {
		return false
	}
	return IsAdmin(c) || c.Subject == app.CreatedBy
}

// IsAppMemberOrOwnerOrAdmin: lo anterior, o la app está entre las
// membresías del sujeto (memberOf = ids de apps del sujeto).
func IsAppMemberOrOwnerOrAdmin(c *jwtx.Claims, app *core.App, memberOf []string) bool {
	if IsAppOwnerOrAdmin(c, app) {
		return true
	}
	if c == nil || app == nil {
		return false
	}
	for _, id := range memberOf {
		if id == app.ID {
			return true
		}
	}
	return false
}
