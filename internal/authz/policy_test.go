package authz

import (
	"testing"

	jwtx "github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

func claims(sub string, roles ...string) *jwtx.Claims {
	return &jwtx.Claims{Subject: sub, Roles: roles}
}

func TestIsAdmin(t *testing.T) {
	if !IsAdmin(claims("u1", "admin", "user")) {
		t.Fatal("admin no reconocido")
	}
	if IsAdmin(claims("u1", "user")) {
		t.Fatal("user plano pasó como admin")
	}
	if IsAdmin(nil) {
		t.Fatal("claims nil pasó como admin")
	}
}

func TestIsSelfOrAdmin(t *testing.T) {
	if !IsSelfOrAdmin(claims("u1", "user"), "u1") {
		t.Fatal("self rechazado")
	}
	if IsSelfOrAdmin(claims("u1", "user"), "u2") {
		t.Fatal("tercero sin admin aceptado")
	}
	if !IsSelfOrAdmin(claims("u1", "admin"), "u2") {
		t.Fatal("admin rechazado sobre tercero")
	}
}

func TestIsAppOwnerOrAdmin(t *testing.T) {
	app := &core.App{ID: "a1", CreatedBy: "owner-1"}
	if !IsAppOwnerOrAdmin(claims("owner-1", "user"), app) {
		t.Fatal("owner rechazado")
	}
	if !IsAppOwnerOrAdmin(claims("x", "admin"), app) {
		t.Fatal("admin rechazado")
	}
	if IsAppOwnerOrAdmin(claims("x", "user"), app) {
		t.Fatal("tercero aceptado")
	}
	if IsAppOwnerOrAdmin(claims("x", "admin"), nil) {
		t.Fatal("app nil aceptada")
	}
}

func TestIsAppMemberOrOwnerOrAdmin(t *testing.T) {
	app := &core.App{ID: "a1", CreatedBy: "owner-1"}

	if !IsAppMemberOrOwnerOrAdmin(claims("m1", "user"), app, []string{"a0", "a1"}) {
		t.Fatal("miembro rechazado")
	}
	if IsAppMemberOrOwnerOrAdmin(claims("m1", "user"), app, []string{"a0"}) {
		t.Fatal("no-miembro aceptado")
	}
	if !IsAppMemberOrOwnerOrAdmin(claims("owner-1", "user"), app, nil) {
		t.Fatal("owner sin membresía rechazado")
	}
	if !IsAppMemberOrOwnerOrAdmin(claims("x", "admin"), app, nil) {
		t.Fatal("admin rechazado")
	}
}
