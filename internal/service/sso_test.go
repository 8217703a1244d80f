package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	jwtx "github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/store/core"
	"github.com/dropDatabas3/idocracy/internal/store/memory"
)

func seedSSOFixtures(t *testing.T, repo core.Repository) {
	t.Helper()
	ctx := context.Background()
	for _, u := range []*core.User{
		{ID: "owner", Email: "owner@x.c", Name: "Owner", Roles: []string{"user"}},
		{ID: "member", Email: "member@x.c", Name: "Member", Roles: []string{"user"}},
		{ID: "extra", Email: "extra@x.c", Name: "Extra", Roles: []string{"user"}},
		{ID: "root", Email: "root@x.c", Name: "Root", Roles: []string{"admin"}},
	} {
		if err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser(%s): %v", u.ID, err)
		}
	}
	apps := []*core.App{
		{ID: "a1", Name: "CRM", ClientID: "client_1", CreatedBy: "owner",
			RedirectURIs: []string{"https://crm.example.com/sso"}},
		{ID: "a2", Name: "Sin URIs", ClientID: "client_2", CreatedBy: "owner"},
	}
	for _, a := range apps {
		if err := repo.CreateApp(ctx, a); err != nil {
			t.Fatalf("CreateApp(%s): %v", a.ID, err)
		}
	}
	for _, pair := range [][2]string{{"a1", "member"}, {"a2", "member"}} {
		m := &core.AppUser{ID: pair[0] + "-" + pair[1], AppID: pair[0], UserID: pair[1], Roles: []string{"viewer"}}
		if err := repo.CreateAppUser(ctx, m); err != nil {
			t.Fatalf("CreateAppUser: %v", err)
		}
	}
}

func ssoClaims(sub string, roles ...string) *jwtx.Claims {
	return &jwtx.Claims{Subject: sub, Roles: roles}
}

func TestLaunchAsMember(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedSSOFixtures(t, repo)
	iss := testIssuer()
	svc := NewSSOService(repo, iss, 5*time.Minute)

	res, err := svc.Launch(ctx, ssoClaims("member", "user"), "a1")
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if !strings.HasPrefix(res.RedirectURL, "https://crm.example.com/sso?token=") {
		t.Fatalf("redirect URL %q", res.RedirectURL)
	}

	claims, err := iss.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.AppID != "a1" || claims.AppName != "CRM" {
		t.Fatalf("token sin scope de app: %+v", claims)
	}
	if claims.Subject != "member" || claims.Name != "Member" {
		t.Fatalf("identidad equivocada: %+v", claims)
	}
	// token corto: 5 minutos, no el TTL de access
	if time.Until(claims.ExpiresAt) > 6*time.Minute {
		t.Fatalf("TTL del token SSO demasiado largo: %v", claims.ExpiresAt)
	}
}

func TestLaunchDeniedForNonMember(t *testing.T) {
	repo := memory.New()
	seedSSOFixtures(t, repo)
	svc := NewSSOService(repo, testIssuer(), 5*time.Minute)

	if _, err := svc.Launch(context.Background(), ssoClaims("extra", "user"), "a1"); !errors.Is(err, ErrNotAppMember) {
		t.Fatalf("esperaba ErrNotAppMember, vino %v", err)
	}
}

func TestLaunchAllowedForOwnerAndAdmin(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedSSOFixtures(t, repo)
	svc := NewSSOService(repo, testIssuer(), 5*time.Minute)

	if _, err := svc.Launch(ctx, ssoClaims("owner", "user"), "a1"); err != nil {
		t.Fatalf("owner rechazado: %v", err)
	}
	if _, err := svc.Launch(ctx, ssoClaims("root", "admin"), "a1"); err != nil {
		t.Fatalf("admin rechazado: %v", err)
	}
}

func TestLaunchUnknownApp(t *testing.T) {
	repo := memory.New()
	seedSSOFixtures(t, repo)
	svc := NewSSOService(repo, testIssuer(), 5*time.Minute)

	if _, err := svc.Launch(context.Background(), ssoClaims("member", "user"), "nope"); !errors.Is(err, ErrAppNotFound) {
		t.Fatalf("esperaba ErrAppNotFound, vino %v", err)
	}
}

func TestLaunchWithoutRedirectURIs(t *testing.T) {
	repo := memory.New()
	seedSSOFixtures(t, repo)
	svc := NewSSOService(repo, testIssuer(), 5*time.Minute)

	if _, err := svc.Launch(context.Background(), ssoClaims("member", "user"), "a2"); !errors.Is(err, ErrNoRedirectURI) {
		t.Fatalf("esperaba ErrNoRedirectURI, vino %v", err)
	}
}

func TestDashboardSkipsDeletedApps(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedSSOFixtures(t, repo)
	svc := NewSSOService(repo, testIssuer(), 5*time.Minute)

	apps, err := svc.Dashboard(ctx, "member")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("dashboard con %d apps, esperaba 2", len(apps))
	}

	// nota: el memory store cascadea membresías al borrar la app, así que
	// basta validar que el dashboard refleja el borrado
	if err := repo.DeleteApp(ctx, "a2"); err != nil {
		t.Fatalf("DeleteApp: %v", err)
	}
	apps, err = svc.Dashboard(ctx, "member")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(apps) != 1 || apps[0].ID != "a1" {
		t.Fatalf("dashboard tras borrar: %+v", apps)
	}
}
