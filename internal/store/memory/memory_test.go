package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/idocracy/internal/store/core"
)

func seedUser(t *testing.T, s *Store, id, email string) *core.User {
	t.Helper()
	u := &core.User{ID: id, Email: email, Name: "n", Roles: []string{"user"}, CreatedAt: time.Now()}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", id, err)
	}
	return u
}

func seedApp(t *testing.T, s *Store, id, clientID, owner string) *core.App {
	t.Helper()
	a := &core.App{ID: id, Name: "app " + id, ClientID: clientID, CreatedBy: owner, CreatedAt: time.Now()}
	if err := s.CreateApp(context.Background(), a); err != nil {
		t.Fatalf("CreateApp(%s): %v", id, err)
	}
	return a
}

func TestEmailUniquenessCaseInsensitive(t *testing.T) {
	s := New()
	seedUser(t, s, "u1", "ana@example.com")

	err := s.CreateUser(context.Background(), &core.User{ID: "u2", Email: "ANA@example.com"})
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("esperaba ErrConflict, vino %v", err)
	}
}

func TestClientIDUniqueness(t *testing.T) {
	s := New()
	seedUser(t, s, "u1", "a@b.c")
	seedApp(t, s, "a1", "client_x", "u1")

	err := s.CreateApp(context.Background(), &core.App{ID: "a2", ClientID: "client_x"})
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("esperaba ErrConflict, vino %v", err)
	}
}

func TestMembershipPairUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "u1", "a@b.c")
	seedApp(t, s, "a1", "client_x", "u1")

	m := &core.AppUser{ID: "m1", UserID: "u1", AppID: "a1", Roles: []string{"viewer"}}
	if err := s.CreateAppUser(ctx, m); err != nil {
		t.Fatalf("CreateAppUser: %v", err)
	}
	dup := &core.AppUser{ID: "m2", UserID: "u1", AppID: "a1"}
	if err := s.CreateAppUser(ctx, dup); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("esperaba ErrConflict, vino %v", err)
	}
}

func TestMembershipRequiresBothEnds(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "u1", "a@b.c")
	seedApp(t, s, "a1", "client_x", "u1")

	// referencia a un usuario inexistente: no se crea la arista huérfana
	err := s.CreateAppUser(ctx, &core.AppUser{ID: "m1", UserID: "fantasma", AppID: "a1"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound por user inexistente, vino %v", err)
	}
	err = s.CreateAppUser(ctx, &core.AppUser{ID: "m2", UserID: "u1", AppID: "no-app"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound por app inexistente, vino %v", err)
	}
	ms, err := s.ListAppUsersByApp(ctx, "a1")
	if err != nil {
		t.Fatalf("ListAppUsersByApp: %v", err)
	}
	if len(ms) != 0 {
		t.Fatalf("quedaron aristas huérfanas: %v", ms)
	}
}

func TestRefreshTokenRequiresUser(t *testing.T) {
	s := New()
	err := s.CreateRefreshToken(context.Background(), &core.RefreshToken{
		ID: "t1", UserID: "fantasma", Token: "tok", ExpiresAt: time.Now().Add(time.Hour),
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound, vino %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "u1", "a@b.c")
	seedApp(t, s, "a1", "client_x", "u1")

	if err := s.CreateAppUser(ctx, &core.AppUser{ID: "m1", UserID: "u1", AppID: "a1"}); err != nil {
		t.Fatalf("CreateAppUser: %v", err)
	}
	if err := s.CreateRefreshToken(ctx, &core.RefreshToken{
		ID: "t1", UserID: "u1", Token: "tok", ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}

	if err := s.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.GetAppUser(ctx, "a1", "u1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("membresía no cascadeó: %v", err)
	}
	if _, err := s.GetRefreshToken(ctx, "tok"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("refresh token no cascadeó: %v", err)
	}
}

func TestDeleteAppCascadesMemberships(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "u1", "a@b.c")
	seedApp(t, s, "a1", "client_x", "u1")

	if err := s.CreateAppUser(ctx, &core.AppUser{ID: "m1", UserID: "u1", AppID: "a1"}); err != nil {
		t.Fatalf("CreateAppUser: %v", err)
	}
	if err := s.DeleteApp(ctx, "a1"); err != nil {
		t.Fatalf("DeleteApp: %v", err)
	}
	ms, err := s.ListAppUsersByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListAppUsersByUser: %v", err)
	}
	if len(ms) != 0 {
		t.Fatalf("membresías huérfanas: %v", ms)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "u1", "a@b.c")

	name := "Nuevo Nombre"
	u, err := s.UpdateUser(ctx, "u1", core.UserUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if u.Name != name || u.Email != "a@b.c" {
		t.Fatalf("update parcial pisó campos: %+v", u)
	}
}

func TestDeleteExpiredRefreshTokens(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "u1", "a@b.c")

	now := time.Now().UTC()
	for _, tk := range []*core.RefreshToken{
		{ID: "t1", UserID: "u1", Token: "viejo", ExpiresAt: now.Add(-time.Hour)},
		{ID: "t2", UserID: "u1", Token: "vivo", ExpiresAt: now.Add(time.Hour)},
	} {
		if err := s.CreateRefreshToken(ctx, tk); err != nil {
			t.Fatalf("CreateRefreshToken: %v", err)
		}
	}

	n, err := s.DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredRefreshTokens: %v", err)
	}
	if n != 1 {
		t.Fatalf("eliminados %d, esperaba 1", n)
	}
	if _, err := s.GetRefreshToken(ctx, "vivo"); err != nil {
		t.Fatalf("el token vivo no debería haberse ido: %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetUserByID(context.Background(), "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound, vino %v", err)
	}
}
