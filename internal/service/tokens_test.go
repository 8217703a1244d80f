package service

import (
	"context"
	"errors"
	"testing"
	"time"

	jwtx "github.com/dropDatabas3/idocracy/internal/jwt"
	"github.com/dropDatabas3/idocracy/internal/store/core"
	"github.com/dropDatabas3/idocracy/internal/store/memory"
)

func testIssuer() *jwtx.Issuer {
	return jwtx.New("secreto-de-test-para-tokens", "HS256", 30*time.Minute)
}

func seedTokenUser(t *testing.T, repo core.Repository) *core.User {
	t.Helper()
	u := &core.User{
		ID: "u1", Email: "a@b.c", Name: "A",
		Roles: []string{"user"}, CreatedAt: time.Now(),
	}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestIssuePair(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	u := seedTokenUser(t, repo)
	svc := NewTokenService(repo, testIssuer(), 7*24*time.Hour)

	pair, err := svc.IssuePair(ctx, u, "login")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.TokenType != "bearer" {
		t.Fatalf("token_type %q", pair.TokenType)
	}
	if len(pair.RefreshToken) != 64 {
		t.Fatalf("refresh de %d chars", len(pair.RefreshToken))
	}
	if pair.ExpiresIn <= 0 {
		t.Fatalf("expires_in %d", pair.ExpiresIn)
	}

	claims, err := svc.Issuer().Verify(pair.AccessToken)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != u.ID {
		t.Fatalf("sub %q", claims.Subject)
	}

	// el refresh quedó persistido
	if _, err := repo.GetRefreshToken(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("refresh no persistido: %v", err)
	}
}

func TestRefreshSingleUse(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	u := seedTokenUser(t, repo)
	svc := NewTokenService(repo, testIssuer(), 7*24*time.Hour)

	pair, err := svc.IssuePair(ctx, u, "login")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("el refresh no rotó")
	}

	// segundo uso del token viejo: rechazado
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("esperaba ErrInvalidRefresh, vino %v", err)
	}
	// el nuevo sigue siendo usable
	if _, err := svc.Refresh(ctx, next.RefreshToken); err != nil {
		t.Fatalf("el refresh nuevo debería andar: %v", err)
	}
}

func TestRefreshExpired(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedTokenUser(t, repo)
	svc := NewTokenService(repo, testIssuer(), 7*24*time.Hour)

	if err := repo.CreateRefreshToken(ctx, &core.RefreshToken{
		ID: "t1", UserID: "u1", Token: "vencido", ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}); err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}

	if _, err := svc.Refresh(ctx, "vencido"); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("esperaba ErrInvalidRefresh, vino %v", err)
	}
	// lazy delete: ya no está en el store
	if _, err := repo.GetRefreshToken(ctx, "vencido"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("el token vencido debería haberse borrado: %v", err)
	}
}

func TestRefreshUnknown(t *testing.T) {
	svc := NewTokenService(memory.New(), testIssuer(), time.Hour)
	if _, err := svc.Refresh(context.Background(), "inexistente"); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("esperaba ErrInvalidRefresh, vino %v", err)
	}
}

func TestRevokeAll(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	u := seedTokenUser(t, repo)
	svc := NewTokenService(repo, testIssuer(), time.Hour)

	p1, _ := svc.IssuePair(ctx, u, "login")
	p2, _ := svc.IssuePair(ctx, u, "login")

	if err := svc.RevokeAll(ctx, u.ID); err != nil {
		t.Fatalf("RevokeAll: %v", err)
	}
	for _, raw := range []string{p1.RefreshToken, p2.RefreshToken} {
		if _, err := svc.Refresh(ctx, raw); !errors.Is(err, ErrInvalidRefresh) {
			t.Fatalf("refresh sobrevivió al revoke: %v", err)
		}
	}
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedTokenUser(t, repo)
	svc := NewTokenService(repo, testIssuer(), time.Hour)

	now := time.Now().UTC()
	_ = repo.CreateRefreshToken(ctx, &core.RefreshToken{ID: "t1", UserID: "u1", Token: "a", ExpiresAt: now.Add(-time.Hour)})
	_ = repo.CreateRefreshToken(ctx, &core.RefreshToken{ID: "t2", UserID: "u1", Token: "b", ExpiresAt: now.Add(-time.Minute)})
	_ = repo.CreateRefreshToken(ctx, &core.RefreshToken{ID: "t3", UserID: "u1", Token: "c", ExpiresAt: now.Add(time.Hour)})

	n, err := svc.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 2 {
		t.Fatalf("barridos %d, esperaba 2", n)
	}
}
