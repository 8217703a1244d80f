package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dropDatabas3/idocracy/internal/cache"
	"github.com/dropDatabas3/idocracy/internal/store/memory"
)

func newAppService() *AppService {
	return NewAppService(memory.New(), cache.NewMemory(time.Minute))
}

func TestCreateAppCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newAppService()

	app, secret, err := svc.Create(ctx, CreateAppInput{
		Name:         "CRM",
		RedirectURIs: []string{"https://crm.example.com/sso"},
	}, "owner-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(app.ClientID, "client_") {
		t.Fatalf("client_id %q", app.ClientID)
	}
	if secret == "" {
		t.Fatal("Create no devolvió el secret en plaintext")
	}
	if app.ClientSecretHash == secret {
		t.Fatal("en reposo debe vivir el hash, no el plaintext")
	}
	if app.CreatedBy != "owner-1" {
		t.Fatalf("created_by %q", app.CreatedBy)
	}

	// el secret solo se emite en la creación: un Get posterior no lo trae
	got, err := svc.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ClientSecretHash == "" {
		t.Fatal("el hash debe persistirse")
	}
}

func TestVerifyClientCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newAppService()

	app, secret, err := svc.Create(ctx, CreateAppInput{Name: "CRM"}, "owner-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.VerifyClientCredentials(ctx, app.ClientID, secret)
	if err != nil {
		t.Fatalf("VerifyClientCredentials: %v", err)
	}
	if got.ID != app.ID {
		t.Fatalf("app equivocada: %s", got.ID)
	}

	// segunda verificación sale del cache y tiene que seguir validando
	if _, err := svc.VerifyClientCredentials(ctx, app.ClientID, secret); err != nil {
		t.Fatalf("verificación cacheada: %v", err)
	}

	if _, err := svc.VerifyClientCredentials(ctx, app.ClientID, "secreto-equivocado"); !errors.Is(err, ErrInvalidClient) {
		t.Fatalf("esperaba ErrInvalidClient, vino %v", err)
	}
	if _, err := svc.VerifyClientCredentials(ctx, "client_inexistente", secret); !errors.Is(err, ErrInvalidClient) {
		t.Fatalf("esperaba ErrInvalidClient, vino %v", err)
	}
}

func TestDeleteAppInvalidatesClient(t *testing.T) {
	ctx := context.Background()
	svc := newAppService()

	app, secret, err := svc.Create(ctx, CreateAppInput{Name: "CRM"}, "owner-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// calentar el cache
	if _, err := svc.VerifyClientCredentials(ctx, app.ClientID, secret); err != nil {
		t.Fatalf("VerifyClientCredentials: %v", err)
	}

	if err := svc.Delete(ctx, app.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.VerifyClientCredentials(ctx, app.ClientID, secret); !errors.Is(err, ErrInvalidClient) {
		t.Fatalf("app borrada sigue autenticando: %v", err)
	}
}

func TestGetAppNotFound(t *testing.T) {
	svc := newAppService()
	if _, err := svc.GetByID(context.Background(), "nope"); !errors.Is(err, ErrAppNotFound) {
		t.Fatalf("esperaba ErrAppNotFound, vino %v", err)
	}
}
