package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "clave-de-test")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("addr %q", c.Server.Addr)
	}
	if c.Storage.Driver != "memory" {
		t.Fatalf("driver %q", c.Storage.Driver)
	}
	if c.JWT.Algorithm != "HS256" {
		t.Fatalf("alg %q", c.JWT.Algorithm)
	}
	if c.AccessTTL() != 30*time.Minute {
		t.Fatalf("access ttl %v", c.AccessTTL())
	}
	if c.RefreshTTL() != 7*24*time.Hour {
		t.Fatalf("refresh ttl %v", c.RefreshTTL())
	}
	if c.SSOTTL() != 5*time.Minute {
		t.Fatalf("sso ttl %v", c.SSOTTL())
	}
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := Load(""); err == nil {
		t.Fatal("Load aceptó config sin secret")
	}
}

func TestPostgresRequiresDSN(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "clave")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "")
	if _, err := Load(""); err == nil {
		t.Fatal("Load aceptó postgres sin DSN")
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  env: prod
server:
  addr: ":9000"
jwt:
  secret_key: del-yaml
  access_ttl_minutes: 15
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("SERVER_ADDR", ":7777")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.App.Env != "prod" {
		t.Fatalf("env %q", c.App.Env)
	}
	// env pisa yaml
	if c.Server.Addr != ":7777" {
		t.Fatalf("addr %q", c.Server.Addr)
	}
	if c.JWT.AccessTTLMinutes != 45 {
		t.Fatalf("access ttl %d", c.JWT.AccessTTLMinutes)
	}
	if c.JWT.SecretKey != "del-yaml" {
		t.Fatalf("secret %q", c.JWT.SecretKey)
	}
}
