// Package cache provee un cache chico multi-backend (memory | redis).
// Se usa para el hot path de lookup de apps por client_id; el store
// persistente sigue siendo la única fuente de verdad.
package cache

import "time"

type Cache interface {
	Get(k string) ([]byte, bool)
	Set(k string, v []byte, ttl time.Duration)
	Delete(k string)
}

// Config para construir un backend.
type Config struct {
	Kind       string // "memory" | "redis"
	RedisAddr  string
	RedisDB    int
	Prefix     string
	DefaultTTL time.Duration
}

// New construye el backend según Kind. Desconocido o vacío ⇒ memory.
func New(cfg Config) Cache {
	switch cfg.Kind {
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisDB, cfg.Prefix)
	default:
		return NewMemory(cfg.DefaultTTL)
	}
}
