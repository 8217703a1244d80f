package handlers

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/idocracy/internal/http/helpers"
	"github.com/dropDatabas3/idocracy/internal/store/core"
)

type HealthHandler struct {
	repo    core.Repository
	started time.Time
	version string
}

func NewHealthHandler(repo core.Repository, version string) *HealthHandler {
	return &HealthHandler{repo: repo, started: time.Now().UTC(), version: version}
}

// Healthz responde 200 si el storage contesta el ping, 503 si no.
// Va fuera de /api/v1 para que los probes no dependan del versionado.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.repo.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, code, map[string]any{
		"status":  status,
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
