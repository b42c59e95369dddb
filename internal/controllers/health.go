package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db  Pinger
	log *slog.Logger
}

func NewHealthController(db Pinger, log *slog.Logger) *HealthController {
	return &HealthController{db: db, log: log}
}

// Health answers 200 while the database is reachable and 503 otherwise.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.health.Health"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(ctx); err != nil {
		c.log.Warn("database unreachable", slog.String("operation", op), slog.String("error", err.Error()))
		writeJSON(w, c.log, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, c.log, http.StatusOK, map[string]string{"status": "ok"})
}
