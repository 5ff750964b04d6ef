package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports whether the service can reach its database.
type HealthChecker struct {
	db      DBPinger
	timeout time.Duration
	log     *slog.Logger
}

// NewHealthChecker returns a checker for db. A nil db means the in-memory store is in use.
func NewHealthChecker(db DBPinger, log *slog.Logger) *HealthChecker {
	pingTO := 2
	return &HealthChecker{
		db:      db,
		timeout: time.Duration(pingTO) * time.Second,
		log:     log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	switch {
	case h.db == nil:
		status["database"] = "memory"
	default:
		ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			status["database"] = "unavailable"
			overallStatus = http.StatusServiceUnavailable
			h.log.WarnContext(req.Context(), "Health check failed: DB ping", "error", err)
		} else {
			status["database"] = "ok"
		}
	}

	writeJSON(writer, req, h.log, overallStatus, status)

	h.log.DebugContext(req.Context(), "Health checks completed", "status", overallStatus)
}
