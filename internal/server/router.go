package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/employees/internal/metrics"
	"github.com/UnknownOlympus/employees/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the collaborators and limits of the HTTP surface.
type RouterOptions struct {
	Metrics           *metrics.Metrics
	Gatherer          prometheus.Gatherer // served on /metrics when set
	DB                DBPinger            // nil with the in-memory store
	RequestTimeout    time.Duration
	MaxBodyBytes      int64
	LegacyWriteRoutes bool
}

// NewRouter wires middleware, the employee routes and the operational endpoints.
func NewRouter(log *slog.Logger, repo repository.EmployeeRepoIface, opts RouterOptions) http.Handler {
	router := chi.NewRouter()

	router.Use(RequestID)
	router.Use(Logger(log))
	if opts.Metrics != nil {
		router.Use(Instrument(opts.Metrics))
	}
	// inside Logger and Instrument so recovered panics are logged and counted as 500
	router.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		router.Use(middleware.Timeout(opts.RequestTimeout))
	}
	router.Use(BodyLimit(opts.MaxBodyBytes))

	router.Method(http.MethodGet, "/healthz", NewHealthChecker(opts.DB, log))
	if opts.Gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	NewEmployeeHandler(log, repo).RegisterRoutes(router, opts.LegacyWriteRoutes)

	router.NotFound(func(writer http.ResponseWriter, req *http.Request) {
		writeError(writer, req, log, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, req *http.Request) {
		writeError(writer, req, log, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}
