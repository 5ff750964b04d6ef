package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/employees/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestID reuses the caller's X-Request-ID or generates one, and echoes it in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		reqID := req.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		writer.Header().Set(requestIDHeader, reqID)
		ctx := context.WithValue(req.Context(), ctxKey{}, reqID)
		next.ServeHTTP(writer, req.WithContext(ctx))
	})
}

// GetRequestID returns the request id stored by RequestID, or an empty string.
func GetRequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(ctxKey{}).(string)
	return reqID
}

// Logger writes one structured record per request.
func Logger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			start := time.Now()
			wrw := middleware.NewWrapResponseWriter(writer, req.ProtoMajor)
			next.ServeHTTP(wrw, req)

			log.InfoContext(req.Context(), "Request completed",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", statusOf(wrw)),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", GetRequestID(req.Context())),
			)
		})
	}
}

// Instrument records request count and latency labelled by the matched chi route pattern.
func Instrument(appMetrics *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			start := time.Now()
			wrw := middleware.NewWrapResponseWriter(writer, req.ProtoMajor)
			next.ServeHTTP(wrw, req)

			route := "unmatched"
			if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			appMetrics.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(statusOf(wrw))).Inc()
			appMetrics.HTTPDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// BodyLimit caps the size of request bodies for methods that carry one.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			if maxBytes > 0 && (req.Method == http.MethodPost || req.Method == http.MethodPut) {
				req.Body = http.MaxBytesReader(writer, req.Body, maxBytes)
			}
			next.ServeHTTP(writer, req)
		})
	}
}

func statusOf(wrw middleware.WrapResponseWriter) int {
	if wrw.Status() == 0 {
		return http.StatusOK
	}
	return wrw.Status()
}
