package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/employees/internal/lib/logger/sl"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(writer http.ResponseWriter, req *http.Request, log *slog.Logger, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		log.WarnContext(req.Context(), "Failed to write response", sl.Err(err))
	}
}

func writeError(writer http.ResponseWriter, req *http.Request, log *slog.Logger, status int, message string) {
	writeJSON(writer, req, log, status, errorResponse{Error: message, RequestID: GetRequestID(req.Context())})
}
