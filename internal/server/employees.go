package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/employees/internal/lib/logger/sl"
	"github.com/UnknownOlympus/employees/internal/models"
	"github.com/UnknownOlympus/employees/internal/repository"
	"github.com/go-chi/chi/v5"
)

const (
	readPrefix        = "/api/employees"
	legacyWritePrefix = "/employees"
)

// EmployeeHandler maps the employee REST routes onto an EmployeeRepoIface.
type EmployeeHandler struct {
	log  *slog.Logger
	repo repository.EmployeeRepoIface
}

func NewEmployeeHandler(log *slog.Logger, repo repository.EmployeeRepoIface) *EmployeeHandler {
	return &EmployeeHandler{log: log, repo: repo}
}

// RegisterRoutes mounts the handlers. Reads live under /api/employees; writes are served there too and,
// when legacyWrites is set, under /employees as existing clients expect.
func (h *EmployeeHandler) RegisterRoutes(r chi.Router, legacyWrites bool) {
	r.Get(readPrefix, h.handleList)
	r.Post(readPrefix, h.handleCreate)
	r.Get(readPrefix+"/{id}", h.handleGet)
	r.Put(readPrefix+"/{id}", h.handleUpdate)
	r.Delete(readPrefix+"/{id}", h.handleDelete)

	if legacyWrites {
		r.Put(legacyWritePrefix+"/{id}", h.handleUpdate)
		r.Delete(legacyWritePrefix+"/{id}", h.handleDelete)
	}
}

func (h *EmployeeHandler) initLogger(opn string, req *http.Request) *slog.Logger {
	return h.log.With(
		sl.Op(opn),
		slog.String("request_id", GetRequestID(req.Context())),
	)
}

func (h *EmployeeHandler) handleList(writer http.ResponseWriter, req *http.Request) {
	log := h.initLogger("Employee.List", req)

	employees, err := h.repo.ListEmployees(req.Context())
	if err != nil {
		log.ErrorContext(req.Context(), "Failed to list employees", sl.Err(err))
		writeError(writer, req, log, http.StatusInternalServerError, "failed to list employees")
		return
	}
	if employees == nil {
		employees = []models.Employee{}
	}

	writeJSON(writer, req, log, http.StatusOK, employees)
}

func (h *EmployeeHandler) handleGet(writer http.ResponseWriter, req *http.Request) {
	log := h.initLogger("Employee.Get", req)

	id, ok := h.parseID(writer, req, log)
	if !ok {
		return
	}

	employee, err := h.repo.GetEmployeeByID(req.Context(), id)
	if err != nil {
		h.writeRepoError(writer, req, log, err, "failed to get employee")
		return
	}

	writeJSON(writer, req, log, http.StatusOK, employee)
}

func (h *EmployeeHandler) handleCreate(writer http.ResponseWriter, req *http.Request) {
	log := h.initLogger("Employee.Create", req)

	input, ok := h.decodeInput(writer, req, log)
	if !ok {
		return
	}

	created, err := h.repo.CreateEmployee(req.Context(), input.Employee(0))
	if err != nil {
		log.ErrorContext(req.Context(), "Failed to create employee", sl.Err(err))
		writeError(writer, req, log, http.StatusInternalServerError, "failed to create employee")
		return
	}

	log.DebugContext(req.Context(), "Employee created", slog.Int64("id", created.ID))
	writer.Header().Set("Location", fmt.Sprintf("%s/%d", readPrefix, created.ID))
	writeJSON(writer, req, log, http.StatusCreated, created)
}

func (h *EmployeeHandler) handleUpdate(writer http.ResponseWriter, req *http.Request) {
	log := h.initLogger("Employee.Update", req)

	id, ok := h.parseID(writer, req, log)
	if !ok {
		return
	}
	input, ok := h.decodeInput(writer, req, log)
	if !ok {
		return
	}

	updated, err := h.repo.UpdateEmployee(req.Context(), id, input.Employee(id))
	if err != nil {
		h.writeRepoError(writer, req, log, err, "failed to update employee")
		return
	}

	log.DebugContext(req.Context(), "Employee updated", slog.Int64("id", id))
	writeJSON(writer, req, log, http.StatusOK, updated)
}

func (h *EmployeeHandler) handleDelete(writer http.ResponseWriter, req *http.Request) {
	log := h.initLogger("Employee.Delete", req)

	id, ok := h.parseID(writer, req, log)
	if !ok {
		return
	}

	if err := h.repo.DeleteEmployee(req.Context(), id); err != nil {
		h.writeRepoError(writer, req, log, err, "failed to delete employee")
		return
	}

	log.DebugContext(req.Context(), "Employee deleted", slog.Int64("id", id))
	writer.WriteHeader(http.StatusNoContent)
}

// parseID reads the {id} path parameter, which must be a positive integer.
func (h *EmployeeHandler) parseID(writer http.ResponseWriter, req *http.Request, log *slog.Logger) (int64, bool) {
	raw := chi.URLParam(req, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		log.DebugContext(req.Context(), "Rejected employee id", slog.String("id", raw))
		writeError(writer, req, log, http.StatusBadRequest, "employee id must be a positive integer")
		return 0, false
	}

	return id, true
}

func (h *EmployeeHandler) decodeInput(
	writer http.ResponseWriter,
	req *http.Request,
	log *slog.Logger,
) (models.EmployeeInput, bool) {
	var input models.EmployeeInput
	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&input); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(writer, req, log, http.StatusRequestEntityTooLarge, "request body too large")
			return input, false
		}
		writeError(writer, req, log, http.StatusBadRequest, "invalid request payload")
		return input, false
	}
	// exactly one JSON value per body
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		writeError(writer, req, log, http.StatusBadRequest, "invalid request payload")
		return input, false
	}

	if err := input.Validate(); err != nil {
		writeError(writer, req, log, http.StatusBadRequest, err.Error())
		return input, false
	}

	return input, true
}

// writeRepoError maps ErrEmployeeNotFound to 404 and everything else to 500.
func (h *EmployeeHandler) writeRepoError(
	writer http.ResponseWriter,
	req *http.Request,
	log *slog.Logger,
	err error,
	message string,
) {
	if errors.Is(err, repository.ErrEmployeeNotFound) {
		writeError(writer, req, log, http.StatusNotFound, repository.ErrEmployeeNotFound.Error())
		return
	}

	log.ErrorContext(req.Context(), message, sl.Err(err))
	writeError(writer, req, log, http.StatusInternalServerError, message)
}
