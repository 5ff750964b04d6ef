package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/employees/internal/models"
	"github.com/UnknownOlympus/employees/internal/repository"
	"github.com/UnknownOlympus/employees/internal/server"
	mocks "github.com/UnknownOlympus/employees/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminBody = `{"name":"admin","email":"admin@gmail.com","department":"admin","phone":98989898}`

var admin = models.Employee{ID: 1, Name: "admin", Email: "admin@gmail.com", Department: "admin", Phone: 98989898}

func newTestRouter(t *testing.T, legacy bool) (http.Handler, *mocks.EmployeeRepoIface) {
	t.Helper()

	repo := mocks.NewEmployeeRepoIface(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := server.NewRouter(logger, repo, server.RouterOptions{
		RequestTimeout:    time.Second,
		MaxBodyBytes:      1 << 10,
		LegacyWriteRoutes: legacy,
	})

	return router, repo
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

func TestListEmployees(t *testing.T) {
	t.Parallel()

	t.Run("returns every employee", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		repo.On("ListEmployees", mock.Anything).Return([]models.Employee{admin}, nil).Once()

		rr := serve(router, http.MethodGet, "/api/employees", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		require.JSONEq(t, `[`+`{"id":1,"name":"admin","email":"admin@gmail.com","department":"admin","phone":98989898}`+`]`,
			rr.Body.String())
	})

	t.Run("empty store yields empty array", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		repo.On("ListEmployees", mock.Anything).Return(nil, nil).Once()

		rr := serve(router, http.MethodGet, "/api/employees", "")

		require.Equal(t, http.StatusOK, rr.Code)
		require.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		repo.On("ListEmployees", mock.Anything).Return(nil, assert.AnError).Once()

		rr := serve(router, http.MethodGet, "/api/employees", "")

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "failed to list employees")
	})
}

func TestGetEmployee(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		repo.On("GetEmployeeByID", mock.Anything, int64(1)).Return(admin, nil).Once()

		rr := serve(router, http.MethodGet, "/api/employees/1", "")

		require.Equal(t, http.StatusOK, rr.Code)
		var got models.Employee
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, admin, got)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		repo.On("GetEmployeeByID", mock.Anything, int64(2)).
			Return(models.Employee{}, repository.ErrEmployeeNotFound).Once()

		rr := serve(router, http.MethodGet, "/api/employees/2", "")

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "employee not found")
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		repo.On("GetEmployeeByID", mock.Anything, int64(2)).Return(models.Employee{}, assert.AnError).Once()

		rr := serve(router, http.MethodGet, "/api/employees/2", "")

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	for _, badID := range []string{"abc", "0", "-3", "1.5"} {
		t.Run("invalid id "+badID, func(t *testing.T) {
			t.Parallel()
			router, repo := newTestRouter(t, true)

			rr := serve(router, http.MethodGet, "/api/employees/"+badID, "")

			require.Equal(t, http.StatusBadRequest, rr.Code)
			repo.AssertNotCalled(t, "GetEmployeeByID", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateEmployee(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		input := admin
		input.ID = 0
		repo.On("CreateEmployee", mock.Anything, input).Return(admin, nil).Once()

		rr := serve(router, http.MethodPost, "/api/employees", adminBody)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "/api/employees/1", rr.Header().Get("Location"))
		var got models.Employee
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, admin, got)
	})

	t.Run("client supplied id is ignored", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		input := admin
		input.ID = 0
		repo.On("CreateEmployee", mock.Anything, input).Return(admin, nil).Once()

		rr := serve(router, http.MethodPost, "/api/employees",
			`{"id":500,"name":"admin","email":"admin@gmail.com","department":"admin","phone":98989898}`)

		require.Equal(t, http.StatusCreated, rr.Code)
	})

	badBodies := map[string]string{
		"malformed json":  `{"name":`,
		"missing phone":   `{"name":"admin","email":"admin@gmail.com","department":"admin"}`,
		"missing name":    `{"email":"admin@gmail.com","department":"admin","phone":1}`,
		"phone as string": `{"name":"a","email":"b","department":"c","phone":"98989898"}`,
		"trailing garbage": adminBody + ` this is not json`,
		"two objects":     adminBody + adminBody,
	}
	for name, body := range badBodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			router, repo := newTestRouter(t, true)

			rr := serve(router, http.MethodPost, "/api/employees", body)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			repo.AssertNotCalled(t, "CreateEmployee", mock.Anything, mock.Anything)
		})
	}

	t.Run("body too large", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, true)
		body := `{"name":"` + strings.Repeat("x", 2048) + `","email":"a","department":"b","phone":1}`

		rr := serve(router, http.MethodPost, "/api/employees", body)

		require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		repo.On("CreateEmployee", mock.Anything, mock.Anything).Return(models.Employee{}, assert.AnError).Once()

		rr := serve(router, http.MethodPost, "/api/employees", adminBody)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestUpdateEmployee(t *testing.T) {
	t.Parallel()

	body := `{"id":2,"name":"admin1","email":"admin@gmail.com","department":"admin2","phone":98989898}`
	change := models.Employee{ID: 2, Name: "admin1", Email: "admin@gmail.com", Department: "admin2", Phone: 98989898}

	for _, path := range []string{"/employees/2", "/api/employees/2"} {
		t.Run("updated via "+path, func(t *testing.T) {
			t.Parallel()
			router, repo := newTestRouter(t, true)
			repo.On("UpdateEmployee", mock.Anything, int64(2), change).Return(change, nil).Once()

			rr := serve(router, http.MethodPut, path, body)

			require.Equal(t, http.StatusOK, rr.Code)
			var got models.Employee
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, change, got)
		})
	}

	t.Run("path id wins over body id", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		moved := change
		moved.ID = 3
		repo.On("UpdateEmployee", mock.Anything, int64(3), moved).Return(moved, nil).Once()

		rr := serve(router, http.MethodPut, "/employees/3", body)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		repo.On("UpdateEmployee", mock.Anything, int64(2), change).
			Return(models.Employee{}, repository.ErrEmployeeNotFound).Once()

		rr := serve(router, http.MethodPut, "/employees/2", body)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing field", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)

		rr := serve(router, http.MethodPut, "/employees/2", `{"name":"admin1"}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "missing required field")
		repo.AssertNotCalled(t, "UpdateEmployee", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("legacy routes disabled", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, false)

		rr := serve(router, http.MethodPut, "/employees/2", body)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeleteEmployee(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/employees/2", "/api/employees/2"} {
		t.Run("deleted via "+path, func(t *testing.T) {
			t.Parallel()
			router, repo := newTestRouter(t, true)
			repo.On("DeleteEmployee", mock.Anything, int64(2)).Return(nil).Once()

			rr := serve(router, http.MethodDelete, path, "")

			require.Equal(t, http.StatusNoContent, rr.Code)
			assert.Empty(t, rr.Body.String())
		})
	}

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		repo.On("DeleteEmployee", mock.Anything, int64(2)).Return(repository.ErrEmployeeNotFound).Once()

		rr := serve(router, http.MethodDelete, "/employees/2", "")

		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		router, repo := newTestRouter(t, true)
		repo.On("DeleteEmployee", mock.Anything, int64(2)).Return(assert.AnError).Once()

		rr := serve(router, http.MethodDelete, "/employees/2", "")

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, true)

	rr := serve(router, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "route not found")

	rr = serve(router, http.MethodPatch, "/api/employees/1", "")
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
