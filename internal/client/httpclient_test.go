package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/UnknownOlympus/employees/internal/client"
	"github.com/UnknownOlympus/employees/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type recorded struct {
	mu     sync.Mutex
	method string
	path   string
	body   map[string]any
}

func (r *recorded) snapshot() (string, string, map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.method, r.path, r.body
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()

	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		rec.mu.Lock()
		rec.method, rec.path, rec.body = r.Method, r.URL.Path, body
		rec.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

func TestClient_Get(t *testing.T) {
	t.Parallel()

	srv, rec := newServer(t, http.StatusOK,
		`{"id":1,"name":"admin","email":"admin@gmail.com","department":"admin","phone":98989898}`)

	emp, err := client.New(srv.URL, testLogger).Get(context.Background(), 1)

	require.NoError(t, err)
	method, path, _ := rec.snapshot()
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "/api/employees/1", path)
	assert.Equal(t, models.Employee{ID: 1, Name: "admin", Email: "admin@gmail.com", Department: "admin", Phone: 98989898}, emp)
}

func TestClient_NotFoundIsExplicitError(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusNotFound, `{"error":"employee not found"}`)

	_, err := client.New(srv.URL, testLogger).Get(context.Background(), 2)

	require.ErrorIs(t, err, client.ErrNotFound)
	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "employee not found")
}

func TestClient_OtherStatusIsNotNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusInternalServerError, `{"error":"boom"}`)

	err := client.New(srv.URL, testLogger).Delete(context.Background(), 2)

	require.Error(t, err)
	require.NotErrorIs(t, err, client.ErrNotFound)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestClient_CreateSendsFieldsWithoutID(t *testing.T) {
	t.Parallel()

	srv, rec := newServer(t, http.StatusCreated,
		`{"id":9,"name":"admin","email":"admin@gmail.com","department":"admin","phone":98989898}`)

	created, err := client.New(srv.URL+"/", testLogger).Create(context.Background(),
		models.Employee{ID: 100, Name: "admin", Email: "admin@gmail.com", Department: "admin", Phone: 98989898})

	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
	method, path, body := rec.snapshot()
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/employees", path)
	assert.NotContains(t, body, "id")
	assert.Equal(t, "admin@gmail.com", body["email"])
	assert.InDelta(t, 98989898, body["phone"], 0)
}

func TestClient_WritePrefix(t *testing.T) {
	t.Parallel()

	t.Run("legacy by default", func(t *testing.T) {
		t.Parallel()
		srv, rec := newServer(t, http.StatusNoContent, "")

		require.NoError(t, client.New(srv.URL, testLogger).Delete(context.Background(), 2))
		method, path, _ := rec.snapshot()
		assert.Equal(t, http.MethodDelete, method)
		assert.Equal(t, "/employees/2", path)
	})

	t.Run("api prefix", func(t *testing.T) {
		t.Parallel()
		srv, rec := newServer(t, http.StatusOK, `{"id":2,"name":"admin1","email":"e","department":"admin2","phone":1}`)

		updated, err := client.New(srv.URL, testLogger, client.WithWritePrefix(client.APIPrefix)).
			Update(context.Background(), 2, models.Employee{Name: "admin1", Email: "e", Department: "admin2", Phone: 1})

		require.NoError(t, err)
		method, path, _ := rec.snapshot()
		assert.Equal(t, http.MethodPut, method)
		assert.Equal(t, "/api/employees/2", path)
		assert.Equal(t, "admin1", updated.Name)
	})
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusOK, "[]")
	srv.Close()

	_, err := client.New(srv.URL, testLogger, client.WithHTTPClient(&http.Client{})).List(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to request")
}
