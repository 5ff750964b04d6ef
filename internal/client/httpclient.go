package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/UnknownOlympus/employees/internal/models"
)

const (
	// LegacyWritePrefix is where the original deployment serves PUT and DELETE.
	LegacyWritePrefix = "/employees"
	// APIPrefix serves every employee route.
	APIPrefix = "/api/employees"

	maxErrorBody = 4 << 10
)

// ErrNotFound matches a *StatusError carrying HTTP 404.
var ErrNotFound = errors.New("not found")

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Is reports whether a 404 StatusError is being compared with ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the employees REST API.
type Client struct {
	baseURL     string
	writePrefix string
	httpClient  *http.Client
	log         *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithWritePrefix selects the path prefix for PUT and DELETE.
func WithWritePrefix(prefix string) Option {
	return func(c *Client) { c.writePrefix = prefix }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New creates a client for baseURL. Writes go to LegacyWritePrefix unless WithWritePrefix says otherwise.
func New(baseURL string, log *slog.Logger, opts ...Option) *Client {
	clientTO := 10
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		writePrefix: LegacyWritePrefix,
		httpClient:  &http.Client{Timeout: time.Duration(clientTO) * time.Second},
		log:         log,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// List returns all employees.
func (c *Client) List(ctx context.Context) ([]models.Employee, error) {
	var result []models.Employee
	if err := c.do(ctx, http.MethodGet, APIPrefix, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Get fetches one employee.
func (c *Client) Get(ctx context.Context, id int64) (models.Employee, error) {
	var result models.Employee
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", APIPrefix, id), nil, &result); err != nil {
		return models.Employee{}, err
	}

	return result, nil
}

// Create stores a new employee and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, employee models.Employee) (models.Employee, error) {
	var result models.Employee
	if err := c.do(ctx, http.MethodPost, APIPrefix, employee.Input(), &result); err != nil {
		return models.Employee{}, err
	}

	return result, nil
}

// Update replaces the mutable fields of employee id.
func (c *Client) Update(ctx context.Context, id int64, employee models.Employee) (models.Employee, error) {
	var result models.Employee
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", c.writePrefix, id), employee.Input(), &result); err != nil {
		return models.Employee{}, err
	}

	return result, nil
}

// Delete removes employee id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", c.writePrefix, id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create new request %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to request %s: %w", target, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "API call", "method", method, "url", target, "status", resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	return nil
}
