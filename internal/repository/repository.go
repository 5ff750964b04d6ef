package repository

import (
	"context"
	"errors"
	"time"

	"github.com/UnknownOlympus/employees/internal/metrics"
	"github.com/UnknownOlympus/employees/internal/models"
)

// ErrEmployeeNotFound is returned when no employee with the requested id exists.
var ErrEmployeeNotFound = errors.New("employee not found")

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
type EmployeeRepoIface interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployeeByID(ctx context.Context, identifier int64) (models.Employee, error)
	CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	UpdateEmployee(ctx context.Context, identifier int64, employee models.Employee) (models.Employee, error)
	DeleteEmployee(ctx context.Context, identifier int64) error
}

// Repository is the PostgreSQL implementation of EmployeeRepoIface.
type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// NewEmployeeRepository returns a PostgreSQL backed employee repository.
func NewEmployeeRepository(db Database, metrics *metrics.Metrics) EmployeeRepoIface {
	return &Repository{db: db, metrics: metrics}
}

// observe starts a timer for queryType and returns the func that records it.
func (r *Repository) observe(queryType string) func() {
	startTime := time.Now()

	return func() {
		if r.metrics == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(duration)
	}
}
