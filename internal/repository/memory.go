package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/UnknownOlympus/employees/internal/metrics"
	"github.com/UnknownOlympus/employees/internal/models"
)

// MemoryRepository keeps employees in process memory. Ids grow monotonically and are never reused.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	items   map[int64]models.Employee
	metrics *metrics.Metrics
}

// NewMemoryRepository returns an empty in-memory employee repository. metrics may be nil.
func NewMemoryRepository(metrics *metrics.Metrics) *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]models.Employee), metrics: metrics}
}

// ListEmployees returns every stored employee ordered by id.
func (m *MemoryRepository) ListEmployees(_ context.Context) ([]models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Employee, 0, len(m.items))
	for _, emp := range m.items {
		result = append(result, emp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

// GetEmployeeByID returns ErrEmployeeNotFound when no employee has the given id.
func (m *MemoryRepository) GetEmployeeByID(_ context.Context, identifier int64) (models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.items[identifier]
	if !ok {
		return models.Employee{}, ErrEmployeeNotFound
	}

	return emp, nil
}

// CreateEmployee stores employee under the next id, ignoring any id it carries.
func (m *MemoryRepository) CreateEmployee(_ context.Context, employee models.Employee) (models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	employee.ID = m.nextID
	m.items[employee.ID] = employee
	m.recordChange("create")

	return employee, nil
}

// UpdateEmployee replaces every field of an existing employee.
func (m *MemoryRepository) UpdateEmployee(
	_ context.Context,
	identifier int64,
	employee models.Employee,
) (models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[identifier]; !ok {
		return models.Employee{}, ErrEmployeeNotFound
	}
	employee.ID = identifier
	m.items[identifier] = employee
	m.recordChange("update")

	return employee, nil
}

// DeleteEmployee removes an employee, or returns ErrEmployeeNotFound.
func (m *MemoryRepository) DeleteEmployee(_ context.Context, identifier int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[identifier]; !ok {
		return ErrEmployeeNotFound
	}
	delete(m.items, identifier)
	m.recordChange("delete")

	return nil
}

func (m *MemoryRepository) recordChange(operation string) {
	if m.metrics != nil {
		m.metrics.RecordsChanged.WithLabelValues(operation).Inc()
	}
}
