package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/employees/internal/models"
	"github.com/jackc/pgx/v5"
)

// ListEmployees returns every stored employee ordered by id.
func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	defer r.observe("list_employees")()

	query := `SELECT id, name, email, department, phone FROM employees ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	result := make([]models.Employee, 0)
	for rows.Next() {
		var emp models.Employee
		if err = rows.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Department, &emp.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		result = append(result, emp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return result, nil
}

// GetEmployeeByID retrieves an employee from the database by their ID.
func (r *Repository) GetEmployeeByID(ctx context.Context, identifier int64) (models.Employee, error) {
	defer r.observe("get_employee_by_id")()

	var result models.Employee
	query := `SELECT id, name, email, department, phone FROM employees WHERE id=$1`

	err := r.db.QueryRow(ctx, query, identifier).Scan(
		&result.ID, &result.Name, &result.Email, &result.Department, &result.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrEmployeeNotFound
		}
		return models.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return result, nil
}

// CreateEmployee inserts a new employee. The id of the argument is ignored; the database assigns one.
func (r *Repository) CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("create_employee")()

	query := `
		INSERT INTO employees (name, email, department, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`

	created := employee
	err := r.db.QueryRow(ctx, query, employee.Name, employee.Email, employee.Department, employee.Phone).
		Scan(&created.ID)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}

	if r.metrics != nil {
		r.metrics.RecordsChanged.WithLabelValues("create").Inc()
	}

	return created, nil
}

// UpdateEmployee replaces the mutable fields of an employee and returns the stored record.
func (r *Repository) UpdateEmployee(
	ctx context.Context,
	identifier int64,
	employee models.Employee,
) (models.Employee, error) {
	defer r.observe("update_employee")()

	query := `
		UPDATE employees
		SET name = $2, email = $3, department = $4, phone = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, name, email, department, phone;
	`

	var result models.Employee
	err := r.db.QueryRow(ctx, query,
		identifier, employee.Name, employee.Email, employee.Department, employee.Phone).
		Scan(&result.ID, &result.Name, &result.Email, &result.Department, &result.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrEmployeeNotFound
		}
		return models.Employee{}, fmt.Errorf("failed to update employee data: %w", err)
	}

	if r.metrics != nil {
		r.metrics.RecordsChanged.WithLabelValues("update").Inc()
	}

	return result, nil
}

// DeleteEmployee removes an employee by id.
func (r *Repository) DeleteEmployee(ctx context.Context, identifier int64) error {
	defer r.observe("delete_employee")()

	query := `DELETE FROM employees WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, identifier)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}

	if r.metrics != nil {
		r.metrics.RecordsChanged.WithLabelValues("delete").Inc()
	}

	return nil
}
