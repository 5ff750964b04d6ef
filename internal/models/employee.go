package models

import (
	"errors"
	"fmt"
)

// ErrMissingField is returned when a required employee field is absent from the request body.
var ErrMissingField = errors.New("missing required field")

// Employee represents an employee entity.
type Employee struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Phone      int64  `json:"phone"`
}

// EmployeeInput is the body of create and update requests.
// Pointer fields distinguish an absent field from its zero value.
type EmployeeInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	Phone      *int64  `json:"phone"`
}

// Validate checks that every field is present. Empty strings and any phone value are accepted.
func (in EmployeeInput) Validate() error {
	switch {
	case in.Name == nil:
		return fmt.Errorf("%w: name", ErrMissingField)
	case in.Email == nil:
		return fmt.Errorf("%w: email", ErrMissingField)
	case in.Department == nil:
		return fmt.Errorf("%w: department", ErrMissingField)
	case in.Phone == nil:
		return fmt.Errorf("%w: phone", ErrMissingField)
	}

	return nil
}

// Employee converts a validated input into an employee with the given id.
func (in EmployeeInput) Employee(id int64) Employee {
	var emp Employee
	emp.ID = id
	if in.Name != nil {
		emp.Name = *in.Name
	}
	if in.Email != nil {
		emp.Email = *in.Email
	}
	if in.Department != nil {
		emp.Department = *in.Department
	}
	if in.Phone != nil {
		emp.Phone = *in.Phone
	}

	return emp
}

// Input builds a fully populated request body from an employee.
func (e Employee) Input() EmployeeInput {
	return EmployeeInput{
		Name:       &e.Name,
		Email:      &e.Email,
		Department: &e.Department,
		Phone:      &e.Phone,
	}
}
