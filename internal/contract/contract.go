// Package contract drives a running employees API through its HTTP surface and checks the
// observable behaviour of every route: list, create, get, update, delete and the 404 boundary.
package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/employees/internal/client"
	"github.com/UnknownOlympus/employees/internal/lib/logger/sl"
	"github.com/UnknownOlympus/employees/internal/models"
	"github.com/tamathecxder/randomail"
)

// ErrSkipped marks a step that could not run because an earlier step failed.
var ErrSkipped = errors.New("skipped: prerequisite step failed")

// API is the client surface the suite needs. *client.Client implements it.
type API interface {
	List(ctx context.Context) ([]models.Employee, error)
	Get(ctx context.Context, id int64) (models.Employee, error)
	Create(ctx context.Context, employee models.Employee) (models.Employee, error)
	Update(ctx context.Context, id int64, employee models.Employee) (models.Employee, error)
	Delete(ctx context.Context, id int64) error
}

// StepResult is the outcome of one check.
type StepResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the step succeeded.
func (r StepResult) Passed() bool { return r.Err == nil }

// Report collects the step results of one run.
type Report struct {
	Steps     []StepResult
	CreatedID int64 // id of the record created by the create step
	TargetID  int64 // id of the record updated and then deleted
}

// Failed reports whether any step failed.
func (r Report) Failed() bool {
	for _, step := range r.Steps {
		if !step.Passed() {
			return true
		}
	}
	return false
}

// Suite runs the checks in a fixed order against one API.
type Suite struct {
	api API
	log *slog.Logger

	report Report
}

func NewSuite(api API, log *slog.Logger) *Suite {
	return &Suite{api: api, log: log}
}

// Run executes every step and returns the report. Steps after a failed prerequisite are skipped.
func (s *Suite) Run(ctx context.Context) Report {
	s.report = Report{}

	steps := []struct {
		name string
		fn   func(context.Context) error
		need func() bool
	}{
		{name: "list", fn: s.checkList},
		{name: "create", fn: s.checkCreate},
		{name: "get", fn: s.checkGet, need: func() bool { return s.report.CreatedID > 0 }},
		{name: "update", fn: s.checkUpdate},
		{name: "delete", fn: s.checkDelete, need: func() bool { return s.report.TargetID > 0 }},
		{name: "missing", fn: s.checkMissing, need: func() bool { return s.report.TargetID > 0 }},
	}

	for _, step := range steps {
		log := s.log.With(slog.String("step", step.name))
		start := time.Now()

		var err error
		if step.need != nil && !step.need() {
			err = ErrSkipped
		} else {
			err = step.fn(ctx)
		}

		result := StepResult{Name: step.name, Err: err, Duration: time.Since(start)}
		s.report.Steps = append(s.report.Steps, result)

		if err != nil {
			log.ErrorContext(ctx, "Contract step failed", sl.Err(err))
			continue
		}
		log.InfoContext(ctx, "Contract step passed", slog.Duration("duration", result.Duration))
	}

	return s.report
}

func (s *Suite) checkList(ctx context.Context) error {
	employees, err := s.api.List(ctx)
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}
	if employees == nil {
		return errors.New("list employees: body is null")
	}

	return nil
}

func (s *Suite) checkCreate(ctx context.Context) error {
	want := models.Employee{Name: "admin", Email: "admin@gmail.com", Department: "admin", Phone: 98989898}

	created, err := s.api.Create(ctx, want)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	if created.ID <= 0 {
		return fmt.Errorf("create employee: server assigned no id, got %d", created.ID)
	}
	if err = sameFields(want, created); err != nil {
		return fmt.Errorf("create response: %w", err)
	}
	s.report.CreatedID = created.ID

	stored, err := s.api.Get(ctx, created.ID)
	if err != nil {
		return fmt.Errorf("get created employee %d: %w", created.ID, err)
	}

	return sameFields(want, stored)
}

func (s *Suite) checkGet(ctx context.Context) error {
	employee, err := s.api.Get(ctx, s.report.CreatedID)
	if err != nil {
		return fmt.Errorf("get employee %d: %w", s.report.CreatedID, err)
	}
	if employee.ID != s.report.CreatedID {
		return fmt.Errorf("get employee %d: response carries id %d", s.report.CreatedID, employee.ID)
	}

	return nil
}

func (s *Suite) checkUpdate(ctx context.Context) error {
	target, err := s.api.Create(ctx, models.Employee{
		Name:       "contract",
		Email:      randomail.GenerateRandomEmail(),
		Department: "contract",
		Phone:      12345678,
	})
	if err != nil {
		return fmt.Errorf("create update target: %w", err)
	}
	s.report.TargetID = target.ID

	employee, err := s.api.Get(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("get employee %d: %w", target.ID, err)
	}
	employee.Name = "admin1"
	employee.Department = "admin2"

	if _, err = s.api.Update(ctx, target.ID, employee); err != nil {
		return fmt.Errorf("update employee %d: %w", target.ID, err)
	}

	updated, err := s.api.Get(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("refetch employee %d: %w", target.ID, err)
	}
	if updated.ID != target.ID {
		return fmt.Errorf("update changed id from %d to %d", target.ID, updated.ID)
	}

	return sameFields(employee, updated)
}

func (s *Suite) checkDelete(ctx context.Context) error {
	id := s.report.TargetID
	if _, err := s.api.Get(ctx, id); err != nil {
		return fmt.Errorf("get employee %d before delete: %w", id, err)
	}
	if err := s.api.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}

	_, err := s.api.Get(ctx, id)
	if !errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("get deleted employee %d: want 404, got %w", id, errOrNil(err))
	}

	return nil
}

func (s *Suite) checkMissing(ctx context.Context) error {
	id := s.report.TargetID
	if _, err := s.api.Get(ctx, id); !errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("get missing employee %d: want 404, got %w", id, errOrNil(err))
	}
	if err := s.api.Delete(ctx, id); !errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("delete missing employee %d: want 404, got %w", id, errOrNil(err))
	}

	return nil
}

func sameFields(want, got models.Employee) error {
	if want.Name != got.Name || want.Email != got.Email ||
		want.Department != got.Department || want.Phone != got.Phone {
		return fmt.Errorf("fields mismatch: want %+v, got %+v", want, got)
	}
	return nil
}

var errNoError = errors.New("no error")

func errOrNil(err error) error {
	if err == nil {
		return errNoError
	}
	return err
}
