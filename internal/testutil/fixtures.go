package testutil

import (
	"testing"
	"time"

	"github.com/alexanderramin/taskman/internal/domain"
)

// Epoch is Tuesday 2015-03-03 08:00 UTC, the start of a working day.
var Epoch = time.Date(2015, 3, 3, 8, 0, 0, 0, time.UTC)

// At returns hour:00 on the given day of March 2015.
func At(day, hour int) time.Time {
	return time.Date(2015, 3, day, hour, 0, 0, 0, time.UTC)
}

// Project options
type ProjectOption func(*domain.ProjectSpec)

func WithDueTime(d time.Time) ProjectOption {
	return func(s *domain.ProjectSpec) {
		s.DueTime = d
	}
}

func WithCreationTime(c time.Time) ProjectOption {
	return func(s *domain.ProjectSpec) {
		s.CreationTime = c
	}
}

func WithSequence(seq *domain.Sequence) ProjectOption {
	return func(s *domain.ProjectSpec) {
		s.Sequence = seq
	}
}

// NewProjectSpec returns a spec created at Epoch and due a week later.
func NewProjectSpec(name string, opts ...ProjectOption) domain.ProjectSpec {
	s := domain.ProjectSpec{
		Name:         name,
		Description:  name + " description",
		CreationTime: Epoch,
		DueTime:      Epoch.AddDate(0, 0, 7),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func NewTestProject(t *testing.T, name string, opts ...ProjectOption) *domain.Project {
	t.Helper()
	p, err := domain.NewProject(NewProjectSpec(name, opts...))
	if err != nil {
		t.Fatalf("failed to create project %q: %v", name, err)
	}
	return p
}

// Task options
type TaskOption func(*domain.TaskSpec)

func WithDuration(d time.Duration) TaskOption {
	return func(s *domain.TaskSpec) {
		s.Duration = d
	}
}

func WithDeviation(f float64) TaskOption {
	return func(s *domain.TaskSpec) {
		s.AcceptableDeviation = f
	}
}

func WithDependencies(deps ...*domain.Task) TaskOption {
	return func(s *domain.TaskSpec) {
		s.Dependencies = append(s.Dependencies, deps...)
	}
}

func WithAlternativeFor(original *domain.Task) TaskOption {
	return func(s *domain.TaskSpec) {
		s.AlternativeFor = original
	}
}

func WithRequirement(rt *domain.ResourceType, quantity int) TaskOption {
	return func(s *domain.TaskSpec) {
		s.Requirements = append(s.Requirements, domain.Requirement{Type: rt, Quantity: quantity})
	}
}

// NewTaskSpec returns a one hour task with 10% deviation.
func NewTaskSpec(description string, opts ...TaskOption) domain.TaskSpec {
	s := domain.TaskSpec{
		Description:         description,
		Duration:            time.Hour,
		AcceptableDeviation: 0.1,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func NewTestTask(t *testing.T, p *domain.Project, description string, opts ...TaskOption) *domain.Task {
	t.Helper()
	task, err := p.CreateTask(NewTaskSpec(description, opts...))
	if err != nil {
		t.Fatalf("failed to create task %q: %v", description, err)
	}
	return task
}
