package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskman/internal/company"
	"github.com/alexanderramin/taskman/internal/config"
	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/timespan"
)

// ErrInvalidScenario wraps the joined ValidateScenario errors.
var ErrInvalidScenario = errors.New("invalid scenario")

// Load reads, validates and applies a scenario file.
func Load(ctx context.Context, path string, cfg config.Config, observers ...company.UseCaseObserver) (*company.Company, error) {
	s, err := LoadScenario(path)
	if err != nil {
		return nil, err
	}
	c, err := Apply(ctx, s, cfg, observers...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Apply validates the scenario and builds a company from it. Validation
// problems are all reported together under ErrInvalidScenario; after that
// the first domain rule the scenario breaks stops the build.
func Apply(ctx context.Context, s *Scenario, cfg config.Config, observers ...company.UseCaseObserver) (*company.Company, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no scenario", ErrInvalidScenario)
	}
	if errs := ValidateScenario(s); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
	}

	// Every index and timestamp below has been checked.
	now, err := timespan.Parse(s.SystemTime)
	if err != nil {
		return nil, fmt.Errorf("systemTime: %w", err)
	}
	c := company.New(cfg, now, observers...)

	windows := make([]timespan.Window, 0, len(s.DailyAvailability))
	for i, w := range s.DailyAvailability {
		window, err := timespan.ParseWindow(w.StartTime, w.EndTime)
		if err != nil {
			return nil, fmt.Errorf("dailyAvailability[%d]: %w", i, err)
		}
		windows = append(windows, window)
	}

	types := make([]*domain.ResourceType, 0, len(s.ResourceTypes))
	for i, rt := range s.ResourceTypes {
		spec := domain.ResourceTypeSpec{Name: rt.Name}
		for _, ref := range rt.Requires {
			spec.Requires = append(spec.Requires, types[ref])
		}
		for _, ref := range rt.ConflictsWith {
			spec.ConflictsWith = append(spec.ConflictsWith, types[ref])
		}
		if rt.DailyAvailability != nil {
			spec.Availability = windows[*rt.DailyAvailability]
		}
		created, err := c.CreateResourceType(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("resourceTypes[%d]: %w", i, err)
		}
		types = append(types, created)
	}

	resources := make([]*domain.Resource, 0, len(s.Resources))
	for i, r := range s.Resources {
		created, err := c.CreateResource(ctx, types[r.Type], r.Name)
		if err != nil {
			return nil, fmt.Errorf("resources[%d]: %w", i, err)
		}
		resources = append(resources, created)
	}

	devs := make([]*domain.Developer, 0, len(s.Developers))
	for i, d := range s.Developers {
		created, err := c.CreateDeveloper(ctx, d.Name)
		if err != nil {
			return nil, fmt.Errorf("developers[%d]: %w", i, err)
		}
		devs = append(devs, created)
	}

	projects := make([]*domain.Project, 0, len(s.Projects))
	for i, p := range s.Projects {
		created, _ := timespan.Parse(p.CreationTime)
		due, _ := timespan.Parse(p.DueTime)
		project, err := c.CreateProject(ctx, domain.ProjectSpec{
			Name:         p.Name,
			Description:  p.Description,
			CreationTime: created,
			DueTime:      due,
		})
		if err != nil {
			return nil, fmt.Errorf("projects[%d]: %w", i, err)
		}
		projects = append(projects, project)
	}

	tasks := make([]*domain.Task, 0, len(s.Tasks))
	for i, t := range s.Tasks {
		task, err := applyTask(ctx, c, t, projects[t.Project], tasks, types)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		tasks = append(tasks, task)
	}

	for i, p := range s.Plannings {
		start, _ := timespan.Parse(p.PlannedStartTime)
		req := company.PlanRequest{Task: tasks[p.Task], Start: start}
		for _, ref := range p.Developers {
			req.Developers = append(req.Developers, devs[ref])
		}
		for _, ref := range p.Resources {
			req.Resources = append(req.Resources, resources[ref])
		}
		if _, err := c.Plan(ctx, req); err != nil {
			return nil, fmt.Errorf("plannings[%d]: %w", i, err)
		}
	}

	return c, nil
}

func applyTask(ctx context.Context, c *company.Company, t TaskImport, project *domain.Project, earlier []*domain.Task, types []*domain.ResourceType) (*domain.Task, error) {
	spec := domain.TaskSpec{
		Description:         t.Description,
		Duration:            time.Duration(t.EstimatedDuration) * time.Minute,
		AcceptableDeviation: float64(t.AcceptableDeviation) / 100,
	}
	for _, ref := range t.PrerequisiteTasks {
		spec.Dependencies = append(spec.Dependencies, earlier[ref])
	}
	if t.AlternativeFor != nil {
		spec.AlternativeFor = earlier[*t.AlternativeFor]
	}
	for _, req := range t.RequiredResourceTypes {
		spec.Requirements = append(spec.Requirements, domain.Requirement{Type: types[req.Type], Quantity: req.Quantity})
	}

	task, err := c.CreateTask(ctx, project, spec)
	if err != nil {
		return nil, err
	}
	if t.Status == "" {
		return task, nil
	}
	start, _ := timespan.Parse(t.StartTime)
	end, _ := timespan.Parse(t.EndTime)
	if err := c.RecordOutcome(ctx, task, start, end, t.Status == "failed"); err != nil {
		return nil, err
	}
	return task, nil
}
