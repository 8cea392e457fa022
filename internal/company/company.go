// Package company wires the task engine, resource graph, planner, registries
// and clock behind one serialised entry point.
package company

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/taskman/internal/clock"
	"github.com/alexanderramin/taskman/internal/config"
	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/planner"
	"github.com/alexanderramin/taskman/internal/registry"
	"github.com/alexanderramin/taskman/internal/snapshot"
	"github.com/alexanderramin/taskman/internal/timespan"
)

// Company is safe for concurrent use; every call holds one mutex.
type Company struct {
	mu sync.Mutex

	cfg        config.Config
	clock      *clock.Clock
	projects   *registry.Projects
	developers *registry.Developers
	resources  *domain.ResourceGraph
	planner    *planner.Planner
	snapshots  *snapshot.Coordinator
	observer   UseCaseObserver
}

// New creates an empty company whose clock starts at start.
func New(cfg config.Config, start time.Time, observers ...UseCaseObserver) *Company {
	c := &Company{
		cfg:        cfg,
		clock:      clock.New(start),
		projects:   registry.NewProjects(),
		developers: registry.NewDevelopers(),
		resources:  domain.NewResourceGraph(),
		planner:    planner.New(cfg.PlannerOptions()),
		observer:   combineObservers(observers),
	}
	c.snapshots = snapshot.NewCoordinator(c.projects, c.developers, c.planner, c.resources, c.clock)
	return c
}

func (c *Company) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock.Now()
}

// CreateProject registers a project and subscribes it to the clock. A zero
// creation time means now.
func (c *Company) CreateProject(ctx context.Context, spec domain.ProjectSpec) (p *domain.Project, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "create-project", time.Now(), map[string]any{"project": spec.Name}, &err)

	if spec.CreationTime.IsZero() {
		spec.CreationTime = c.clock.Now()
	}
	if spec.WorkDay == (timespan.WorkDay{}) {
		spec.WorkDay = c.cfg.WorkDay
	}
	p, err = c.projects.Create(spec)
	if err != nil {
		return nil, err
	}
	c.clock.Register(p)
	if now := c.clock.Now(); now.After(p.LastUpdated()) {
		p.HandleTimeChange(now)
	}
	return p, nil
}

func (c *Company) CreateTask(ctx context.Context, p *domain.Project, spec domain.TaskSpec) (t *domain.Task, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "create-task", time.Now(), map[string]any{"task": spec.Description}, &err)

	if p == nil {
		return nil, fmt.Errorf("create task %q: project is nil", spec.Description)
	}
	return p.CreateTask(spec)
}

func (c *Company) CreateDeveloper(ctx context.Context, name string) (d *domain.Developer, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "create-developer", time.Now(), map[string]any{"developer": name}, &err)

	return c.developers.Create(name)
}

func (c *Company) CreateResourceType(ctx context.Context, spec domain.ResourceTypeSpec) (rt *domain.ResourceType, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "create-resource-type", time.Now(), map[string]any{"resource_type": spec.Name}, &err)

	return c.resources.CreateType(spec)
}

func (c *Company) CreateResource(ctx context.Context, rt *domain.ResourceType, name string) (r *domain.Resource, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "create-resource", time.Now(), map[string]any{"resource": name}, &err)

	if rt == nil {
		return nil, domain.ErrMissingResourceType
	}
	return rt.CreateResource(name)
}

// AdvanceTime moves the clock forward; every project recomputes its tasks.
func (c *Company) AdvanceTime(ctx context.Context, to time.Time) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "advance-time", time.Now(), map[string]any{"to": to.Format(timespan.Layout)}, &err)

	return c.clock.Advance(to)
}

// PlanRequest describes a planning. When Resources is empty the first free
// instances of every required type are reserved.
type PlanRequest struct {
	Task       *domain.Task
	Start      time.Time
	Developers []*domain.Developer
	Resources  []*domain.Resource
}

func (c *Company) Plan(ctx context.Context, req PlanRequest) (pl *planner.Planning, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fields := map[string]any{"developers": len(req.Developers)}
	defer c.observe(ctx, "plan", time.Now(), fields, &err)

	if req.Task == nil {
		return nil, domain.ErrMissingTask
	}
	fields["task"] = req.Task.ID()
	if len(req.Developers) == 0 {
		return nil, fmt.Errorf("plan task %d: %w", req.Task.ID(), domain.ErrMissingDeveloper)
	}
	resources := req.Resources
	if len(resources) == 0 {
		span, err := timespan.Starting(req.Start, req.Task.Duration())
		if err != nil {
			return nil, err
		}
		if resources, err = c.planner.SelectResources(req.Task, span); err != nil {
			return nil, err
		}
	}

	b := c.planner.CreatePlanning(req.Start, req.Task, req.Developers[0])
	for _, d := range req.Developers[1:] {
		b.AddDeveloper(d)
	}
	for _, r := range resources {
		if r == nil {
			return nil, domain.ErrMissingResource
		}
		b.AddResources(r.Type(), r)
	}
	return b.Build()
}

// Unplan removes the planning of a task that has not started.
func (c *Company) Unplan(ctx context.Context, task *domain.Task) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "unplan", time.Now(), taskFields(task), &err)

	if task == nil {
		return domain.ErrMissingTask
	}
	return c.planner.Unplan(task)
}

// StartExecution starts a planned, available task at the current time. The
// planning moves to begin now, so the start fails when the developers or
// resources are booked elsewhere over the new span.
func (c *Company) StartExecution(ctx context.Context, task *domain.Task) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "start-execution", time.Now(), taskFields(task), &err)

	if task == nil {
		return domain.ErrMissingTask
	}
	if !c.planner.IsPlanned(task) {
		return fmt.Errorf("start task %d: %w", task.ID(), planner.ErrNotPlanned)
	}
	if s := task.Status(); s != domain.TaskAvailable {
		return fmt.Errorf("start task %d (%s): %w", task.ID(), s, domain.ErrNotYetAvailable)
	}
	now := c.clock.Now()
	if err := c.planner.Reschedule(task, now); err != nil {
		return fmt.Errorf("start task %d: %w", task.ID(), err)
	}
	if err := task.StartExecution(now); err != nil {
		return err
	}
	c.planner.UpdateStatus(task)
	return nil
}

// Finish records that an executing task finished at end.
func (c *Company) Finish(ctx context.Context, task *domain.Task, end time.Time) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "finish", time.Now(), taskFields(task), &err)

	return c.complete(task, end, false)
}

// Fail records that an executing task failed at end.
func (c *Company) Fail(ctx context.Context, task *domain.Task, end time.Time) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "fail", time.Now(), taskFields(task), &err)

	return c.complete(task, end, true)
}

func (c *Company) complete(task *domain.Task, end time.Time, failed bool) error {
	if task == nil {
		return domain.ErrMissingTask
	}
	if s := task.Status(); s != domain.TaskExecuting {
		return fmt.Errorf("complete task %d (%s): %w", task.ID(), s, domain.ErrNotYetAvailable)
	}
	start, _ := task.StartedAt()
	pl, planned := c.planner.Planning(task)
	if planned && !end.After(pl.Span().Begin) {
		return fmt.Errorf("complete task %d at %s: %w", task.ID(), end.Format(timespan.Layout), domain.ErrInvalidTimeSpan)
	}
	if err := task.UpdateStatus(start, end, failed); err != nil {
		return err
	}
	if planned {
		if err := pl.SetEndTime(end); err != nil {
			return err
		}
	}
	c.planner.UpdateStatus(task)
	return nil
}

// RecordOutcome sets a finished or failed outcome directly, for bulk
// construction of a company from a scenario.
func (c *Company) RecordOutcome(ctx context.Context, task *domain.Task, start, end time.Time, failed bool) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.observe(ctx, "record-outcome", time.Now(), taskFields(task), &err)

	if task == nil {
		return domain.ErrMissingTask
	}
	return task.UpdateStatus(start, end, failed)
}

// Save captures every component. A later Undo returns to this point.
func (c *Company) Save(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	defer c.observe(ctx, "save", time.Now(), nil, &err)

	c.snapshots.Save()
}

// Undo restores the last Save. It reports false when nothing was saved.
func (c *Company) Undo(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	fields := map[string]any{}
	var err error
	defer c.observe(ctx, "undo", time.Now(), fields, &err)

	ok := c.snapshots.Load()
	fields["restored"] = ok
	return ok
}

func taskFields(task *domain.Task) map[string]any {
	if task == nil {
		return nil
	}
	return map[string]any{"task": task.ID()}
}
