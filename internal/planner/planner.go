// Package planner allocates developers and resources to tasks and searches
// for feasible start times.
package planner

import (
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/timespan"
)

// Options tune the start time search.
type Options struct {
	// Step is the increment between probed start times.
	Step time.Duration
	// Candidates is the number of start times PossibleStartTimes returns.
	Candidates int
	// Horizon bounds how far past "now" the search looks.
	Horizon time.Duration
}

func DefaultOptions() Options {
	return Options{Step: time.Hour, Candidates: 3, Horizon: 365 * 24 * time.Hour}
}

// Planner owns every Planning and keeps at most one per task.
type Planner struct {
	opts      Options
	plannings map[*domain.Task]*Planning
	order     []*domain.Task

	saved *plannerSnapshot
}

// New creates a planner. Zero option fields fall back to DefaultOptions.
func New(opts Options) *Planner {
	def := DefaultOptions()
	if opts.Step <= 0 {
		opts.Step = def.Step
	}
	if opts.Candidates <= 0 {
		opts.Candidates = def.Candidates
	}
	if opts.Horizon <= 0 {
		opts.Horizon = def.Horizon
	}
	return &Planner{opts: opts, plannings: map[*domain.Task]*Planning{}}
}

func (p *Planner) Options() Options {
	return p.opts
}

// CreatePlanning starts a planning of task at start with dev assigned.
func (p *Planner) CreatePlanning(start time.Time, task *domain.Task, dev *domain.Developer) *Builder {
	return &Builder{planner: p, start: start, task: task, developers: []*domain.Developer{dev}}
}

func (p *Planner) register(pl *Planning) {
	p.plannings[pl.task] = pl
	p.order = append(p.order, pl.task)
	pl.task.LinkPlanning(pl)
	p.UpdateStatus(pl.task)
}

// Planning returns the planning registered for task.
func (p *Planner) Planning(task *domain.Task) (*Planning, bool) {
	pl, ok := p.plannings[task]
	return pl, ok
}

// Plannings returns all plannings in registration order.
func (p *Planner) Plannings() []*Planning {
	out := make([]*Planning, 0, len(p.order))
	for _, t := range p.order {
		out = append(out, p.plannings[t])
	}
	return out
}

func (p *Planner) IsPlanned(task *domain.Task) bool {
	_, ok := p.plannings[task]
	return ok
}

// UnplannedTasks returns the tasks in all that have no planning, keeping
// their order.
func (p *Planner) UnplannedTasks(all []*domain.Task) []*domain.Task {
	var out []*domain.Task
	for _, t := range all {
		if !p.IsPlanned(t) {
			out = append(out, t)
		}
	}
	return out
}

// TasksOf returns the planned tasks that assign dev.
func (p *Planner) TasksOf(dev *domain.Developer) []*domain.Task {
	var out []*domain.Task
	for _, t := range p.order {
		if p.plannings[t].HasDeveloper(dev) {
			out = append(out, t)
		}
	}
	return out
}

// UpdateStatus recomputes the stored status of task and everything that
// depends on it.
func (p *Planner) UpdateStatus(task *domain.Task) {
	task.Project().Refresh()
}

// Unplan removes the planning of a task that has not started.
func (p *Planner) Unplan(task *domain.Task) error {
	if !p.IsPlanned(task) {
		return fmt.Errorf("task %d: %w", task.ID(), ErrNotPlanned)
	}
	if s := task.Status(); s == domain.TaskExecuting || s.IsTerminal() {
		return fmt.Errorf("task %d (%s): %w", task.ID(), s, ErrPlanningLocked)
	}
	delete(p.plannings, task)
	p.order = slices.DeleteFunc(p.order, func(t *domain.Task) bool { return t == task })
	task.UnlinkPlanning()
	p.UpdateStatus(task)
	return nil
}

// Reschedule moves the planning of task to start and keeps its length. The
// new span must clear every other planning and the resources' daily windows;
// on error the planning is unchanged.
func (p *Planner) Reschedule(task *domain.Task, start time.Time) error {
	pl, ok := p.plannings[task]
	if !ok {
		return fmt.Errorf("task %d: %w", task.ID(), ErrNotPlanned)
	}
	span, err := timespan.Starting(start, task.Duration())
	if err != nil {
		return fmt.Errorf("task %d: %w", task.ID(), domain.ErrInvalidTimeSpan)
	}
	for _, d := range pl.developers {
		if other := p.developerBooking(d, span, task); other != nil {
			return fmt.Errorf("%s on %s (%s): %w", d.Name(), span, other, ErrDeveloperConflict)
		}
	}
	for _, r := range pl.resources {
		if other := p.resourceBooking(r, span, task); other != nil {
			return fmt.Errorf("%s on %s (%s): %w", r.Name(), span, other, ErrResourceConflict)
		}
	}
	for _, req := range task.Requirements() {
		if w := req.Type.DailyAvailability(); !w.Fits(span) {
			return fmt.Errorf("%s available %s, planned %s: %w", req.Type.Name(), w, span, ErrOutsideAvailability)
		}
	}
	pl.span = span
	return nil
}

// developerBooking returns a planning other than except's that books dev
// during span.
func (p *Planner) developerBooking(dev *domain.Developer, span timespan.Span, except *domain.Task) *Planning {
	for _, t := range p.order {
		pl := p.plannings[t]
		if t != except && pl.HasDeveloper(dev) && pl.span.Overlaps(span) {
			return pl
		}
	}
	return nil
}

func (p *Planner) resourceBooking(r *domain.Resource, span timespan.Span, except *domain.Task) *Planning {
	for _, t := range p.order {
		pl := p.plannings[t]
		if t != except && pl.HasResource(r) && pl.span.Overlaps(span) {
			return pl
		}
	}
	return nil
}

// ResourcesOfTypeAvailableFor returns the instances of rt with no reservation
// overlapping span. The task's own reservation does not count.
func (p *Planner) ResourcesOfTypeAvailableFor(rt *domain.ResourceType, task *domain.Task, span timespan.Span) []*domain.Resource {
	var out []*domain.Resource
	for _, r := range rt.Resources() {
		if p.resourceBooking(r, span, task) == nil {
			out = append(out, r)
		}
	}
	return out
}

// DevelopersAvailableFor returns the members of pool not booked by another
// planning during span.
func (p *Planner) DevelopersAvailableFor(task *domain.Task, span timespan.Span, pool []*domain.Developer) []*domain.Developer {
	var out []*domain.Developer
	for _, d := range pool {
		if p.developerBooking(d, span, task) == nil {
			out = append(out, d)
		}
	}
	return out
}

// SelectResources picks, for every required type, the first available
// instances up to the required quantity.
func (p *Planner) SelectResources(task *domain.Task, span timespan.Span) ([]*domain.Resource, error) {
	var out []*domain.Resource
	for _, req := range task.Requirements() {
		free := p.ResourcesOfTypeAvailableFor(req.Type, task, span)
		if len(free) < req.Quantity {
			return nil, fmt.Errorf("task %d needs %d %s, %d free on %s: %w",
				task.ID(), req.Quantity, req.Type.Name(), len(free), span, ErrResourceQuantity)
		}
		out = append(out, free[:req.Quantity]...)
	}
	return out, nil
}

type plannerSnapshot struct {
	plannings map[*domain.Task]*Planning
	spans     map[*domain.Task]timespan.Span
	order     []*domain.Task
}

// Save captures the registered plannings, overwriting any earlier capture.
func (p *Planner) Save() {
	s := &plannerSnapshot{
		plannings: make(map[*domain.Task]*Planning, len(p.plannings)),
		spans:     make(map[*domain.Task]timespan.Span, len(p.plannings)),
		order:     slices.Clone(p.order),
	}
	for t, pl := range p.plannings {
		s.plannings[t] = pl
		s.spans[t] = pl.span
	}
	p.saved = s
}

// Load restores the captured plannings and the tasks' back-references. It
// reports false when nothing was saved.
func (p *Planner) Load() bool {
	s := p.saved
	if s == nil {
		return false
	}
	for t := range p.plannings {
		if _, ok := s.plannings[t]; !ok {
			t.UnlinkPlanning()
		}
	}
	p.plannings = make(map[*domain.Task]*Planning, len(s.plannings))
	for t, pl := range s.plannings {
		pl.span = s.spans[t]
		p.plannings[t] = pl
		t.LinkPlanning(pl)
	}
	p.order = slices.Clone(s.order)
	return true
}
