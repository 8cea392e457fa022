package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/taskman/internal/timespan"
)

// ProjectSpec describes a project to create.
type ProjectSpec struct {
	Name         string
	Description  string
	CreationTime time.Time
	DueTime      time.Time
	// WorkDay defaults to timespan.DefaultWorkDay when zero.
	WorkDay timespan.WorkDay
	// Sequence is shared between projects so task ids stay unique.
	Sequence *Sequence
}

// TaskSpec describes a task to create inside a project. All fields are
// validated before the task is linked into the dependency graph.
type TaskSpec struct {
	Description         string
	Duration            time.Duration
	AcceptableDeviation float64
	Dependencies        []*Task
	AlternativeFor      *Task
	Requirements        []Requirement
}

// Project owns an arena of tasks. Dependencies are stored as an adjacency
// list from a task to its prerequisites; alternative links map an
// alternative task to the failed task it replaces.
type Project struct {
	name        string
	description string
	created     time.Time
	due         time.Time
	workDay     timespan.WorkDay
	seq         *Sequence

	tasks          map[int]*Task
	order          []int
	deps           map[int][]int
	alternativeFor map[int]int
	lastUpdate     time.Time

	saved *projectSnapshot
}

func NewProject(spec ProjectSpec) (*Project, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("project name: %w", ErrInvalidName)
	}
	if spec.CreationTime.IsZero() || spec.DueTime.IsZero() {
		return nil, fmt.Errorf("project %q: %w", spec.Name, ErrInvalidTimeSpan)
	}
	if spec.DueTime.Before(spec.CreationTime) {
		return nil, fmt.Errorf("project %q: %w", spec.Name, ErrDueBeforeCreation)
	}
	wd := spec.WorkDay
	if wd.Window == (timespan.Window{}) {
		wd = timespan.DefaultWorkDay
	}
	seq := spec.Sequence
	if seq == nil {
		seq = NewSequence()
	}
	return &Project{
		name:           spec.Name,
		description:    spec.Description,
		created:        spec.CreationTime,
		due:            spec.DueTime,
		workDay:        wd,
		seq:            seq,
		tasks:          map[int]*Task{},
		deps:           map[int][]int{},
		alternativeFor: map[int]int{},
		lastUpdate:     spec.CreationTime,
	}, nil
}

func (p *Project) Name() string              { return p.name }
func (p *Project) Description() string       { return p.description }
func (p *Project) CreationTime() time.Time   { return p.created }
func (p *Project) DueTime() time.Time        { return p.due }
func (p *Project) LastUpdated() time.Time    { return p.lastUpdate }
func (p *Project) WorkDay() timespan.WorkDay { return p.workDay }

// Tasks returns the project's tasks in creation order.
func (p *Project) Tasks() []*Task {
	return p.lookup(p.order)
}

// Task returns the task with the given id.
func (p *Project) Task(id int) (*Task, bool) {
	t, ok := p.tasks[id]
	return t, ok
}

func (p *Project) String() string {
	return fmt.Sprintf("Project %s (%s)", p.name, p.Status())
}

// CreateTask validates spec and adds the task. The project is untouched on error.
func (p *Project) CreateTask(spec TaskSpec) (*Task, error) {
	if strings.TrimSpace(spec.Description) == "" {
		return nil, fmt.Errorf("create task: %w", ErrInvalidDescription)
	}
	if spec.Duration <= 0 {
		return nil, fmt.Errorf("create task %q: %w", spec.Description, ErrInvalidDuration)
	}
	if spec.AcceptableDeviation < 0 {
		return nil, fmt.Errorf("create task %q: %w", spec.Description, ErrInvalidDeviation)
	}
	depIDs := make([]int, 0, len(spec.Dependencies))
	for _, dep := range spec.Dependencies {
		if err := p.checkMember(dep); err != nil {
			return nil, fmt.Errorf("create task %q: dependency: %w", spec.Description, err)
		}
		if slices.Contains(depIDs, dep.id) {
			return nil, fmt.Errorf("create task %q: task %d: %w", spec.Description, dep.id, ErrDuplicateDependency)
		}
		depIDs = append(depIDs, dep.id)
	}
	if orig := spec.AlternativeFor; orig != nil {
		if err := p.checkMember(orig); err != nil {
			return nil, fmt.Errorf("create task %q: alternative: %w", spec.Description, err)
		}
		if err := p.checkReplaceable(orig); err != nil {
			return nil, fmt.Errorf("create task %q: %w", spec.Description, err)
		}
		// The new task would depend on everything in depIDs, and orig would
		// depend on the new task through the alternative link.
		if slices.Contains(p.closureOf(depIDs), orig.id) {
			return nil, fmt.Errorf("create task %q: alternative for task %d: %w", spec.Description, orig.id, ErrDependencyCycle)
		}
	}
	reqs, err := validateRequirements(spec.Requirements)
	if err != nil {
		return nil, fmt.Errorf("create task %q: %w", spec.Description, err)
	}

	t := &Task{
		id:           p.seq.Next(),
		description:  spec.Description,
		duration:     spec.Duration,
		deviation:    spec.AcceptableDeviation,
		requirements: reqs,
		project:      p,
		st:           taskState{lastUpdate: p.lastUpdate},
	}
	p.tasks[t.id] = t
	p.order = append(p.order, t.id)
	if len(depIDs) > 0 {
		p.deps[t.id] = depIDs
	}
	if spec.AlternativeFor != nil {
		p.alternativeFor[t.id] = spec.AlternativeFor.id
	}
	p.Refresh()
	return t, nil
}

func validateRequirements(in []Requirement) ([]Requirement, error) {
	out := make([]Requirement, 0, len(in))
	for _, r := range in {
		if r.Type == nil {
			return nil, ErrMissingResourceType
		}
		if r.Quantity <= 0 {
			return nil, fmt.Errorf("requirement %s: %w", r.Type.Name(), ErrInvalidQuantity)
		}
		for _, prev := range out {
			if prev.Type == r.Type {
				return nil, fmt.Errorf("requirement %s: %w", r.Type.Name(), ErrDuplicateRequirement)
			}
			if prev.Type.ConflictsWith(r.Type) {
				return nil, fmt.Errorf("requirements %s and %s: %w", prev.Type.Name(), r.Type.Name(), ErrConflictingRequirement)
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// AddDependency makes dep a prerequisite of task.
func (p *Project) AddDependency(task, dep *Task) error {
	if err := p.checkMember(task); err != nil {
		return fmt.Errorf("add dependency: %w", err)
	}
	if err := p.checkMember(dep); err != nil {
		return fmt.Errorf("add dependency to task %d: %w", task.id, err)
	}
	if task == dep {
		return fmt.Errorf("task %d: %w", task.id, ErrSelfDependency)
	}
	if slices.Contains(p.deps[task.id], dep.id) {
		return fmt.Errorf("task %d on %d: %w", task.id, dep.id, ErrDuplicateDependency)
	}
	if slices.Contains(p.closure(dep.id), task.id) {
		return fmt.Errorf("task %d on %d: %w", task.id, dep.id, ErrDependencyCycle)
	}
	p.deps[task.id] = append(p.deps[task.id], dep.id)
	p.Refresh()
	return nil
}

// SetAlternativeFor links task as the replacement for the failed original.
func (p *Project) SetAlternativeFor(task, original *Task) error {
	if err := p.checkMember(task); err != nil {
		return fmt.Errorf("set alternative: %w", err)
	}
	if err := p.checkMember(original); err != nil {
		return fmt.Errorf("set alternative for task %d: %w", task.id, err)
	}
	if _, ok := p.alternativeFor[task.id]; ok {
		return fmt.Errorf("task %d is already an alternative: %w", task.id, ErrAlreadyHasAlternative)
	}
	if err := p.checkReplaceable(original); err != nil {
		return err
	}
	if task == original || slices.Contains(p.closure(task.id), original.id) {
		return fmt.Errorf("task %d for %d: %w", task.id, original.id, ErrDependencyCycle)
	}
	p.alternativeFor[task.id] = original.id
	p.Refresh()
	return nil
}

func (p *Project) checkReplaceable(original *Task) error {
	if original.Status() != TaskFailed {
		return fmt.Errorf("alternative for task %d (%s): %w", original.id, original.Status(), ErrNotYetAvailable)
	}
	if _, ok := p.alternativeOf(original.id); ok {
		return fmt.Errorf("task %d: %w", original.id, ErrAlreadyHasAlternative)
	}
	return nil
}

// StartExecution marks an available task as executing from at.
func (p *Project) StartExecution(task *Task, at time.Time) error {
	if err := p.checkMember(task); err != nil {
		return fmt.Errorf("start execution: %w", err)
	}
	if s := task.Status(); s != TaskAvailable {
		return fmt.Errorf("start task %d (%s): %w", task.id, s, ErrNotYetAvailable)
	}
	task.st.executing = true
	task.st.startedAt = at
	p.Refresh()
	return nil
}

// UpdateStatus records the outcome of task over [start, end).
func (p *Project) UpdateStatus(task *Task, start, end time.Time, failed bool) error {
	if err := p.checkMember(task); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	span, err := timespan.New(start, end)
	if err != nil {
		return fmt.Errorf("update task %d: %w", task.id, ErrInvalidTimeSpan)
	}
	if task.st.outcome.IsSet() {
		return fmt.Errorf("update task %d: %w", task.id, ErrOutcomeAlreadySet)
	}
	kind := OutcomeFinished
	if failed {
		kind = OutcomeFailed
	}
	task.st.outcome = Outcome{Kind: kind, Span: span}
	task.st.executing = false
	p.Refresh()
	return nil
}

// HandleTimeChange moves the project's notion of "now" and refreshes
// every task.
func (p *Project) HandleTimeChange(now time.Time) {
	p.lastUpdate = now
	for _, t := range p.tasks {
		t.HandleTimeChange(now)
	}
	p.Refresh()
}

// Refresh recomputes and stores the status of every task.
func (p *Project) Refresh() {
	memo := make(map[int]TaskStatus, len(p.tasks))
	for _, id := range p.order {
		p.tasks[id].st.status = p.deriveStatus(id, memo)
	}
}

func (p *Project) deriveStatus(id int, memo map[int]TaskStatus) TaskStatus {
	if s, ok := memo[id]; ok {
		return s
	}
	t := p.tasks[id]
	var s TaskStatus
	switch {
	case t.st.outcome.Kind == OutcomeFinished:
		s = TaskFinished
	case t.st.outcome.Kind == OutcomeFailed:
		s = TaskFailed
	case t.st.executing:
		s = TaskExecuting
	default:
		s = TaskAvailable
		for _, dep := range p.deps[id] {
			if !p.satisfied(dep, memo) {
				s = TaskUnavailable
				break
			}
		}
	}
	memo[id] = s
	return s
}

// satisfied reports whether a task counts as done for its dependents:
// finished, or failed with a satisfied alternative.
func (p *Project) satisfied(id int, memo map[int]TaskStatus) bool {
	switch p.deriveStatus(id, memo) {
	case TaskFinished:
		return true
	case TaskFailed:
		alt, ok := p.alternativeOf(id)
		return ok && p.satisfied(alt, memo)
	default:
		return false
	}
}

// estimate returns the estimated finish of a task given the current time.
func (p *Project) estimate(id int, now time.Time, memo map[int]time.Time) time.Time {
	if v, ok := memo[id]; ok {
		return v
	}
	t := p.tasks[id]
	var v time.Time
	switch t.st.status {
	case TaskFinished, TaskFailed:
		v = t.st.outcome.Span.End
	case TaskExecuting:
		v = later(now, p.workDay.Add(t.st.startedAt, t.duration))
	case TaskAvailable:
		v = p.workDay.Add(now, t.duration)
	default:
		ready := now
		for _, dep := range p.deps[id] {
			ready = later(ready, p.effectiveFinish(dep, now, memo))
		}
		v = p.workDay.Add(ready, t.duration)
	}
	memo[id] = v
	return v
}

// effectiveFinish follows the alternative chain of a failed task.
func (p *Project) effectiveFinish(id int, now time.Time, memo map[int]time.Time) time.Time {
	if p.tasks[id].st.status == TaskFailed {
		if alt, ok := p.alternativeOf(id); ok {
			return p.effectiveFinish(alt, now, memo)
		}
	}
	return p.estimate(id, now, memo)
}

// Status is FINISHED once the project has tasks and all of them are satisfied.
func (p *Project) Status() ProjectStatus {
	if len(p.order) == 0 {
		return ProjectOngoing
	}
	memo := map[int]TaskStatus{}
	for _, id := range p.order {
		if !p.satisfied(id, memo) {
			return ProjectOngoing
		}
	}
	return ProjectFinished
}

// EstimatedFinishTime is the latest estimated finish over all tasks, or the
// current time for a project without tasks.
func (p *Project) EstimatedFinishTime() time.Time {
	finish := p.lastUpdate
	memo := map[int]time.Time{}
	for i, id := range p.order {
		v := p.estimate(id, p.lastUpdate, memo)
		if i == 0 || v.After(finish) {
			finish = v
		}
	}
	return finish
}

func (p *Project) FinishingStatus() ProjectFinishingStatus {
	if p.EstimatedFinishTime().After(p.due) {
		return ProjectOverTime
	}
	return ProjectOnTime
}

// CurrentDelay is the number of working hours the project runs past its due time.
func (p *Project) CurrentDelay() time.Duration {
	return p.workDay.Between(p.due, p.EstimatedFinishTime())
}

func (p *Project) checkMember(t *Task) error {
	if t == nil {
		return ErrMissingTask
	}
	if t.project != p {
		return fmt.Errorf("task %d: %w", t.id, ErrForeignTask)
	}
	return nil
}

func (p *Project) alternativeOf(original int) (int, bool) {
	for alt, orig := range p.alternativeFor {
		if orig == original {
			return alt, true
		}
	}
	return 0, false
}

// successors are the tasks whose satisfaction id waits on.
func (p *Project) successors(id int) []int {
	out := slices.Clone(p.deps[id])
	if alt, ok := p.alternativeOf(id); ok {
		out = append(out, alt)
	}
	return out
}

func (p *Project) closure(id int) []int {
	return p.closureOf(p.successors(id))
}

func (p *Project) closureOf(start []int) []int {
	seen := map[int]bool{}
	var out []int
	stack := slices.Clone(start)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		stack = append(stack, p.successors(id)...)
	}
	return out
}

func (p *Project) lookup(ids []int) []*Task {
	out := make([]*Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.tasks[id])
	}
	return out
}

func later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

type projectSnapshot struct {
	tasks          map[int]*Task
	states         map[int]taskState
	order          []int
	deps           map[int][]int
	alternativeFor map[int]int
	lastUpdate     time.Time
}

// Save keeps a single-generation copy of the project's mutable state.
func (p *Project) Save() {
	states := make(map[int]taskState, len(p.tasks))
	for id, t := range p.tasks {
		states[id] = t.st
	}
	p.saved = &projectSnapshot{
		tasks:          maps.Clone(p.tasks),
		states:         states,
		order:          slices.Clone(p.order),
		deps:           cloneAdjacency(p.deps),
		alternativeFor: maps.Clone(p.alternativeFor),
		lastUpdate:     p.lastUpdate,
	}
}

// Load restores the last saved state. Tasks created after the save are
// dropped. It reports false when nothing was saved.
func (p *Project) Load() bool {
	s := p.saved
	if s == nil {
		return false
	}
	p.tasks = maps.Clone(s.tasks)
	for id, st := range s.states {
		p.tasks[id].st = st
	}
	p.order = slices.Clone(s.order)
	p.deps = cloneAdjacency(s.deps)
	p.alternativeFor = maps.Clone(s.alternativeFor)
	p.lastUpdate = s.lastUpdate
	return true
}
