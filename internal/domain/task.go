package domain

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/alexanderramin/taskman/internal/timespan"
)

// Sequence hands out task ids. Ids are never reused, even when a snapshot
// restore discards the tasks that received them.
type Sequence struct {
	next int
}

func NewSequence() *Sequence {
	return &Sequence{next: 1}
}

func (s *Sequence) Next() int {
	id := s.next
	s.next++
	return id
}

type OutcomeKind string

const (
	OutcomeNone     OutcomeKind = ""
	OutcomeFinished OutcomeKind = "finished"
	OutcomeFailed   OutcomeKind = "failed"
)

// Outcome is the recorded result of a task's execution.
type Outcome struct {
	Kind OutcomeKind
	Span timespan.Span
}

func (o Outcome) IsSet() bool {
	return o.Kind != OutcomeNone
}

// Requirement asks for Quantity instances of a resource type.
type Requirement struct {
	Type     *ResourceType
	Quantity int
}

// Plan is the part of a planning a task can see through its back-reference.
type Plan interface {
	Span() timespan.Span
	Developers() []*Developer
}

// taskState holds every field of a task that changes after creation.
type taskState struct {
	outcome    Outcome
	executing  bool
	startedAt  time.Time
	status     TaskStatus
	lastUpdate time.Time
	planning   Plan
}

// Task is a unit of work owned by a Project. Its dependencies and alternative
// link live in the project's task arena; the Task methods delegate there.
type Task struct {
	id           int
	description  string
	duration     time.Duration
	deviation    float64
	requirements []Requirement
	project      *Project

	st taskState
}

func (t *Task) ID() int                      { return t.id }
func (t *Task) Description() string          { return t.description }
func (t *Task) Duration() time.Duration      { return t.duration }
func (t *Task) AcceptableDeviation() float64 { return t.deviation }
func (t *Task) Project() *Project            { return t.project }
func (t *Task) Outcome() Outcome             { return t.st.outcome }
func (t *Task) LastUpdated() time.Time       { return t.st.lastUpdate }
func (t *Task) Planning() Plan               { return t.st.planning }

// Status returns the status stored by the last recomputation.
func (t *Task) Status() TaskStatus {
	return t.st.status
}

// CalculatedStatus derives the status from current state without storing it.
func (t *Task) CalculatedStatus() TaskStatus {
	return t.project.deriveStatus(t.id, map[int]TaskStatus{})
}

// StartedAt returns the execution start signalled for the task, if any.
func (t *Task) StartedAt() (time.Time, bool) {
	return t.st.startedAt, t.st.executing || !t.st.startedAt.IsZero()
}

func (t *Task) Requirements() []Requirement {
	return slices.Clone(t.requirements)
}

// RequiredQuantity returns how many instances of rt the task needs.
func (t *Task) RequiredQuantity(rt *ResourceType) int {
	for _, r := range t.requirements {
		if r.Type == rt {
			return r.Quantity
		}
	}
	return 0
}

// Dependencies returns the direct prerequisites in insertion order.
func (t *Task) Dependencies() []*Task {
	return t.project.lookup(t.project.deps[t.id])
}

// AlternativeFor returns the failed task this task replaces, or nil.
func (t *Task) AlternativeFor() *Task {
	if id, ok := t.project.alternativeFor[t.id]; ok {
		return t.project.tasks[id]
	}
	return nil
}

// Alternative returns the task replacing this one, or nil.
func (t *Task) Alternative() *Task {
	if id, ok := t.project.alternativeOf(t.id); ok {
		return t.project.tasks[id]
	}
	return nil
}

// HasDependency reports whether other is a direct or transitive prerequisite.
func (t *Task) HasDependency(other *Task) bool {
	if other == nil || other.project != t.project {
		return false
	}
	return slices.Contains(t.project.closure(t.id), other.id)
}

func (t *Task) AddDependency(other *Task) error {
	return t.project.AddDependency(t, other)
}

func (t *Task) SetAlternativeFor(original *Task) error {
	return t.project.SetAlternativeFor(t, original)
}

// UpdateStatus records a finished or failed outcome.
func (t *Task) UpdateStatus(start, end time.Time, failed bool) error {
	return t.project.UpdateStatus(t, start, end, failed)
}

func (t *Task) StartExecution(at time.Time) error {
	return t.project.StartExecution(t, at)
}

// HandleTimeChange only records when the task last saw the clock move.
func (t *Task) HandleTimeChange(now time.Time) {
	t.st.lastUpdate = now
}

// LinkPlanning stores the back-reference to the task's planning.
func (t *Task) LinkPlanning(p Plan) {
	t.st.planning = p
}

// UnlinkPlanning clears the planning back-reference.
func (t *Task) UnlinkPlanning() {
	t.st.planning = nil
}

// FinishStatus compares the recorded outcome with the estimated duration.
func (t *Task) FinishStatus() (FinishStatus, error) {
	if !t.st.outcome.IsSet() {
		return "", fmt.Errorf("finish status of task %d: %w", t.id, ErrNotYetAvailable)
	}
	span := t.st.outcome.Span
	lower := span.Begin.Add(scale(t.duration, 1-t.deviation))
	upper := span.Begin.Add(scale(t.duration, 1+t.deviation))
	switch {
	case !span.End.After(lower):
		return FinishedEarly, nil
	case span.End.After(upper):
		return FinishedWithDelay, nil
	default:
		return FinishedOnTime, nil
	}
}

func scale(d time.Duration, f float64) time.Duration {
	return time.Duration(math.Round(float64(d) * f))
}

// EstimatedFinishTime estimates completion using the project's current time.
func (t *Task) EstimatedFinishTime() time.Time {
	return t.project.estimate(t.id, t.project.lastUpdate, map[int]time.Time{})
}

func (t *Task) String() string {
	return fmt.Sprintf("Task %d %s", t.id, t.st.status)
}
