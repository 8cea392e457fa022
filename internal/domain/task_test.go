package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_Validation(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))

	cases := []struct {
		name string
		spec TaskSpec
		want error
	}{
		{"empty description", TaskSpec{Duration: time.Hour}, ErrInvalidDescription},
		{"zero duration", TaskSpec{Description: "x"}, ErrInvalidDuration},
		{"negative deviation", TaskSpec{Description: "x", Duration: time.Hour, AcceptableDeviation: -0.1}, ErrInvalidDeviation},
		{"nil dependency", TaskSpec{Description: "x", Duration: time.Hour, Dependencies: []*Task{nil}}, ErrMissingTask},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.CreateTask(tc.spec)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, p.Tasks(), "failed creations must not add tasks")
}

func TestCreateTask_AssignsIncreasingIDsAcrossProjects(t *testing.T) {
	seq := NewSequence()
	p1, err := NewProject(ProjectSpec{Name: "a", CreationTime: tuesday, DueTime: at(4, 8, 0), Sequence: seq})
	require.NoError(t, err)
	p2, err := NewProject(ProjectSpec{Name: "b", CreationTime: tuesday, DueTime: at(4, 8, 0), Sequence: seq})
	require.NoError(t, err)

	a := newTestTask(t, p1, "a", time.Hour)
	b := newTestTask(t, p2, "b", time.Hour)
	c := newTestTask(t, p1, "c", time.Hour)
	assert.Equal(t, []int{1, 2, 3}, []int{a.ID(), b.ID(), c.ID()})
}

func TestCreateTask_RejectsDuplicateAndForeignDependencies(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	other := newTestProject(t, at(10, 16, 0))
	dep := newTestTask(t, p, "dep", time.Hour)
	foreign := newTestTask(t, other, "foreign", time.Hour)

	_, err := p.CreateTask(TaskSpec{Description: "x", Duration: time.Hour, Dependencies: []*Task{dep, dep}})
	assert.ErrorIs(t, err, ErrDuplicateDependency)

	_, err = p.CreateTask(TaskSpec{Description: "x", Duration: time.Hour, Dependencies: []*Task{foreign}})
	assert.ErrorIs(t, err, ErrForeignTask)
	assert.Len(t, p.Tasks(), 1)
}

func TestCreateTask_Requirements(t *testing.T) {
	g := NewResourceGraph()
	car, err := g.CreateType(ResourceTypeSpec{Name: "car"})
	require.NoError(t, err)
	white, err := g.CreateType(ResourceTypeSpec{Name: "white room", ConflictsWith: []*ResourceType{car}})
	require.NoError(t, err)

	p := newTestProject(t, at(10, 16, 0))

	_, err = p.CreateTask(TaskSpec{Description: "x", Duration: time.Hour, Requirements: []Requirement{{Type: car, Quantity: 0}}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = p.CreateTask(TaskSpec{Description: "x", Duration: time.Hour, Requirements: []Requirement{{Type: car, Quantity: 1}, {Type: car, Quantity: 2}}})
	assert.ErrorIs(t, err, ErrDuplicateRequirement)

	_, err = p.CreateTask(TaskSpec{Description: "x", Duration: time.Hour, Requirements: []Requirement{{Type: car, Quantity: 1}, {Type: white, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrConflictingRequirement)

	task, err := p.CreateTask(TaskSpec{Description: "x", Duration: time.Hour, Requirements: []Requirement{{Type: car, Quantity: 2}}})
	require.NoError(t, err)
	assert.Equal(t, 2, task.RequiredQuantity(car))
	assert.Equal(t, 0, task.RequiredQuantity(white))
}

func TestFinishStatus(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))

	cases := []struct {
		name    string
		elapsed time.Duration
		want    FinishStatus
	}{
		{"early", 2 * time.Hour, FinishedEarly},
		{"on time", 7 * time.Hour, FinishedOnTime},
		{"lower bound", 6*time.Hour + 24*time.Minute, FinishedEarly},
		{"just past lower bound", 6*time.Hour + 25*time.Minute, FinishedOnTime},
		{"upper bound", 9*time.Hour + 36*time.Minute, FinishedOnTime},
		{"delayed", 72 * time.Hour, FinishedWithDelay},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := newTestTask(t, p, tc.name, 8*time.Hour)
			require.NoError(t, task.UpdateStatus(tuesday, tuesday.Add(tc.elapsed), false))
			got, err := task.FinishStatus()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFinishStatus_BeforeOutcome(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	task := newTestTask(t, p, "t1", 8*time.Hour)

	_, err := task.FinishStatus()
	assert.ErrorIs(t, err, ErrNotYetAvailable)
}

func TestUpdateStatus_RejectsBadSpanAndSecondOutcome(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	task := newTestTask(t, p, "t1", time.Hour)

	assert.ErrorIs(t, task.UpdateStatus(tuesday, tuesday, false), ErrInvalidTimeSpan)
	assert.ErrorIs(t, task.UpdateStatus(tuesday.Add(time.Hour), tuesday, false), ErrInvalidTimeSpan)
	assert.Equal(t, TaskAvailable, task.Status())

	require.NoError(t, task.UpdateStatus(tuesday, tuesday.Add(time.Hour), true))
	assert.Equal(t, TaskFailed, task.Status())

	assert.ErrorIs(t, task.UpdateStatus(tuesday, tuesday.Add(2*time.Hour), false), ErrOutcomeAlreadySet)
	assert.Equal(t, OutcomeFailed, task.Outcome().Kind)
	assert.Equal(t, tuesday.Add(time.Hour), task.Outcome().Span.End)
}

func TestStatus_DependencyBecomesAvailable(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	t1 := newTestTask(t, p, "t1", 8*time.Hour)
	t2 := newTestTask(t, p, "t2", 8*time.Hour, t1)

	assert.Equal(t, TaskUnavailable, t2.Status())

	require.NoError(t, t1.UpdateStatus(tuesday, tuesday.Add(8*time.Hour), false))
	assert.Equal(t, TaskFinished, t1.Status())
	assert.Equal(t, TaskAvailable, t2.Status())
}

func TestStatus_FailedDependencyBlocksUntilAlternativeFinishes(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	t1 := newTestTask(t, p, "t1", time.Hour)
	t2 := newTestTask(t, p, "t2", time.Hour, t1)

	require.NoError(t, t1.UpdateStatus(tuesday, tuesday.Add(time.Hour), true))
	assert.Equal(t, TaskUnavailable, t2.Status())

	alt, err := p.CreateTask(TaskSpec{Description: "alt", Duration: time.Hour, AlternativeFor: t1})
	require.NoError(t, err)
	assert.Same(t, t1, alt.AlternativeFor())
	assert.Same(t, alt, t1.Alternative())
	assert.Equal(t, TaskUnavailable, t2.Status())

	require.NoError(t, alt.UpdateStatus(tuesday.Add(time.Hour), tuesday.Add(2*time.Hour), false))
	assert.Equal(t, TaskAvailable, t2.Status())
}

func TestStatus_AlternativeChain(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	t1 := newTestTask(t, p, "t1", time.Hour)
	t2 := newTestTask(t, p, "t2", time.Hour, t1)
	require.NoError(t, t1.UpdateStatus(tuesday, tuesday.Add(time.Hour), true))

	alt1, err := p.CreateTask(TaskSpec{Description: "alt1", Duration: time.Hour, AlternativeFor: t1})
	require.NoError(t, err)
	require.NoError(t, alt1.UpdateStatus(tuesday.Add(time.Hour), tuesday.Add(2*time.Hour), true))
	assert.Equal(t, TaskUnavailable, t2.Status())

	alt2 := newTestTask(t, p, "alt2", time.Hour)
	require.NoError(t, alt2.SetAlternativeFor(alt1))
	require.NoError(t, alt2.UpdateStatus(tuesday.Add(2*time.Hour), tuesday.Add(3*time.Hour), false))
	assert.Equal(t, TaskAvailable, t2.Status())
}

func TestSetAlternativeFor_Preconditions(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	original := newTestTask(t, p, "original", time.Hour)
	alt := newTestTask(t, p, "alt", time.Hour)

	assert.ErrorIs(t, alt.SetAlternativeFor(original), ErrNotYetAvailable)

	require.NoError(t, original.UpdateStatus(tuesday, tuesday.Add(time.Hour), true))
	require.NoError(t, alt.SetAlternativeFor(original))

	second := newTestTask(t, p, "second", time.Hour)
	assert.ErrorIs(t, second.SetAlternativeFor(original), ErrAlreadyHasAlternative)
	assert.ErrorIs(t, alt.SetAlternativeFor(original), ErrAlreadyHasAlternative)
}

func TestAlternative_CannotAlsoDependOnOriginal(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	original := newTestTask(t, p, "original", time.Hour)
	middle := newTestTask(t, p, "middle", time.Hour, original)
	require.NoError(t, original.UpdateStatus(tuesday, tuesday.Add(time.Hour), true))

	_, err := p.CreateTask(TaskSpec{Description: "direct", Duration: time.Hour, Dependencies: []*Task{original}, AlternativeFor: original})
	assert.ErrorIs(t, err, ErrDependencyCycle)

	_, err = p.CreateTask(TaskSpec{Description: "transitive", Duration: time.Hour, Dependencies: []*Task{middle}, AlternativeFor: original})
	assert.ErrorIs(t, err, ErrDependencyCycle)

	late := newTestTask(t, p, "late", time.Hour, middle)
	assert.ErrorIs(t, late.SetAlternativeFor(original), ErrDependencyCycle)
	assert.Nil(t, original.Alternative())
}

func TestAddDependency(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	a := newTestTask(t, p, "a", time.Hour)
	b := newTestTask(t, p, "b", time.Hour, a)
	c := newTestTask(t, p, "c", time.Hour, b)

	assert.ErrorIs(t, a.AddDependency(a), ErrSelfDependency)
	assert.ErrorIs(t, b.AddDependency(a), ErrDuplicateDependency)
	assert.ErrorIs(t, a.AddDependency(c), ErrDependencyCycle)
	assert.ErrorIs(t, a.AddDependency(nil), ErrMissingTask)
	assert.Empty(t, a.Dependencies())

	d := newTestTask(t, p, "d", time.Hour)
	require.NoError(t, c.AddDependency(d))
	assert.Equal(t, []*Task{b, d}, c.Dependencies())
	assert.True(t, c.HasDependency(a))
	assert.False(t, a.HasDependency(c))
	assert.Equal(t, TaskUnavailable, c.Status())
}

func TestAddDependency_CycleThroughAlternative(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	original := newTestTask(t, p, "original", time.Hour)
	require.NoError(t, original.UpdateStatus(tuesday, tuesday.Add(time.Hour), true))
	alt, err := p.CreateTask(TaskSpec{Description: "alt", Duration: time.Hour, AlternativeFor: original})
	require.NoError(t, err)

	// original waits on alt, so alt may not wait on original.
	assert.ErrorIs(t, alt.AddDependency(original), ErrDependencyCycle)
}

func TestStartExecution(t *testing.T) {
	p := newTestProject(t, at(10, 16, 0))
	t1 := newTestTask(t, p, "t1", 8*time.Hour)
	t2 := newTestTask(t, p, "t2", 8*time.Hour, t1)

	assert.ErrorIs(t, t2.StartExecution(tuesday), ErrNotYetAvailable)

	require.NoError(t, t1.StartExecution(tuesday))
	assert.Equal(t, TaskExecuting, t1.Status())
	started, ok := t1.StartedAt()
	assert.True(t, ok)
	assert.Equal(t, tuesday, started)
	assert.ErrorIs(t, t1.StartExecution(tuesday), ErrNotYetAvailable)

	require.NoError(t, t1.UpdateStatus(tuesday, at(3, 15, 0), false))
	assert.Equal(t, TaskFinished, t1.Status())
	assert.Equal(t, TaskAvailable, t2.Status())
}

func TestEstimatedFinishTime(t *testing.T) {
	p := newTestProject(t, at(20, 16, 0))
	available := newTestTask(t, p, "available", 8*time.Hour)
	finished := newTestTask(t, p, "finished", 8*time.Hour)
	failed := newTestTask(t, p, "failed", 8*time.Hour)
	require.NoError(t, finished.UpdateStatus(tuesday, at(3, 10, 0), false))
	require.NoError(t, failed.UpdateStatus(tuesday, at(3, 10, 0), true))
	dependent := newTestTask(t, p, "dependent", 8*time.Hour, available)
	level2 := newTestTask(t, p, "level2", 8*time.Hour, finished, failed, dependent)
	long := newTestTask(t, p, "long", 40*time.Hour)

	assert.Equal(t, at(3, 16, 0), available.EstimatedFinishTime())
	assert.Equal(t, at(3, 10, 0), finished.EstimatedFinishTime())
	assert.Equal(t, at(3, 10, 0), failed.EstimatedFinishTime())
	assert.Equal(t, at(4, 16, 0), dependent.EstimatedFinishTime())
	assert.Equal(t, at(5, 16, 0), level2.EstimatedFinishTime())
	assert.Equal(t, at(9, 16, 0), long.EstimatedFinishTime())
}

func TestEstimatedFinishTime_FollowsAlternative(t *testing.T) {
	p := newTestProject(t, at(20, 16, 0))
	original := newTestTask(t, p, "original", time.Hour)
	dependent := newTestTask(t, p, "dependent", 8*time.Hour, original)
	require.NoError(t, original.UpdateStatus(tuesday, at(3, 9, 0), true))
	_, err := p.CreateTask(TaskSpec{Description: "alt", Duration: 8 * time.Hour, AlternativeFor: original})
	require.NoError(t, err)

	// alt ends 03-03 16:00, dependent runs a full day after it.
	assert.Equal(t, at(4, 16, 0), dependent.EstimatedFinishTime())
}

func TestEstimatedFinishTime_Executing(t *testing.T) {
	p := newTestProject(t, at(20, 16, 0))
	task := newTestTask(t, p, "task", 2*time.Hour)
	require.NoError(t, task.StartExecution(tuesday))
	assert.Equal(t, at(3, 10, 0), task.EstimatedFinishTime())

	p.HandleTimeChange(at(3, 12, 0))
	assert.Equal(t, at(3, 12, 0), task.EstimatedFinishTime(), "an overrunning task is estimated to finish now")
	assert.Equal(t, at(3, 12, 0), task.LastUpdated())
}

func TestStatus_IsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := newTestProject(t, at(20, 16, 0))
	tasks := randomDAG(t, rng, p, 30)
	for i, task := range tasks {
		if rng.Intn(3) == 0 && task.Status() == TaskAvailable {
			require.NoError(t, task.UpdateStatus(tuesday, tuesday.Add(time.Hour), rng.Intn(2) == 0), "task %d", i)
		}
	}
	for _, task := range tasks {
		first := task.CalculatedStatus()
		assert.Equal(t, first, task.CalculatedStatus())
		assert.Equal(t, first, task.Status())
	}
}

func TestAddDependency_ClosingCycleAlwaysFails(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		p := newTestProject(t, at(20, 16, 0))
		tasks := randomDAG(t, rng, p, 15)
		for _, task := range tasks {
			for _, dep := range tasks {
				if task == dep || !dep.HasDependency(task) {
					continue
				}
				before := task.Dependencies()
				assert.ErrorIs(t, task.AddDependency(dep), ErrDependencyCycle)
				assert.Equal(t, before, task.Dependencies())
			}
		}
	}
}

// randomDAG creates n tasks where each may depend on any earlier task.
func randomDAG(t *testing.T, rng *rand.Rand, p *Project, n int) []*Task {
	t.Helper()
	tasks := make([]*Task, 0, n)
	for i := 0; i < n; i++ {
		var deps []*Task
		for _, prev := range tasks {
			if rng.Intn(4) == 0 {
				deps = append(deps, prev)
			}
		}
		tasks = append(tasks, newTestTask(t, p, "task", time.Hour, deps...))
	}
	return tasks
}
