package planner

import (
	"testing"
	"time"

	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/timespan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tuesday = time.Date(2015, 3, 3, 8, 0, 0, 0, time.UTC)

func at(day, hour int) time.Time {
	return time.Date(2015, 3, day, hour, 0, 0, 0, time.UTC)
}

type fixture struct {
	project *domain.Project
	graph   *domain.ResourceGraph
	planner *Planner
	alice   *domain.Developer
	bob     *domain.Developer
	car     *domain.ResourceType
	cars    []*domain.Resource
}

func newFixture(t *testing.T, carCount int) *fixture {
	t.Helper()
	f := &fixture{graph: domain.NewResourceGraph(), planner: New(DefaultOptions())}
	var err error
	f.project, err = domain.NewProject(domain.ProjectSpec{Name: "p", CreationTime: tuesday, DueTime: at(31, 16)})
	require.NoError(t, err)
	f.alice, err = domain.NewDeveloper("alice")
	require.NoError(t, err)
	f.bob, err = domain.NewDeveloper("bob")
	require.NoError(t, err)
	f.car, err = f.graph.CreateType(domain.ResourceTypeSpec{Name: "car"})
	require.NoError(t, err)
	for i := 0; i < carCount; i++ {
		r, err := f.car.CreateResource(string(rune('a' + i)))
		require.NoError(t, err)
		f.cars = append(f.cars, r)
	}
	return f
}

func (f *fixture) task(t *testing.T, d time.Duration, reqs ...domain.Requirement) *domain.Task {
	t.Helper()
	task, err := f.project.CreateTask(domain.TaskSpec{Description: "task", Duration: d, Requirements: reqs})
	require.NoError(t, err)
	return task
}

func TestDevelopersAvailableFor(t *testing.T) {
	f := newFixture(t, 0)
	first := f.task(t, 2*time.Hour)
	second := f.task(t, time.Hour)
	_, err := f.planner.CreatePlanning(at(3, 8), first, f.alice).Build()
	require.NoError(t, err)

	pool := []*domain.Developer{f.alice, f.bob}
	span, err := timespan.Starting(at(3, 9), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []*domain.Developer{f.bob}, f.planner.DevelopersAvailableFor(second, span, pool))
	assert.Equal(t, pool, f.planner.DevelopersAvailableFor(first, span, pool))

	touching, err := timespan.Starting(at(3, 10), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, pool, f.planner.DevelopersAvailableFor(second, touching, pool))
}

func TestBuild_RegistersAndLinksPlanning(t *testing.T) {
	f := newFixture(t, 1)
	task := f.task(t, time.Hour, domain.Requirement{Type: f.car, Quantity: 1})

	pl, err := f.planner.CreatePlanning(at(3, 9), task, f.alice).AddResources(f.car, f.cars[0]).Build()
	require.NoError(t, err)

	assert.Equal(t, at(3, 10), pl.Span().End)
	assert.Equal(t, []*domain.Developer{f.alice}, pl.Developers())
	assert.Equal(t, []*domain.Resource{f.cars[0]}, pl.ResourcesOf(f.car))
	assert.True(t, f.planner.IsPlanned(task))
	assert.Equal(t, domain.Plan(pl), task.Planning())
	assert.Equal(t, domain.TaskAvailable, task.Status(), "planning alone does not start execution")

	_, err = f.planner.CreatePlanning(at(4, 9), task, f.bob).AddResources(f.car, f.cars[0]).Build()
	assert.ErrorIs(t, err, ErrAlreadyPlanned)
}

func TestBuild_DeveloperConflict(t *testing.T) {
	f := newFixture(t, 0)
	first := f.task(t, 2*time.Hour)
	second := f.task(t, time.Hour)
	third := f.task(t, time.Hour)

	_, err := f.planner.CreatePlanning(at(3, 8), first, f.alice).Build()
	require.NoError(t, err)

	_, err = f.planner.CreatePlanning(at(3, 9), second, f.bob).AddDeveloper(f.alice).Build()
	assert.ErrorIs(t, err, ErrDeveloperConflict)
	assert.False(t, f.planner.IsPlanned(second))
	assert.Nil(t, second.Planning())

	_, err = f.planner.CreatePlanning(at(3, 10), second, f.alice).Build()
	require.NoError(t, err, "touching spans do not overlap")

	_, err = f.planner.CreatePlanning(at(3, 9), third, f.bob).Build()
	require.NoError(t, err)
	assert.Equal(t, []*domain.Task{first, second}, f.planner.TasksOf(f.alice))
}

func TestBuild_ResourceConflict(t *testing.T) {
	f := newFixture(t, 1)
	req := domain.Requirement{Type: f.car, Quantity: 1}
	first := f.task(t, 2*time.Hour, req)
	second := f.task(t, 2*time.Hour, req)

	_, err := f.planner.CreatePlanning(at(3, 8), first, f.alice).AddResources(f.car, f.cars[0]).Build()
	require.NoError(t, err)

	_, err = f.planner.CreatePlanning(at(3, 9), second, f.bob).AddResources(f.car, f.cars[0]).Build()
	assert.ErrorIs(t, err, ErrResourceConflict)
	assert.Len(t, f.planner.Plannings(), 1)
}

func TestBuild_QuantityMustMatchRequirement(t *testing.T) {
	f := newFixture(t, 1)
	task := f.task(t, time.Hour, domain.Requirement{Type: f.car, Quantity: 2})

	_, err := f.planner.CreatePlanning(at(3, 9), task, f.alice).AddResources(f.car, f.cars[0]).Build()
	assert.ErrorIs(t, err, ErrResourceQuantity)

	_, err = f.planner.CreatePlanning(at(3, 9), task, f.alice).Build()
	assert.ErrorIs(t, err, ErrResourceQuantity)

	span, err := timespan.Starting(at(3, 9), time.Hour)
	require.NoError(t, err)
	_, err = f.planner.SelectResources(task, span)
	assert.ErrorIs(t, err, ErrResourceQuantity)
	assert.False(t, f.planner.IsPlanned(task))
}

func TestBuild_InvalidReservation(t *testing.T) {
	f := newFixture(t, 1)
	boat, err := f.graph.CreateType(domain.ResourceTypeSpec{Name: "boat"})
	require.NoError(t, err)
	b1, err := boat.CreateResource("b1")
	require.NoError(t, err)
	task := f.task(t, time.Hour, domain.Requirement{Type: f.car, Quantity: 1})

	_, err = f.planner.CreatePlanning(at(3, 9), task, f.alice).AddResources(f.car, f.cars[0]).AddResources(boat, b1).Build()
	assert.ErrorIs(t, err, ErrInvalidReservation)

	_, err = f.planner.CreatePlanning(at(3, 9), task, f.alice).AddResources(f.car, b1).Build()
	assert.ErrorIs(t, err, ErrInvalidReservation)

	_, err = f.planner.CreatePlanning(at(3, 9), task, nil).AddResources(f.car, f.cars[0]).Build()
	assert.ErrorIs(t, err, domain.ErrMissingDeveloper)
}

func TestBuild_OutsideAvailability(t *testing.T) {
	f := newFixture(t, 1)
	task := f.task(t, 2*time.Hour, domain.Requirement{Type: f.car, Quantity: 1})

	_, err := f.planner.CreatePlanning(at(3, 15), task, f.alice).AddResources(f.car, f.cars[0]).Build()
	assert.ErrorIs(t, err, ErrOutsideAvailability)

	_, err = f.planner.CreatePlanning(at(3, 14), task, f.alice).AddResources(f.car, f.cars[0]).Build()
	assert.NoError(t, err)
}

func TestResourcesOfTypeAvailableFor(t *testing.T) {
	f := newFixture(t, 2)
	req := domain.Requirement{Type: f.car, Quantity: 1}
	first := f.task(t, 2*time.Hour, req)
	second := f.task(t, 2*time.Hour, req)
	_, err := f.planner.CreatePlanning(at(3, 8), first, f.alice).AddResources(f.car, f.cars[0]).Build()
	require.NoError(t, err)

	span, err := timespan.Starting(at(3, 9), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []*domain.Resource{f.cars[1]}, f.planner.ResourcesOfTypeAvailableFor(f.car, second, span))
	assert.Equal(t, f.cars, f.planner.ResourcesOfTypeAvailableFor(f.car, first, span), "own reservation is not a conflict")

	later, err := timespan.Starting(at(3, 10), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, f.cars, f.planner.ResourcesOfTypeAvailableFor(f.car, second, later))

	picked, err := f.planner.SelectResources(second, span)
	require.NoError(t, err)
	assert.Equal(t, []*domain.Resource{f.cars[1]}, picked)
}

func TestUnplannedTasks(t *testing.T) {
	f := newFixture(t, 0)
	a := f.task(t, time.Hour)
	b := f.task(t, time.Hour)
	c := f.task(t, time.Hour)
	_, err := f.planner.CreatePlanning(at(3, 8), b, f.alice).Build()
	require.NoError(t, err)

	assert.Equal(t, []*domain.Task{a, c}, f.planner.UnplannedTasks(f.project.Tasks()))
}

func TestUnplan(t *testing.T) {
	f := newFixture(t, 0)
	task := f.task(t, time.Hour)
	started := f.task(t, time.Hour)

	assert.ErrorIs(t, f.planner.Unplan(task), ErrNotPlanned)

	_, err := f.planner.CreatePlanning(at(3, 8), task, f.alice).Build()
	require.NoError(t, err)
	require.NoError(t, f.planner.Unplan(task))
	assert.False(t, f.planner.IsPlanned(task))
	assert.Nil(t, task.Planning())

	_, err = f.planner.CreatePlanning(at(3, 8), started, f.alice).Build()
	require.NoError(t, err)
	require.NoError(t, started.StartExecution(at(3, 8)))
	assert.ErrorIs(t, f.planner.Unplan(started), ErrPlanningLocked)
}

func TestReschedule(t *testing.T) {
	f := newFixture(t, 1)
	car := domain.Requirement{Type: f.car, Quantity: 1}
	task := f.task(t, 2*time.Hour, car)
	pl, err := f.planner.CreatePlanning(at(3, 10), task, f.alice).AddResources(f.car, f.cars[0]).Build()
	require.NoError(t, err)

	meeting := f.task(t, time.Hour)
	_, err = f.planner.CreatePlanning(at(4, 9), meeting, f.alice).Build()
	require.NoError(t, err)
	drive := f.task(t, time.Hour, car)
	_, err = f.planner.CreatePlanning(at(5, 8), drive, f.bob).AddResources(f.car, f.cars[0]).Build()
	require.NoError(t, err)

	assert.ErrorIs(t, f.planner.Reschedule(task, at(4, 8)), ErrDeveloperConflict)
	assert.ErrorIs(t, f.planner.Reschedule(task, at(5, 8)), ErrResourceConflict)
	assert.Equal(t, at(3, 10), pl.Span().Begin, "a refused move keeps the span")

	require.NoError(t, f.planner.Reschedule(task, at(3, 8)))
	assert.Equal(t, at(3, 8), pl.Span().Begin)
	assert.Equal(t, at(3, 10), pl.Span().End)
	require.NoError(t, f.planner.Reschedule(task, at(4, 10)), "touching the meeting is fine")

	assert.ErrorIs(t, f.planner.Reschedule(f.task(t, time.Hour), at(3, 8)), ErrNotPlanned)
}

func TestReschedule_OutsideAvailability(t *testing.T) {
	f := newFixture(t, 0)
	night, err := f.graph.CreateType(domain.ResourceTypeSpec{
		Name:         "night",
		Availability: timespan.Window{Start: 18 * time.Hour, End: 22 * time.Hour},
	})
	require.NoError(t, err)
	lamp, err := night.CreateResource("lamp")
	require.NoError(t, err)
	task := f.task(t, time.Hour, domain.Requirement{Type: night, Quantity: 1})
	pl, err := f.planner.CreatePlanning(at(3, 18), task, f.alice).AddResources(night, lamp).Build()
	require.NoError(t, err)

	assert.ErrorIs(t, f.planner.Reschedule(task, at(3, 8)), ErrOutsideAvailability)
	assert.Equal(t, at(3, 18), pl.Span().Begin)
}

func TestPlanning_SetEndTime(t *testing.T) {
	f := newFixture(t, 0)
	task := f.task(t, 4*time.Hour)
	pl, err := f.planner.CreatePlanning(at(3, 8), task, f.alice).Build()
	require.NoError(t, err)

	assert.ErrorIs(t, pl.SetEndTime(at(3, 8)), domain.ErrInvalidTimeSpan)
	require.NoError(t, pl.SetEndTime(at(3, 14)))
	assert.Equal(t, at(3, 12), pl.Span().End, "plannings never grow")
	require.NoError(t, pl.SetEndTime(at(3, 10)))
	assert.Equal(t, at(3, 10), pl.Span().End)

	// The freed time can be booked again.
	other := f.task(t, time.Hour)
	_, err = f.planner.CreatePlanning(at(3, 10), other, f.alice).Build()
	assert.NoError(t, err)
}

func TestPlanner_SaveLoad(t *testing.T) {
	f := newFixture(t, 0)
	assert.False(t, f.planner.Load())

	kept := f.task(t, 4*time.Hour)
	dropped := f.task(t, time.Hour)
	pl, err := f.planner.CreatePlanning(at(3, 8), kept, f.alice).Build()
	require.NoError(t, err)
	f.planner.Save()

	require.NoError(t, pl.SetEndTime(at(3, 9)))
	_, err = f.planner.CreatePlanning(at(3, 13), dropped, f.bob).Build()
	require.NoError(t, err)

	require.True(t, f.planner.Load())
	assert.Equal(t, []*Planning{pl}, f.planner.Plannings())
	assert.Equal(t, at(3, 12), pl.Span().End)
	assert.Nil(t, dropped.Planning())
	assert.Equal(t, domain.Plan(pl), kept.Planning())
}
