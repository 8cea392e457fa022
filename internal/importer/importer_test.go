package importer

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taskman/internal/company"
	"github.com/alexanderramin/taskman/internal/config"
	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrInt(i int) *int { return &i }

func validMinimalScenario() *Scenario {
	return &Scenario{
		SystemTime: "2015-03-03 08:00",
		Developers: []DeveloperImport{{Name: "alice"}},
		Projects: []ProjectImport{{
			Name:         "p",
			Description:  "d",
			CreationTime: "2015-03-03 08:00",
			DueTime:      "2015-03-10 16:00",
		}},
		Tasks: []TaskImport{{Project: 0, Description: "t", EstimatedDuration: 60}},
	}
}

func TestLoad_SampleScenario(t *testing.T) {
	c, err := Load(context.Background(), "testdata/company.yaml", config.Default())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2015, 3, 3, 12, 0, 0, 0, time.UTC), c.Now())
	require.Len(t, c.Projects(), 2)
	assert.Len(t, c.Developers(), 2)
	assert.Len(t, c.ResourceTypes(), 4)

	tasks := c.Tasks()
	require.Len(t, tasks, 5)
	want := []domain.TaskStatus{
		domain.TaskFinished, domain.TaskAvailable, domain.TaskUnavailable, domain.TaskFailed, domain.TaskAvailable,
	}
	for i, task := range tasks {
		assert.Equal(t, want[i], task.Status(), "task %d", i)
	}
	assert.Same(t, tasks[3], tasks[4].AlternativeFor())
	assert.InDelta(t, 0.2, tasks[1].AcceptableDeviation(), 1e-9)

	pl, ok := c.Planning(tasks[1])
	require.True(t, ok)
	assert.Equal(t, time.Date(2015, 3, 3, 16, 0, 0, 0, time.UTC), pl.Span().End)
	assert.Equal(t, "audi", pl.Resources()[0].Name())
	assert.Equal(t, []*domain.Task{tasks[0], tasks[2], tasks[3], tasks[4]}, c.UnplannedTasks())

	dc := c.ResourceType("data center")
	require.NotNil(t, dc)
	assert.Equal(t, "12:00-17:00", dc.DailyAvailability().String())
	assert.True(t, c.ResourceType("white room").ConflictsWith(c.ResourceType("car")))

	website, _ := c.Project(0)
	assert.Equal(t, domain.ProjectOnTime, website.FinishingStatus())
}

func TestValidateScenario_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateScenario(validMinimalScenario()))
}

func TestValidateScenario_CollectsAllErrors(t *testing.T) {
	s := validMinimalScenario()
	s.SystemTime = "yesterday"
	s.Projects[0].DueTime = "2015-03-01 08:00"
	s.Tasks = append(s.Tasks,
		TaskImport{Project: 3, Description: "", EstimatedDuration: 0, AcceptableDeviation: -1},
		TaskImport{Project: 0, Description: "x", EstimatedDuration: 10, PrerequisiteTasks: []int{2}, AlternativeFor: ptrInt(5)},
		TaskImport{Project: 0, Description: "y", EstimatedDuration: 10, Status: "paused"},
		TaskImport{Project: 0, Description: "z", EstimatedDuration: 10, Status: "finished", StartTime: "2015-03-03 08:00"},
	)
	s.Plannings = []PlanningImport{{Task: 9, PlannedStartTime: "2015-03-03"}}

	errs := ValidateScenario(s)
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}

	assert.Contains(t, messages, `systemTime: invalid time "yesterday" (expected YYYY-MM-DD HH:MM)`)
	assert.Contains(t, messages, `projects[0].dueTime "2015-03-01 08:00" must not be before creationTime "2015-03-03 08:00"`)
	assert.Contains(t, messages, "tasks[1].project: index 3 out of range (have 1)")
	assert.Contains(t, messages, "tasks[1].description is required")
	assert.Contains(t, messages, "tasks[1].estimatedDuration must be positive")
	assert.Contains(t, messages, "tasks[1].acceptableDeviation must not be negative")
	assert.Contains(t, messages, "tasks[2].prerequisiteTasks: index 2 must refer to an earlier entry")
	assert.Contains(t, messages, "tasks[2].alternativeFor: index 5 must refer to an earlier entry")
	assert.Contains(t, messages, `tasks[3].status: invalid value "paused"`)
	assert.Contains(t, messages, "tasks[4].endTime is required")
	assert.Contains(t, messages, "plannings[0].task: index 9 out of range (have 5)")
	assert.Contains(t, messages, "plannings[0].developers: at least one developer is required")
}

func TestValidateScenario_ResourceReferences(t *testing.T) {
	s := validMinimalScenario()
	s.DailyAvailability = []AvailabilityImport{{StartTime: "16:00", EndTime: "08:00"}}
	s.ResourceTypes = []ResourceTypeImport{
		{Name: "a", Requires: []int{0}},
		{Name: "", ConflictsWith: []int{0}, DailyAvailability: ptrInt(2)},
	}
	s.Resources = []ResourceImport{{Name: "r", Type: 7}}

	errs := ValidateScenario(s)
	assert.Len(t, errs, 5)
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte("systemTime: \"2015-03-03 08:00\"\nemployees: []\n"))
	assert.Error(t, err)
}

func TestApply_ReportsDomainErrors(t *testing.T) {
	ctx := context.Background()

	s := validMinimalScenario()
	s.Tasks = append(s.Tasks, TaskImport{Project: 0, Description: "alt", EstimatedDuration: 60, AlternativeFor: ptrInt(0)})
	require.Empty(t, ValidateScenario(s))
	_, err := Apply(ctx, s, config.Default())
	assert.ErrorIs(t, err, domain.ErrNotYetAvailable)
	assert.Contains(t, err.Error(), "tasks[1]")

	s = validMinimalScenario()
	s.ResourceTypes = []ResourceTypeImport{{Name: "r"}}
	s.Resources = []ResourceImport{{Name: "r1", Type: 0}}
	s.Tasks[0].RequiredResourceTypes = []RequirementImport{{Type: 0, Quantity: 2}}
	s.Plannings = []PlanningImport{{Task: 0, PlannedStartTime: "2015-03-03 08:00", Developers: []int{0}, Resources: []int{0}}}
	require.Empty(t, ValidateScenario(s))
	_, err = Apply(ctx, s, config.Default())
	assert.ErrorIs(t, err, planner.ErrResourceQuantity)
}

func TestApply_ValidatesFirst(t *testing.T) {
	ctx := context.Background()

	s := validMinimalScenario()
	s.Tasks[0].PrerequisiteTasks = []int{3}
	s.Plannings = []PlanningImport{{Task: 7, PlannedStartTime: "soon", Developers: []int{2}}}
	var c *company.Company
	var err error
	require.NotPanics(t, func() { c, err = Apply(ctx, s, config.Default()) })
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrInvalidScenario)
	assert.Contains(t, err.Error(), "tasks[0].prerequisiteTasks")
	assert.Contains(t, err.Error(), "plannings[0].task")
	assert.Contains(t, err.Error(), "plannings[0].plannedStartTime")
	assert.Contains(t, err.Error(), "plannings[0].developers")

	_, err = Apply(ctx, nil, config.Default())
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestLoad_InvalidScenarioJoinsErrors(t *testing.T) {
	_, err := Load(context.Background(), "testdata/missing.yaml", config.Default())
	assert.Error(t, err)
}
