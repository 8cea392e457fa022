package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// tuesday is 2015-03-03 08:00, the start of a working day.
var tuesday = time.Date(2015, 3, 3, 8, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2015, 3, day, hour, minute, 0, 0, time.UTC)
}

func newTestProject(t *testing.T, due time.Time) *Project {
	t.Helper()
	p, err := NewProject(ProjectSpec{
		Name:         "project",
		Description:  "test project",
		CreationTime: tuesday,
		DueTime:      due,
	})
	require.NoError(t, err)
	return p
}

func newTestTask(t *testing.T, p *Project, desc string, d time.Duration, deps ...*Task) *Task {
	t.Helper()
	task, err := p.CreateTask(TaskSpec{
		Description:         desc,
		Duration:            d,
		AcceptableDeviation: 0.2,
		Dependencies:        deps,
	})
	require.NoError(t, err)
	return task
}
