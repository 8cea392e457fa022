package company

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/planner"
	"github.com/alexanderramin/taskman/internal/timespan"
)

func (c *Company) Projects() []*domain.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projects.All()
}

func (c *Company) Project(i int) (*domain.Project, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projects.At(i)
}

func (c *Company) Developers() []*domain.Developer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.developers.All()
}

func (c *Company) Developer(name string) (*domain.Developer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.developers.ByName(name)
}

func (c *Company) ResourceTypes() []*domain.ResourceType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resources.Types()
}

func (c *Company) ResourceType(name string) *domain.ResourceType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resources.Type(name)
}

// Task finds a task of any project by id.
func (c *Company) Task(id int) (*domain.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projects.Task(id)
}

func (c *Company) Tasks() []*domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projects.Tasks()
}

// UnplannedTasks returns the tasks of all projects without a planning.
func (c *Company) UnplannedTasks() []*domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.planner.UnplannedTasks(c.projects.Tasks())
}

func (c *Company) Planning(task *domain.Task) (*planner.Planning, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.planner.Planning(task)
}

// TasksOf returns the planned tasks assigned to dev.
func (c *Company) TasksOf(dev *domain.Developer) []*domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.planner.TasksOf(dev)
}

// PossibleStartTimes searches from the current time. With no developers any
// single free developer of the company suffices; otherwise all of them must
// be free. A company without developers has no start times.
func (c *Company) PossibleStartTimes(task *domain.Task, devs []*domain.Developer) ([]time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(devs) == 0 {
		pool := c.developers.All()
		if len(pool) == 0 {
			return nil, fmt.Errorf("start times: company has no developers: %w", domain.ErrMissingDeveloper)
		}
		return c.planner.PossibleStartTimes(task, c.clock.Now(), pool)
	}
	return c.planner.PossibleStartTimesWith(task, c.clock.Now(), devs)
}

// SelectResources proposes resources for task starting at start.
func (c *Company) SelectResources(task *domain.Task, start time.Time) ([]*domain.Resource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if task == nil {
		return nil, domain.ErrMissingTask
	}
	span, err := timespan.Starting(start, task.Duration())
	if err != nil {
		return nil, err
	}
	return c.planner.SelectResources(task, span)
}

// AvailableDevelopers returns the developers free for task starting at start.
func (c *Company) AvailableDevelopers(task *domain.Task, start time.Time) ([]*domain.Developer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if task == nil {
		return nil, domain.ErrMissingTask
	}
	span, err := timespan.Starting(start, task.Duration())
	if err != nil {
		return nil, err
	}
	return c.planner.DevelopersAvailableFor(task, span, c.developers.All()), nil
}
