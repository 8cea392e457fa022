// Package registry keeps the company's projects and developers in creation
// order.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/alexanderramin/taskman/internal/domain"
)

var (
	ErrDuplicateProject   = errors.New("project is already registered")
	ErrDuplicateDeveloper = errors.New("developer is already registered")
)

// Projects owns the company's projects and the task id sequence they share.
type Projects struct {
	seq      *domain.Sequence
	projects []*domain.Project
	saved    []*domain.Project
	hasSaved bool
}

func NewProjects() *Projects {
	return &Projects{seq: domain.NewSequence()}
}

// Create builds a project from spec and registers it. The spec's Sequence is
// replaced by the registry's own.
func (r *Projects) Create(spec domain.ProjectSpec) (*domain.Project, error) {
	spec.Sequence = r.seq
	p, err := domain.NewProject(spec)
	if err != nil {
		return nil, err
	}
	if err := r.Add(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Add registers p. Projects are compared by identity.
func (r *Projects) Add(p *domain.Project) error {
	if p == nil {
		return errors.New("project is nil")
	}
	if slices.Contains(r.projects, p) {
		return fmt.Errorf("project %q: %w", p.Name(), ErrDuplicateProject)
	}
	r.projects = append(r.projects, p)
	return nil
}

func (r *Projects) All() []*domain.Project {
	return slices.Clone(r.projects)
}

// At returns the project at index i in creation order.
func (r *Projects) At(i int) (*domain.Project, bool) {
	if i < 0 || i >= len(r.projects) {
		return nil, false
	}
	return r.projects[i], true
}

// Tasks returns every task of every project.
func (r *Projects) Tasks() []*domain.Task {
	var out []*domain.Task
	for _, p := range r.projects {
		out = append(out, p.Tasks()...)
	}
	return out
}

// Task looks a task up by id across all projects.
func (r *Projects) Task(id int) (*domain.Task, bool) {
	for _, p := range r.projects {
		if t, ok := p.Task(id); ok {
			return t, true
		}
	}
	return nil, false
}

// Save captures the project list and every project's state.
func (r *Projects) Save() {
	r.saved = slices.Clone(r.projects)
	r.hasSaved = true
	for _, p := range r.projects {
		p.Save()
	}
}

// Load drops projects created since the last Save and restores the rest.
func (r *Projects) Load() bool {
	if !r.hasSaved {
		return false
	}
	r.projects = slices.Clone(r.saved)
	ok := true
	for _, p := range r.projects {
		ok = p.Load() && ok
	}
	return ok
}

// Developers holds the company's developers in creation order.
type Developers struct {
	devs     []*domain.Developer
	saved    []*domain.Developer
	hasSaved bool
}

func NewDevelopers() *Developers {
	return &Developers{}
}

// Create makes a developer and registers it.
func (r *Developers) Create(name string) (*domain.Developer, error) {
	d, err := domain.NewDeveloper(name)
	if err != nil {
		return nil, err
	}
	if err := r.Add(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Add registers d. Developers are compared by identity, so two developers may
// share a name.
func (r *Developers) Add(d *domain.Developer) error {
	if d == nil {
		return domain.ErrMissingDeveloper
	}
	if slices.Contains(r.devs, d) {
		return fmt.Errorf("developer %q: %w", d.Name(), ErrDuplicateDeveloper)
	}
	r.devs = append(r.devs, d)
	return nil
}

func (r *Developers) All() []*domain.Developer {
	return slices.Clone(r.devs)
}

// ByName returns the first developer with the given name.
func (r *Developers) ByName(name string) (*domain.Developer, bool) {
	for _, d := range r.devs {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

func (r *Developers) At(i int) (*domain.Developer, bool) {
	if i < 0 || i >= len(r.devs) {
		return nil, false
	}
	return r.devs[i], true
}

func (r *Developers) Save() {
	r.saved = slices.Clone(r.devs)
	r.hasSaved = true
}

func (r *Developers) Load() bool {
	if !r.hasSaved {
		return false
	}
	r.devs = slices.Clone(r.saved)
	return true
}
