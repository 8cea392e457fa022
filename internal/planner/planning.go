package planner

import (
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/timespan"
)

// Planning assigns developers and reserved resources to a task over a span.
// Plannings are only created through Builder.Build.
type Planning struct {
	task       *domain.Task
	span       timespan.Span
	developers []*domain.Developer
	resources  []*domain.Resource
}

func (p *Planning) Task() *domain.Task                    { return p.task }
func (p *Planning) Span() timespan.Span                   { return p.span }
func (p *Planning) Developers() []*domain.Developer       { return slices.Clone(p.developers) }
func (p *Planning) Resources() []*domain.Resource         { return slices.Clone(p.resources) }
func (p *Planning) HasDeveloper(d *domain.Developer) bool { return slices.Contains(p.developers, d) }
func (p *Planning) HasResource(r *domain.Resource) bool   { return slices.Contains(p.resources, r) }

// ResourcesOf returns the reserved instances of rt.
func (p *Planning) ResourcesOf(rt *domain.ResourceType) []*domain.Resource {
	var out []*domain.Resource
	for _, r := range p.resources {
		if r.Type() == rt {
			out = append(out, r)
		}
	}
	return out
}

// SetEndTime shrinks the planning to end. Later end times are ignored; a
// planning never grows past the span it was validated for.
func (p *Planning) SetEndTime(end time.Time) error {
	if !end.After(p.span.Begin) {
		return fmt.Errorf("planning of task %d: %w", p.task.ID(), domain.ErrInvalidTimeSpan)
	}
	if end.Before(p.span.End) {
		p.span.End = end
	}
	return nil
}

func (p *Planning) String() string {
	return fmt.Sprintf("task %d %s", p.task.ID(), p.span)
}

// Builder collects the parts of a planning before validation.
type Builder struct {
	planner    *Planner
	start      time.Time
	task       *domain.Task
	developers []*domain.Developer
	resources  []reservation
}

type reservation struct {
	rtype     *domain.ResourceType
	resources []*domain.Resource
}

// AddDeveloper assigns an extra developer.
func (b *Builder) AddDeveloper(d *domain.Developer) *Builder {
	b.developers = append(b.developers, d)
	return b
}

// AddResources reserves instances of rt.
func (b *Builder) AddResources(rt *domain.ResourceType, rs ...*domain.Resource) *Builder {
	b.resources = append(b.resources, reservation{rtype: rt, resources: rs})
	return b
}

// Build validates the planning and registers it with the planner. Nothing is
// registered when an error is returned.
func (b *Builder) Build() (*Planning, error) {
	if b.task == nil {
		return nil, domain.ErrMissingTask
	}
	if _, ok := b.planner.plannings[b.task]; ok {
		return nil, fmt.Errorf("task %d: %w", b.task.ID(), ErrAlreadyPlanned)
	}
	span, err := timespan.Starting(b.start, b.task.Duration())
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", b.task.ID(), domain.ErrInvalidTimeSpan)
	}

	devs, err := b.checkDevelopers(span)
	if err != nil {
		return nil, err
	}
	resources, err := b.checkReservations(span)
	if err != nil {
		return nil, err
	}

	pl := &Planning{task: b.task, span: span, developers: devs, resources: resources}
	b.planner.register(pl)
	return pl, nil
}

func (b *Builder) checkDevelopers(span timespan.Span) ([]*domain.Developer, error) {
	var devs []*domain.Developer
	for _, d := range b.developers {
		if d == nil {
			return nil, fmt.Errorf("task %d: %w", b.task.ID(), domain.ErrMissingDeveloper)
		}
		if slices.Contains(devs, d) {
			continue
		}
		if other := b.planner.developerBooking(d, span, b.task); other != nil {
			return nil, fmt.Errorf("%s on %s (%s): %w", d.Name(), span, other, ErrDeveloperConflict)
		}
		devs = append(devs, d)
	}
	return devs, nil
}

func (b *Builder) checkReservations(span timespan.Span) ([]*domain.Resource, error) {
	var out []*domain.Resource
	counts := map[*domain.ResourceType]int{}
	for _, res := range b.resources {
		if res.rtype == nil {
			return nil, domain.ErrMissingResourceType
		}
		if b.task.RequiredQuantity(res.rtype) == 0 {
			return nil, fmt.Errorf("task %d does not require %s: %w", b.task.ID(), res.rtype.Name(), ErrInvalidReservation)
		}
		for _, r := range res.resources {
			if r == nil {
				return nil, domain.ErrMissingResource
			}
			if r.Type() != res.rtype {
				return nil, fmt.Errorf("%s is not a %s: %w", r.Name(), res.rtype.Name(), ErrInvalidReservation)
			}
			if slices.Contains(out, r) {
				continue
			}
			out = append(out, r)
			counts[res.rtype]++
		}
	}
	for _, req := range b.task.Requirements() {
		if got := counts[req.Type]; got != req.Quantity {
			return nil, fmt.Errorf("task %d needs %d %s, got %d: %w", b.task.ID(), req.Quantity, req.Type.Name(), got, ErrResourceQuantity)
		}
	}
	for _, r := range out {
		if other := b.planner.resourceBooking(r, span, b.task); other != nil {
			return nil, fmt.Errorf("%s on %s (%s): %w", r.Name(), span, other, ErrResourceConflict)
		}
	}
	for _, req := range b.task.Requirements() {
		if w := req.Type.DailyAvailability(); !w.Fits(span) {
			return nil, fmt.Errorf("%s available %s, planned %s: %w", req.Type.Name(), w, span, ErrOutsideAvailability)
		}
	}
	return out, nil
}
