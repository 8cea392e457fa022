package planner

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/timespan"
)

// PossibleStartTimes returns the earliest start times at or after now at
// which at least one developer of pool is free and every required resource
// type has enough free instances. An empty pool puts no constraint on
// developers.
func (p *Planner) PossibleStartTimes(task *domain.Task, now time.Time, pool []*domain.Developer) ([]time.Time, error) {
	return p.search(task, now, func(span timespan.Span) bool {
		if len(pool) == 0 {
			return true
		}
		for _, d := range pool {
			if p.developerBooking(d, span, task) == nil {
				return true
			}
		}
		return false
	})
}

// PossibleStartTimesWith is like PossibleStartTimes but requires every
// developer in required to be free.
func (p *Planner) PossibleStartTimesWith(task *domain.Task, now time.Time, required []*domain.Developer) ([]time.Time, error) {
	return p.search(task, now, func(span timespan.Span) bool {
		for _, d := range required {
			if p.developerBooking(d, span, task) != nil {
				return false
			}
		}
		return true
	})
}

// search probes start times from now in steps of Options.Step. A probe that
// would run past the end of the resources' daily window moves to the start
// of the next window.
func (p *Planner) search(task *domain.Task, now time.Time, developersFree func(timespan.Span) bool) ([]time.Time, error) {
	if task == nil {
		return nil, domain.ErrMissingTask
	}
	window, bounded, err := requiredWindow(task)
	if err != nil {
		return nil, err
	}

	var out []time.Time
	limit := now.Add(p.opts.Horizon)
	for t := now; len(out) < p.opts.Candidates && !t.After(limit); {
		start := t
		if bounded {
			start, _ = window.EarliestFit(t, task.Duration())
		}
		span := timespan.Span{Begin: start, End: start.Add(task.Duration())}
		if developersFree(span) && p.resourcesFree(task, span) {
			out = append(out, start)
		}
		t = start.Add(p.opts.Step)
	}
	if len(out) < p.opts.Candidates {
		return out, fmt.Errorf("task %d: %d of %d start times within %s: %w",
			task.ID(), len(out), p.opts.Candidates, p.opts.Horizon, ErrNoFeasibleSlot)
	}
	return out, nil
}

// requiredWindow intersects the daily availability of every required type.
func requiredWindow(task *domain.Task) (timespan.Window, bool, error) {
	reqs := task.Requirements()
	if len(reqs) == 0 {
		return timespan.Window{}, false, nil
	}
	window := reqs[0].Type.DailyAvailability()
	for _, req := range reqs[1:] {
		w, ok := window.Intersect(req.Type.DailyAvailability())
		if !ok {
			return timespan.Window{}, false, fmt.Errorf("task %d: availability of required types is disjoint: %w", task.ID(), ErrNoFeasibleSlot)
		}
		window = w
	}
	if task.Duration() > window.Length() {
		return timespan.Window{}, false, fmt.Errorf("task %d lasts longer than the %s window: %w", task.ID(), window, ErrNoFeasibleSlot)
	}
	return window, true, nil
}

func (p *Planner) resourcesFree(task *domain.Task, span timespan.Span) bool {
	for _, req := range task.Requirements() {
		if len(p.ResourcesOfTypeAvailableFor(req.Type, task, span)) < req.Quantity {
			return false
		}
	}
	return true
}
