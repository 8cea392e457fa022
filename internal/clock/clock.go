// Package clock provides the simulated company time.
package clock

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/taskman/internal/timespan"
)

// ErrTimeRegression is returned when asked to move time backwards.
var ErrTimeRegression = errors.New("time can only move forward")

// Listener is notified after every time advance.
type Listener interface {
	HandleTimeChange(now time.Time)
}

// Clock holds the logical "now". It only moves when Advance is called.
type Clock struct {
	now       time.Time
	listeners []Listener

	saved *snapshot
}

func New(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	return c.now
}

// Register adds l to the end of the notification list.
func (c *Clock) Register(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Unregister removes l. Unknown listeners are ignored.
func (c *Clock) Unregister(l Listener) {
	c.listeners = slices.DeleteFunc(c.listeners, func(x Listener) bool { return x == l })
}

// Advance moves the clock to t and notifies listeners in registration order.
// Moving to the current time is allowed and still notifies.
func (c *Clock) Advance(t time.Time) error {
	if t.Before(c.now) {
		return fmt.Errorf("advance to %s from %s: %w", t.Format(timespan.Layout), c.now.Format(timespan.Layout), ErrTimeRegression)
	}
	c.now = t
	for _, l := range c.listeners {
		l.HandleTimeChange(t)
	}
	return nil
}

type snapshot struct {
	now       time.Time
	listeners []Listener
}

// Save captures the time and listener list.
func (c *Clock) Save() {
	c.saved = &snapshot{now: c.now, listeners: slices.Clone(c.listeners)}
}

// Load restores the captured time and listeners without notifying them.
func (c *Clock) Load() bool {
	if c.saved == nil {
		return false
	}
	c.now = c.saved.now
	c.listeners = slices.Clone(c.saved.listeners)
	return true
}
