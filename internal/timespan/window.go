package timespan

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned for daily windows that are empty or exceed a day.
var ErrInvalidWindow = errors.New("invalid daily window")

const day = 24 * time.Hour

// Window is a daily time-of-day interval, expressed as offsets from midnight.
// The window is half-open: [Start, End).
type Window struct {
	Start time.Duration
	End   time.Duration
}

// NewWindow validates 0 <= start < end <= 24h.
func NewWindow(start, end time.Duration) (Window, error) {
	if start < 0 || end > day || end <= start {
		return Window{}, fmt.Errorf("%w: %s-%s", ErrInvalidWindow, clockString(start), clockString(end))
	}
	return Window{Start: start, End: end}, nil
}

// ParseWindow parses "HH:MM" bounds into a Window.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(s, e)
}

// ParseClock parses "HH:MM" into an offset from midnight. "24:00" is accepted.
func ParseClock(value string) (time.Duration, error) {
	var h, m int
	if _, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: %q (expected HH:MM)", ErrInvalidWindow, value)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidWindow, value)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// Length is the amount of time the window is open each day.
func (w Window) Length() time.Duration {
	return w.End - w.Start
}

// On returns the concrete span of the window on the calendar day of t.
func (w Window) On(t time.Time) Span {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Span{Begin: midnight.Add(w.Start), End: midnight.Add(w.End)}
}

// Fits reports whether s lies entirely inside the window on the day s begins.
func (w Window) Fits(s Span) bool {
	open := w.On(s.Begin)
	return !s.Begin.Before(open.Begin) && !s.End.After(open.End)
}

// EarliestFit returns the earliest instant >= t at which a span of length d
// fits inside the window. It fails when d is longer than the window.
func (w Window) EarliestFit(t time.Time, d time.Duration) (time.Time, bool) {
	if d > w.Length() {
		return time.Time{}, false
	}
	open := w.On(t)
	if t.Before(open.Begin) {
		return open.Begin, true
	}
	if !t.Add(d).After(open.End) {
		return t, true
	}
	return w.On(open.Begin.AddDate(0, 0, 1)).Begin, true
}

// Intersect returns the window open in both w and o.
func (w Window) Intersect(o Window) (Window, bool) {
	start, end := w.Start, w.End
	if o.Start > start {
		start = o.Start
	}
	if o.End < end {
		end = o.End
	}
	if end <= start {
		return Window{}, false
	}
	return Window{Start: start, End: end}, true
}

func (w Window) String() string {
	return clockString(w.Start) + "-" + clockString(w.End)
}

func clockString(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}
