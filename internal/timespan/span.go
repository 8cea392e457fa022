package timespan

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSpan is returned when a span does not end strictly after it begins.
var ErrInvalidSpan = errors.New("span must end after it begins")

// Span is a half-open interval [Begin, End).
type Span struct {
	Begin time.Time
	End   time.Time
}

// New returns a Span after checking that end is strictly after begin.
func New(begin, end time.Time) (Span, error) {
	if !end.After(begin) {
		return Span{}, fmt.Errorf("%w: begin %s, end %s", ErrInvalidSpan,
			begin.Format(Layout), end.Format(Layout))
	}
	return Span{Begin: begin, End: end}, nil
}

// Starting returns the span of length d starting at begin. d must be positive.
func Starting(begin time.Time, d time.Duration) (Span, error) {
	return New(begin, begin.Add(d))
}

func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Begin)
}

// Overlaps reports whether the two spans share at least one instant.
// Touching spans (one ends where the other begins) do not overlap.
func (s Span) Overlaps(o Span) bool {
	return s.Begin.Before(o.End) && o.Begin.Before(s.End)
}

// Contains reports whether t lies in [Begin, End).
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Begin) && t.Before(s.End)
}

func (s Span) String() string {
	return s.Begin.Format(Layout) + " - " + s.End.Format(Layout)
}

// Layout is the timestamp format used by scenario files and CLI output.
const Layout = "2006-01-02 15:04"

// Parse parses a Layout timestamp in UTC.
func Parse(value string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected YYYY-MM-DD HH:MM): %w", value, err)
	}
	return t, nil
}
