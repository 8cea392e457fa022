package timespan

import "time"

// WorkDay measures time in working hours: a daily window on Monday to Friday.
type WorkDay struct {
	Window Window
}

// DefaultWorkDay is open from 08:00 to 16:00 on weekdays.
var DefaultWorkDay = WorkDay{Window: Window{Start: 8 * time.Hour, End: 16 * time.Hour}}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextWorking returns t if it falls in working hours, otherwise the start of
// the next working period.
func (w WorkDay) NextWorking(t time.Time) time.Time {
	for {
		if isWeekend(t) {
			t = w.Window.On(t.AddDate(0, 0, 1)).Begin
			continue
		}
		open := w.Window.On(t)
		if t.Before(open.Begin) {
			return open.Begin
		}
		if t.Before(open.End) {
			return t
		}
		t = w.Window.On(open.Begin.AddDate(0, 0, 1)).Begin
	}
}

// Add advances t by d working time. A result landing exactly on the end of a
// working period stays there rather than rolling to the next morning.
func (w WorkDay) Add(t time.Time, d time.Duration) time.Time {
	if d <= 0 {
		return t
	}
	t = w.NextWorking(t)
	for {
		end := w.Window.On(t).End
		left := end.Sub(t)
		if d <= left {
			return t.Add(d)
		}
		d -= left
		t = w.NextWorking(end)
	}
}

// Between returns the working time elapsed from a to b. It is zero when b is
// not after a.
func (w WorkDay) Between(a, b time.Time) time.Duration {
	if !b.After(a) {
		return 0
	}
	var total time.Duration
	t := w.NextWorking(a)
	for t.Before(b) {
		end := w.Window.On(t).End
		if b.Before(end) {
			end = b
		}
		total += end.Sub(t)
		t = w.NextWorking(w.Window.On(t).End)
	}
	return total
}
