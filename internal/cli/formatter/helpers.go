package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/timespan"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	content = strings.TrimRight(content, "\n")
	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatDuration renders whole minutes as "1h 30m", "2h" or "45m".
func FormatDuration(d time.Duration) string {
	mins := int(d / time.Minute)
	if mins <= 0 {
		return "0m"
	}
	h, m := mins/60, mins%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// FormatTime renders t in the scenario layout, or "--" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return Dim("--")
	}
	return t.Format(timespan.Layout)
}

func FormatDeviation(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// TaskRef renders "#id description".
func TaskRef(t *domain.Task) string {
	if t == nil {
		return Dim("--")
	}
	return fmt.Sprintf("#%d %s", t.ID(), t.Description())
}

func taskIDs(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Dim("--")
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = fmt.Sprintf("#%d", t.ID())
	}
	return strings.Join(ids, ", ")
}

func names[T fmt.Stringer](items []T) string {
	if len(items) == 0 {
		return Dim("--")
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String()
	}
	return strings.Join(out, ", ")
}
