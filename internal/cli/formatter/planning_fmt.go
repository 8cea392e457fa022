package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/planner"
)

// FormatPlanning renders a single planning as a key/value card.
func FormatPlanning(pl *planner.Planning) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Task      "), TaskRef(pl.Task()))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Span      "), pl.Span())
	fmt.Fprintf(&b, "%s  %s\n", Dim("Developers"), names(pl.Developers()))
	fmt.Fprintf(&b, "%s  %s", Dim("Resources "), names(pl.Resources()))
	return RenderBox("Planning", b.String())
}

// FormatPlanningList renders plannings ordered as given.
func FormatPlanningList(title string, plannings []*planner.Planning) string {
	headers := []string{"TASK", "STATUS", "SPAN", "DEVELOPERS", "RESOURCES"}
	rows := make([][]string, 0, len(plannings))
	for _, pl := range plannings {
		rows = append(rows, []string{
			TaskRef(pl.Task()),
			TaskStatusPill(pl.Task().Status()),
			pl.Span().String(),
			names(pl.Developers()),
			names(pl.Resources()),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatStartTimes lists candidate start times for task.
func FormatStartTimes(task *domain.Task, times []time.Time) string {
	var b strings.Builder
	b.WriteString(Bold(TaskRef(task)))
	b.WriteString(Dim("  " + FormatDuration(task.Duration())))
	b.WriteString("\n\n")
	if len(times) == 0 {
		b.WriteString(Dim("no feasible start time"))
	}
	for i, t := range times {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s", StyleHeader.Render(fmt.Sprintf("%d.", i+1)), FormatTime(t))
	}
	return RenderBox("Start times", b.String())
}
