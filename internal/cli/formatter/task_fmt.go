package formatter

import (
	"fmt"

	"github.com/alexanderramin/taskman/internal/domain"
)

// FormatTaskList renders tasks in a bordered box titled title.
func FormatTaskList(title string, tasks []*domain.Task) string {
	headers := []string{"ID", "DESCRIPTION", "PROJECT", "STATUS", "DURATION", "DEV", "DEPENDS ON", "REPLACES", "FINISH"}
	rows := make([][]string, 0, len(tasks))

	for _, t := range tasks {
		replaces := Dim("--")
		if orig := t.AlternativeFor(); orig != nil {
			replaces = fmt.Sprintf("#%d", orig.ID())
		}
		finish := Dim("--")
		if fs, err := t.FinishStatus(); err == nil {
			finish = FinishStatusIndicator(fs)
		}
		project := Dim("--")
		if p := t.Project(); p != nil {
			project = p.Name()
		}
		rows = append(rows, []string{
			Dim(fmt.Sprintf("#%d", t.ID())),
			Bold(t.Description()),
			project,
			TaskStatusPill(t.Status()),
			FormatDuration(t.Duration()),
			FormatDeviation(t.AcceptableDeviation()),
			taskIDs(t.Dependencies()),
			replaces,
			finish,
		})
	}

	return RenderBox(title, RenderTable(headers, rows))
}
