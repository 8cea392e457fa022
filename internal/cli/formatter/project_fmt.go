package formatter

import (
	"fmt"

	"github.com/alexanderramin/taskman/internal/domain"
)

// FormatProjectList renders projects with their status, due time and the
// delay of the current estimate inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"#", "NAME", "STATUS", "FINISHING", "DUE", "ESTIMATE", "DELAY"}
	rows := make([][]string, 0, len(projects))

	for i, p := range projects {
		delay := Dim("--")
		if d := p.CurrentDelay(); d > 0 {
			delay = StyleRed.Render(FormatDuration(d))
		}
		rows = append(rows, []string{
			Dim(fmt.Sprint(i)),
			Bold(p.Name()),
			ProjectStatusPill(p.Status()),
			FinishingIndicator(p.FinishingStatus()),
			FormatTime(p.DueTime()),
			FormatTime(p.EstimatedFinishTime()),
			delay,
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}
