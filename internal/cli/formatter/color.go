package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TaskStatusColor returns the style used for a task status.
func TaskStatusColor(status domain.TaskStatus) lipgloss.Style {
	switch status {
	case domain.TaskAvailable:
		return StyleGreen
	case domain.TaskExecuting:
		return StyleBlue
	case domain.TaskFinished:
		return StyleDim
	case domain.TaskFailed:
		return StyleRed
	default:
		return StyleYellow
	}
}

// TaskStatusPill renders a task status with a leading glyph, e.g. "● AVAILABLE".
func TaskStatusPill(status domain.TaskStatus) string {
	glyph := "●"
	switch status {
	case domain.TaskUnavailable:
		glyph = "○"
	case domain.TaskFinished:
		glyph = "✔"
	case domain.TaskFailed:
		glyph = "✖"
	case domain.TaskExecuting:
		glyph = "▶"
	}
	return TaskStatusColor(status).Render(glyph + " " + string(status))
}

func ProjectStatusPill(status domain.ProjectStatus) string {
	if status == domain.ProjectFinished {
		return StyleDim.Render("✔ FINISHED")
	}
	return StyleGreen.Render("● ONGOING")
}

// FinishingIndicator colours a project's finishing status against its due time.
func FinishingIndicator(status domain.ProjectFinishingStatus) string {
	if status == domain.ProjectOverTime {
		return StyleRed.Render("▲ OVER TIME")
	}
	return StyleGreen.Render("● ON TIME")
}

// FinishStatusIndicator renders how a finished task compared to its estimate.
func FinishStatusIndicator(status domain.FinishStatus) string {
	switch status {
	case domain.FinishedEarly:
		return StyleBlue.Render("EARLY")
	case domain.FinishedOnTime:
		return StyleGreen.Render("ON TIME")
	case domain.FinishedWithDelay:
		return StyleYellow.Render("DELAYED")
	default:
		return Dim("--")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
