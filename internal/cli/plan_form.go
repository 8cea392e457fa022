package cli

import (
	"fmt"

	"github.com/alexanderramin/taskman/internal/cli/formatter"
	"github.com/alexanderramin/taskman/internal/timespan"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func taskmanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// runPlanForm asks for whichever of task, start and developers is missing.
// The task is chosen first since the start times depend on it.
func runPlanForm(cmd *cobra.Command, app *App, taskID *int, start *timeFlag, devNames *[]string) error {
	if *taskID == 0 {
		if err := runForm(cmd, huh.NewGroup(taskSelect(app, taskID))); err != nil {
			return err
		}
	}
	task, err := app.task(*taskID)
	if err != nil {
		return err
	}

	var fields []huh.Field
	var picked string
	if !start.set {
		devs, err := app.developers(*devNames)
		if err != nil {
			return err
		}
		times, err := app.company.PossibleStartTimes(task, devs)
		if len(times) == 0 {
			return err
		}
		opts := make([]huh.Option[string], len(times))
		for i, t := range times {
			s := t.Format(timespan.Layout)
			opts[i] = huh.NewOption(s, s)
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Start Time").
			Options(opts...).
			Value(&picked))
	}
	if len(*devNames) == 0 {
		var opts []huh.Option[string]
		for _, d := range app.company.Developers() {
			opts = append(opts, huh.NewOption(d.Name(), d.Name()))
		}
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Developers").
			Options(opts...).
			Value(devNames).
			Validate(func(v []string) error {
				if len(v) == 0 {
					return fmt.Errorf("pick at least one developer")
				}
				return nil
			}))
	}
	if len(fields) == 0 {
		return nil
	}
	if err := runForm(cmd, huh.NewGroup(fields...)); err != nil {
		return err
	}
	if picked != "" {
		return start.Set(picked)
	}
	return nil
}

func taskSelect(app *App, value *int) *huh.Select[int] {
	var opts []huh.Option[int]
	for _, t := range app.company.UnplannedTasks() {
		opts = append(opts, huh.NewOption(fmt.Sprintf("#%d %s (%s)", t.ID(), t.Description(), t.Status()), t.ID()))
	}
	return huh.NewSelect[int]().
		Title("Task").
		Options(opts...).
		Value(value)
}

func runForm(cmd *cobra.Command, group *huh.Group) error {
	return huh.NewForm(group).
		WithTheme(taskmanHuhTheme()).
		WithShowHelp(false).
		WithInput(cmd.InOrStdin()).
		WithOutput(cmd.OutOrStdout()).
		Run()
}
