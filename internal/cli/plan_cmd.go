package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/taskman/internal/cli/formatter"
	"github.com/alexanderramin/taskman/internal/company"
	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/planner"
	"github.com/spf13/cobra"
)

func newStartTimesCmd(app *App) *cobra.Command {
	var taskID int
	var devNames []string

	cmd := &cobra.Command{
		Use:   "start-times",
		Short: "Propose start times for a task",
		Long: `Propose the earliest start times at which the task's required resources
are free. Without --dev any single developer must be free; with --dev every
named developer must be.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := app.task(taskID)
			if err != nil {
				return err
			}
			devs, err := app.developers(devNames)
			if err != nil {
				return err
			}
			times, err := app.company.PossibleStartTimes(task, devs)
			if err != nil && len(times) == 0 {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStartTimes(task, times))
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim(err.Error()))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&taskID, "task", "t", 0, "Task ID")
	cmd.Flags().StringSliceVarP(&devNames, "dev", "d", nil, "Developer name (repeatable)")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func newPlanCmd(app *App) *cobra.Command {
	var (
		taskID   int
		start    timeFlag
		devNames []string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a task",
		Long: `Plan a task for the given developers at the given start time, reserving
the first free instances of every required resource type.

Without --start the earliest possible start time is used; without --dev the
first developer free at that time is assigned. On a terminal the missing
values are asked for instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() && (taskID == 0 || !start.set || len(devNames) == 0) {
				if err := runPlanForm(cmd, app, &taskID, &start, &devNames); err != nil {
					return err
				}
			}

			task, err := app.task(taskID)
			if err != nil {
				return err
			}
			devs, err := app.developers(devNames)
			if err != nil {
				return err
			}
			if !start.set {
				times, err := app.company.PossibleStartTimes(task, devs)
				if len(times) == 0 {
					return err
				}
				start.t, start.set = times[0], true
			}
			if len(devs) == 0 {
				free, err := app.company.AvailableDevelopers(task, start.t)
				if err != nil {
					return err
				}
				if len(free) == 0 {
					return fmt.Errorf("no developer is free at %s: %w", start.String(), planner.ErrDeveloperConflict)
				}
				devs = free[:1]
			}

			pl, err := app.company.Plan(cmd.Context(), company.PlanRequest{
				Task:       task,
				Start:      start.t,
				Developers: devs,
			})
			if err != nil {
				return explainPlanError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanning(pl))
			return nil
		},
	}

	cmd.Flags().IntVarP(&taskID, "task", "t", 0, "Task ID")
	cmd.Flags().Var(&start, "start", "Planned start time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringSliceVarP(&devNames, "dev", "d", nil, "Developer name (repeatable)")
	return cmd
}

// explainPlanError adds a hint for the planning failures a user can act on.
func explainPlanError(err error) error {
	switch {
	case errors.Is(err, planner.ErrAlreadyPlanned):
		return fmt.Errorf("%w (see 'taskman unplanned')", err)
	case errors.Is(err, planner.ErrResourceQuantity), errors.Is(err, planner.ErrOutsideAvailability):
		return fmt.Errorf("%w (see 'taskman start-times')", err)
	case errors.Is(err, domain.ErrInvalidTimeSpan):
		return fmt.Errorf("%w: check --start", err)
	default:
		return err
	}
}
