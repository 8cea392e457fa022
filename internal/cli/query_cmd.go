package cli

import (
	"fmt"

	"github.com/alexanderramin/taskman/internal/cli/formatter"
	"github.com/alexanderramin/taskman/internal/planner"
	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects with their status and delay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(app.company.Projects()))
			return nil
		},
	}
}

func newTasksCmd(app *App) *cobra.Command {
	var project int

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks of every project or of one project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, tasks := "Tasks", app.company.Tasks()
			if cmd.Flags().Changed("project") {
				p, ok := app.company.Project(project)
				if !ok {
					return fmt.Errorf("project %d not found", project)
				}
				title, tasks = "Tasks of "+p.Name(), p.Tasks()
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(title, tasks))
			return nil
		},
	}

	cmd.Flags().IntVarP(&project, "project", "p", 0, "Project index as listed by 'projects'")
	return cmd
}

func newUnplannedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unplanned",
		Short: "List tasks without a planning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList("Unplanned", app.company.UnplannedTasks()))
			return nil
		},
	}
}

func newDeveloperCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "developer NAME",
		Short: "Show the plannings assigned to a developer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			devs, err := app.developers(args)
			if err != nil {
				return err
			}
			var plannings []*planner.Planning
			for _, t := range app.company.TasksOf(devs[0]) {
				if pl, ok := app.company.Planning(t); ok {
					plannings = append(plannings, pl)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanningList(devs[0].Name(), plannings))
			return nil
		},
	}
}
