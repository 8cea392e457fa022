package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskman/internal/company"
	"github.com/alexanderramin/taskman/internal/config"
	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/alexanderramin/taskman/internal/importer"
	"github.com/alexanderramin/taskman/internal/timespan"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errNoScenario = errors.New("no scenario file: pass --file or set TASKMAN_SCENARIO")

// App holds what every command needs. The company is loaded from the
// scenario file before a command runs.
type App struct {
	Config    config.Config
	Observers []company.UseCaseObserver

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool

	company *company.Company
	file    string
	at      timeFlag
}

// NewRootCmd creates the top-level "taskman" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskman",
		Short:         "Task scheduling and constraint engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&app.file, "file", "f", app.Config.Scenario, "Scenario YAML file")
	root.PersistentFlags().Var(&app.at, "at", "Advance the clock to this time before running (YYYY-MM-DD HH:MM)")

	root.AddCommand(
		newProjectsCmd(app),
		newTasksCmd(app),
		newUnplannedCmd(app),
		newDeveloperCmd(app),
		newStartTimesCmd(app),
		newPlanCmd(app),
		newSimulateCmd(app),
	)

	return root
}

func (app *App) load(cmd *cobra.Command) error {
	if app.file == "" {
		return errNoScenario
	}
	ctx := cmd.Context()
	c, err := importer.Load(ctx, app.file, app.Config, app.Observers...)
	if err != nil {
		return err
	}
	if app.at.set {
		if err := c.AdvanceTime(ctx, app.at.t); err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}
	app.company = c
	return nil
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

func (app *App) task(id int) (*domain.Task, error) {
	if id <= 0 {
		return nil, fmt.Errorf("task ID is required")
	}
	t, ok := app.company.Task(id)
	if !ok {
		return nil, fmt.Errorf("task #%d not found", id)
	}
	return t, nil
}

func (app *App) developers(names []string) ([]*domain.Developer, error) {
	out := make([]*domain.Developer, 0, len(names))
	for _, name := range names {
		d, ok := app.company.Developer(name)
		if !ok {
			return nil, fmt.Errorf("developer %q not found", name)
		}
		out = append(out, d)
	}
	return out, nil
}

var _ pflag.Value = (*timeFlag)(nil)

// timeFlag holds a scenario-layout timestamp.
type timeFlag struct {
	t   time.Time
	set bool
}

func (f *timeFlag) String() string {
	if !f.set {
		return ""
	}
	return f.t.Format(timespan.Layout)
}

func (f *timeFlag) Set(value string) error {
	t, err := timespan.Parse(value)
	if err != nil {
		return err
	}
	f.t, f.set = t, true
	return nil
}

func (f *timeFlag) Type() string { return "time" }
