package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskman/internal/cli/formatter"
	"github.com/alexanderramin/taskman/internal/company"
	"github.com/alexanderramin/taskman/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newSimulateCmd(app *App) *cobra.Command {
	var step time.Duration

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Step the company clock interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newSimulateModel(cmd.Context(), app.company, step)
			_, err := tea.NewProgram(m,
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			).Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&step, "step", time.Hour, "Clock increment for the step key")
	return cmd
}

type simulateKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Step   key.Binding
	Day    key.Binding
	Start  key.Binding
	Finish key.Binding
	Fail   key.Binding
	Save   key.Binding
	Undo   key.Binding
	Quit   key.Binding
}

func newSimulateKeyMap() simulateKeyMap {
	return simulateKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Step:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "step")),
		Day:    key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "next day")),
		Start:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "start")),
		Finish: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Fail:   key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "fail")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k simulateKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.Day, k.Start, k.Finish, k.Save, k.Undo, k.Quit}
}

func (k simulateKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Step, k.Day},
		{k.Start, k.Finish, k.Fail},
		{k.Save, k.Undo, k.Quit},
	}
}

// simulateModel drives a company by hand: it moves the clock, starts and
// completes the selected task, and saves or undoes the whole company.
type simulateModel struct {
	ctx     context.Context
	company *company.Company
	step    time.Duration
	keys    simulateKeyMap
	help    help.Model

	cursor  int
	message string
	isError bool
}

func newSimulateModel(ctx context.Context, c *company.Company, step time.Duration) simulateModel {
	if step <= 0 {
		step = time.Hour
	}
	return simulateModel{ctx: ctx, company: c, step: step, keys: newSimulateKeyMap(), help: help.New()}
}

func (m simulateModel) Init() tea.Cmd { return nil }

func (m simulateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m simulateModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.company.Tasks()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Step):
		m.report(m.company.AdvanceTime(m.ctx, m.company.Now().Add(m.step)), "advanced "+formatter.FormatDuration(m.step))
	case key.Matches(msg, m.keys.Day):
		m.report(m.company.AdvanceTime(m.ctx, m.company.Now().AddDate(0, 0, 1)), "advanced one day")
	case key.Matches(msg, m.keys.Save):
		m.company.Save(m.ctx)
		m.report(nil, "saved")
	case key.Matches(msg, m.keys.Undo):
		if m.company.Undo(m.ctx) {
			m.report(nil, "restored last save")
		} else {
			m.report(nil, "nothing saved yet")
		}
		m.cursor = min(m.cursor, max(len(m.company.Tasks())-1, 0))
	case key.Matches(msg, m.keys.Start, m.keys.Finish, m.keys.Fail):
		if m.cursor >= len(tasks) {
			return m, nil
		}
		m.act(msg, tasks[m.cursor])
	}
	return m, nil
}

func (m *simulateModel) act(msg tea.KeyMsg, task *domain.Task) {
	ref := fmt.Sprintf("#%d", task.ID())
	switch {
	case key.Matches(msg, m.keys.Start):
		m.report(m.company.StartExecution(m.ctx, task), "started "+ref)
	case key.Matches(msg, m.keys.Finish):
		m.report(m.company.Finish(m.ctx, task, m.company.Now()), "finished "+ref)
	default:
		m.report(m.company.Fail(m.ctx, task, m.company.Now()), "failed "+ref)
	}
}

func (m *simulateModel) report(err error, ok string) {
	if err != nil {
		m.message, m.isError = err.Error(), true
		return
	}
	m.message, m.isError = ok, false
}

func (m simulateModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("TaskMan " + formatter.FormatTime(m.company.Now())))
	b.WriteString("\n\n")
	b.WriteString(formatter.FormatProjectList(m.company.Projects()))
	b.WriteString("\n")

	tasks := m.company.Tasks()
	for i, t := range tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleHeader.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n", cursor, formatter.Dim(fmt.Sprintf("#%d", t.ID())),
			t.Description(), formatter.TaskStatusPill(t.Status()))
	}

	if m.message != "" {
		b.WriteString("\n")
		if m.isError {
			b.WriteString(formatter.StyleRed.Render(m.message))
		} else {
			b.WriteString(formatter.StyleGreen.Render(m.message))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
