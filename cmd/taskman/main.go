package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/taskman/internal/cli"
	"github.com/alexanderramin/taskman/internal/company"
	"github.com/alexanderramin/taskman/internal/config"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	app := &cli.App{Config: cfg}
	if cfg.LogUseCases {
		app.Observers = append(app.Observers, company.NewLogUseCaseObserver(os.Stderr))
	}

	// Prompts only make sense on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
