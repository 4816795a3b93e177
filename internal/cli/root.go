package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/hobbytrack/internal/config"
	"github.com/sadopc/hobbytrack/internal/tui"
	"github.com/spf13/cobra"
)

func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var app *appContext
	defer func() {
		if app != nil {
			app.Close()
		}
	}()

	root := newRootCmd(&app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

// newRootCmd builds the command tree. *app is set before any command runs.
func newRootCmd(app **appContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "hobbytrack",
		Short: "Track time spent on hobbies",
		Long: `hobbytrack logs minutes spent on music, sport, art, reading, games and
other hobbies on a monthly 5x7 calendar grid, with goals and tasks per category.

Run without a subcommand to open the terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			*app, err = newAppContext(cfg)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(*app)
		},
	}

	root.AddCommand(
		newSummaryCmd(app),
		newExportCmd(app),
		newLogCmd(app),
		newPurgeCmd(app),
	)
	return root
}

func runTUI(app *appContext) error {
	model := tui.NewApp(tui.Deps{
		Store:   app.store,
		Book:    app.book,
		Account: app.account,
		Logger:  app.logger,
		Theme:   app.cfg.Theme,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		app.logger.Error("tui exited", "error", err)
		return err
	}
	return nil
}
