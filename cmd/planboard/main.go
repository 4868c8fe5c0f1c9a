package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/tgienger/planboard/internal/cli"
	"github.com/tgienger/planboard/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version, cli.Commit, cli.Date = version, commit, date

	// Optional; PLANBOARD_* variables may also come from the environment
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, runTUI, os.Args[1:], os.Stderr)
	stop()
	os.Exit(cli.ExitCode(err))
}

// runTUI runs the board until the user quits
func runTUI(ctx context.Context, sess *cli.Session) error {
	app := ui.NewApp(ctx, sess.Service, ui.Options{
		ExportDir: sess.Config.ExportPath(),
		Settings:  sess.Settings,
		Logger:    sess.Logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	// Store changes re-render the board
	cancel := app.Bind(p.Send)
	defer cancel()

	_, err := p.Run()
	return err
}
