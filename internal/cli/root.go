// Package cli is the planboard command line. Without a subcommand it opens
// the terminal UI; subcommands script the same project operations.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// TUIRunner runs the interactive interface over an opened session
type TUIRunner func(ctx context.Context, sess *Session) error

// NewRootCmd builds the command tree. runTUI is called when no subcommand
// is given.
func NewRootCmd(runTUI TUIRunner) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:     "planboard",
		Version: Version,
		Short:   "A terminal planner for tasks, events, milestones, time, bugs, goals and ideas",
		Long: `Planboard keeps one project of tasks, calendar events, milestones,
time entries, bugs, goals, ideas and collaboration invites. Every change
is saved immediately and can be undone.

Run without a command to open the interactive board.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(sess *Session) error {
				if runTUI == nil {
					return errors.New("interactive mode is not available")
				}
				return runTUI(cmd.Context(), sess)
			})
		},
	}
	root.SetVersionTemplate("planboard {{.Version}} (commit: " + Commit + ", built: " + Date + ")\n")

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/planboard/config.yaml)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory holding the project database")
	pf.StringVar(&flags.backend, "backend", "", "storage backend: sqlite or badger")

	root.AddCommand(
		newExportCmd(&flags),
		newImportCmd(&flags),
		newNewCmd(&flags),
		newStatusCmd(&flags),
		newAddCmd(&flags),
		newHoursCmd(&flags),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and prints mapped errors with their hints
// to stderr. The returned error carries the exit code, see ExitCode.
func Execute(ctx context.Context, runTUI TUIRunner, args []string, stderr io.Writer) error {
	root := NewRootCmd(runTUI)
	root.SetArgs(args)
	err := MapError(root.ExecuteContext(ctx))
	if err != nil {
		printError(stderr, err)
	}
	return err
}

func printError(w io.Writer, err error) {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		fmt.Fprintf(w, "Error: %s\n", cliErr.Error())
		if cliErr.Hint != "" {
			fmt.Fprintf(w, "Hint: %s\n", cliErr.Hint)
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// withSession opens the project for the duration of fn
func withSession(cmd *cobra.Command, flags globalFlags, fn func(*Session) error) error {
	sess, err := openSession(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(sess)
}
