package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tgienger/planboard/internal/models"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the project to a JSON file",
		Long: `Write the project to a JSON file.

Without a file name the export lands in the configured export directory as
project-YYYY-MM-DD-HH-mm-ss.json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, *flags, func(sess *Session) error {
				if len(args) == 1 {
					if err := sess.Service.Export(args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
					return nil
				}
				path, err := sess.Service.Save(cmd.Context(), sess.Config.ExportPath())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
				return nil
			})
		},
	}
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the project with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, *flags, func(sess *Session) error {
				if err := sess.Service.LoadFile(cmd.Context(), args[0]); err != nil {
					return err
				}
				snap := sess.Service.Snapshot()
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d tasks, %d events, %d bugs)\n",
					filepath.Base(args[0]), len(snap.Tasks), len(snap.Events), len(snap.Bugs))
				return nil
			})
		},
	}
}

func newNewCmd(flags *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new, empty project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewCLIError("refusing to clear the project", "Pass --yes to confirm", nil)
			}
			return withSession(cmd, *flags, func(sess *Session) error {
				if err := sess.Service.NewProject(cmd.Context(), true); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Started a new project")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing every collection")
	return cmd
}

// statusJSONOutput is the --json form of the status command
type statusJSONOutput struct {
	Tasks          int     `json:"tasks"`
	TasksDone      int     `json:"tasks_done"`
	SubTasks       int     `json:"sub_tasks"`
	Events         int     `json:"events"`
	Milestones     int     `json:"milestones"`
	TimeEntries    int     `json:"time_entries"`
	Hours          float64 `json:"hours"`
	Bugs           int     `json:"bugs"`
	BugsOpen       int     `json:"bugs_open"`
	Goals          int     `json:"goals"`
	Ideas          int     `json:"ideas"`
	Collaborations int     `json:"collaboration_invites"`
}

func summarize(snap models.Snapshot) statusJSONOutput {
	out := statusJSONOutput{
		Tasks:          len(snap.Tasks),
		Events:         len(snap.Events),
		Milestones:     len(snap.Milestones),
		TimeEntries:    len(snap.TimeEntries),
		Bugs:           len(snap.Bugs),
		Goals:          len(snap.Goals),
		Ideas:          len(snap.Ideas),
		Collaborations: len(snap.CollaborationInvites),
	}
	for _, t := range snap.Tasks {
		if t.Completed {
			out.TasksDone++
		}
		out.SubTasks += len(t.SubTasks)
	}
	for _, te := range snap.TimeEntries {
		out.Hours += te.Duration
	}
	for _, b := range snap.Bugs {
		if b.Status != models.BugClosed {
			out.BugsOpen++
		}
	}
	return out
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a summary of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, *flags, func(sess *Session) error {
				out := summarize(sess.Service.Snapshot())
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(out)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Tasks\t%d\t(%d done, %d sub-tasks)\n", out.Tasks, out.TasksDone, out.SubTasks)
				fmt.Fprintf(w, "Events\t%d\t\n", out.Events)
				fmt.Fprintf(w, "Milestones\t%d\t\n", out.Milestones)
				fmt.Fprintf(w, "Time entries\t%d\t(%.1fh)\n", out.TimeEntries, out.Hours)
				fmt.Fprintf(w, "Bugs\t%d\t(%d not closed)\n", out.Bugs, out.BugsOpen)
				fmt.Fprintf(w, "Goals\t%d\t\n", out.Goals)
				fmt.Fprintf(w, "Ideas\t%d\t\n", out.Ideas)
				fmt.Fprintf(w, "Invites\t%d\t\n", out.Collaborations)
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

func newAddCmd(flags *globalFlags) *cobra.Command {
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the project",
	}

	var desc string
	task := &cobra.Command{
		Use:   "task <text>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, *flags, func(sess *Session) error {
				t, err := sess.Service.AddTask(cmd.Context(), args[0], desc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", t.ID, t.Text)
				return nil
			})
		},
	}
	task.Flags().StringVarP(&desc, "description", "d", "", "task description")

	add.AddCommand(task)
	return add
}

func newHoursCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "hours",
		Short: "Show logged hours per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, *flags, func(sess *Session) error {
				days := sess.Service.HoursByDate()
				if len(days) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No time logged")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				var total float64
				for _, d := range days {
					fmt.Fprintf(w, "%s\t%.2f\n", d.Date, d.Hours)
					total += d.Hours
				}
				fmt.Fprintf(w, "total\t%.2f\n", total)
				return w.Flush()
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planboard %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}
