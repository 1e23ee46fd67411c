package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"productivity-assistant/internal/tasks"
	"productivity-assistant/internal/ui"
)

func newTasksCmd(s *state) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Show open tasks grouped by priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := s.session(cmd.Context())
			if err != nil {
				return err
			}
			store := sess.Assistant().Tasks()
			out := cmd.OutOrStdout()

			if !all {
				fmt.Fprintln(out, ui.Board(store.Board(), store.Rand()))
				return nil
			}
			fmt.Fprintln(out, ui.Heading(ui.IconTask, "All tasks"))
			for _, t := range store.List() {
				fmt.Fprintln(out, ui.TaskLine(t, ""))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every task in store order, completed included")
	return cmd
}

func newCompleteCmd(s *state) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task done (full id or the short id shown in listings)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("task id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := s.session(cmd.Context())
			if err != nil {
				return err
			}
			a := sess.Assistant()
			id, err := resolveID(a.Tasks().List(), args[0])
			if err != nil {
				return err
			}

			res, err := a.RecordCompletion(cmd.Context(), id, !undo)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.TaskLine(res.Task, ""))
			if res.Changed && !undo {
				fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("%s %d done today", ui.IconDone, res.Context.CompletedToday)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task as not done")
	return cmd
}

// resolveID accepts a full task id or a unique suffix of one.
func resolveID(list []tasks.Task, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("task id is required")
	}
	var match string
	for _, t := range list {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasSuffix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("task id %q is ambiguous", ref)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", tasks.ErrTaskNotFound, ref)
	}
	return match, nil
}

func newStatsCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show today's numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := s.session(cmd.Context())
			if err != nil {
				return err
			}
			a := sess.Assistant()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Stats(a.Stats()))
			fmt.Fprintln(out, ui.Muted.Render(ui.IconBulb+" "+a.Insight()))
			return nil
		},
	}
}

