package root

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"productivity-assistant/internal/assistant"
	"productivity-assistant/internal/ui"
)

var exitWords = []string{"exit", "quit", "/q"}

func newChatCmd(s *state) *cobra.Command {
	var quick string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the assistant (interactive without a message)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := s.session(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if quick != "" {
				msg, ok := assistant.QuickActionMessage(quick)
				if !ok {
					return fmt.Errorf("unknown quick action %q", quick)
				}
				return send(cmd, sess, msg)
			}
			if len(args) > 0 {
				return send(cmd, sess, strings.Join(args, " "))
			}

			fmt.Fprintln(out, ui.Heading(ui.IconAssistant, "Productivity assistant"))
			fmt.Fprintln(out, ui.Muted.Render("Type a message, or 'exit' to leave."))

			sc := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, ui.Key.Render("> "))
				if !sc.Scan() {
					fmt.Fprintln(out)
					return sc.Err()
				}
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				if isExit(line) {
					return nil
				}
				if err := send(cmd, sess, line); err != nil {
					return err
				}
			}
		},
	}

	cmd.Flags().StringVarP(&quick, "quick", "q", "", "Run a quick action (add-task|prioritize|schedule|insights)")
	return cmd
}

func send(cmd *cobra.Command, sess *assistant.Session, msg string) error {
	reply, err := sess.TryProcess(cmd.Context(), msg)
	if errors.Is(err, assistant.ErrBusy) {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+" still working on the previous message"))
		return nil
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Reply(reply.Text, reply.Fallback))
	if reply.Task != nil {
		fmt.Fprintln(out, ui.TaskLine(*reply.Task, ""))
	}
	if reply.Note != "" {
		fmt.Fprintln(out, ui.Muted.Render(ui.IconBulb+" "+reply.Note))
	}
	return nil
}

func isExit(line string) bool {
	for _, w := range exitWords {
		if strings.EqualFold(line, w) {
			return true
		}
	}
	return false
}
