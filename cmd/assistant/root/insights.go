package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"productivity-assistant/internal/ui"
)

func newInsightsCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Ask for an analysis of your productivity patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := s.session(cmd.Context())
			if err != nil {
				return err
			}
			text := sess.Assistant().AnalyzeProductivityPatterns(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconChart, "Insights"))
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newScheduleCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Suggest a schedule for the open tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := s.session(cmd.Context())
			if err != nil {
				return err
			}
			text := sess.Assistant().SuggestOptimalSchedule(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconClock, "Schedule"))
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
