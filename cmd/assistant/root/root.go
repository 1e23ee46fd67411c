// Package root holds the assistant CLI commands.
package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"productivity-assistant/internal/app"
	"productivity-assistant/internal/assistant"
	"productivity-assistant/internal/config"
	"productivity-assistant/internal/logging"
	"productivity-assistant/internal/ui"
)

const localUser = "local"

// state is shared by the commands of one invocation.
type state struct {
	configPath string
	verbose    bool
	userID     string

	cfg *config.Config
	log *zap.Logger
	app *app.App
}

// session opens storage and the completion backend on first use; commands
// like token never need them.
func (s *state) session(ctx context.Context) (*assistant.Session, error) {
	if s.app == nil {
		a, err := app.New(ctx, s.cfg, s.log)
		if err != nil {
			return nil, err
		}
		s.app = a
	}
	return s.app.Sessions.Session(ctx, s.userID), nil
}

func (s *state) close() {
	if s.app != nil {
		if err := s.app.Close(); err != nil {
			s.log.Error("close app", zap.Error(err))
		}
		s.app = nil
	}
	if s.log != nil {
		_ = s.log.Sync()
	}
}

func newRootCmd() (*cobra.Command, *state) {
	s := &state{}

	cmd := &cobra.Command{
		Use:           "assistant",
		Short:         "Conversational productivity assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(s.configPath)
			if err != nil {
				return err
			}
			s.cfg = cfg
			// Console logs go to stderr and stay quiet unless asked for.
			level := cfg.Logging.Level
			if !s.verbose {
				level = "warn"
			}
			s.log, err = logging.New(level, cfg.Logging.JSON, s.verbose)
			return err
		},
	}

	cmd.PersistentFlags().StringVarP(&s.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&s.userID, "user", "u", localUser, "Session owner; matches the HTTP token's user_id")

	cmd.AddCommand(
		newChatCmd(s),
		newTasksCmd(s),
		newCompleteCmd(s),
		newInsightsCmd(s),
		newScheduleCmd(s),
		newStatsCmd(s),
		newTokenCmd(s),
	)
	return cmd, s
}

func Execute() {
	cmd, s := newRootCmd()
	err := cmd.Execute()
	s.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
