package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"productivity-assistant/internal/auth"
)

func newTokenCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a bearer token for the HTTP API",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("user id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.cfg.Server.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			tok, err := auth.GenerateToken([]byte(s.cfg.Server.JWTSecret), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
}
