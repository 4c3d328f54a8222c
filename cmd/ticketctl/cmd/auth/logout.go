package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := identity(cmd)
		if err != nil {
			return err
		}
		if err := ids.Logout(); err != nil {
			return fmt.Errorf("failed to delete credentials: %w", err)
		}
		output.Success(cmd.ErrOrStderr(), "Logged out successfully")
		return nil
	},
}
