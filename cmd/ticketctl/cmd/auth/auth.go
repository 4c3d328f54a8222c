package auth

import (
	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/pkg/sdk"
)

// AuthCmd is the parent command for auth operations
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Commands for signing in, signing out and inspecting the current session.`,
}

func init() {
	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(statusCmd)
	AuthCmd.AddCommand(tokenCmd)
}

func identity(cmd *cobra.Command) (*sdk.IdentityStore, error) {
	cfg := config.MustFromContext(cmd.Context())
	return cfg.ClientProvider.Identity()
}
