package staff

import (
	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/pkg/sdk"
)

// StaffCmd groups the commands available to door staff.
var StaffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Door staff operations",
	Long:  `Commands for event staff. Requires a session with the STAFF role.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		return cfg.ClientProvider.RequireRole(sdk.RoleStaff)
	},
}

func init() {
	StaffCmd.AddCommand(validateCmd)
}
