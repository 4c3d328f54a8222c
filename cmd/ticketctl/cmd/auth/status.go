package auth

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the signed-in principal and roles",
	Long: `Shows who the stored token says you are. The token is decoded locally
and not verified; the server has the final word on every request.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		ids, err := cfg.ClientProvider.Identity()
		if err != nil {
			return err
		}
		principal, ok := ids.CurrentPrincipal()
		if !ok {
			return errors.New("not logged in; run `ticketctl auth login`")
		}
		return output.Render(cmd.OutOrStdout(), cfg.Output, principal, output.PrincipalDetail(principal))
	},
}
