package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the stored bearer token",
	Long:  `Prints the raw bearer token, for use with other tools (e.g. curl -H "Authorization: Bearer $(ticketctl auth token)").`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := identity(cmd)
		if err != nil {
			return err
		}
		credential, ok := ids.CurrentCredential()
		if !ok {
			return errors.New("not logged in; run `ticketctl auth login`")
		}
		fmt.Fprintln(cmd.OutOrStdout(), credential)
		return nil
	},
}
