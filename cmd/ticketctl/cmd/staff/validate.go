package staff

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/args"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
	"github.com/devtiro/tickets/pkg/sdk"
)

var validateMethod string

var validateCmd = &cobra.Command{
	Use:   "validate TICKET_ID",
	Short: "Validate a presented ticket",
	Long: `Asks the server whether a ticket may be admitted. The ticket ID is what
the QR code encodes; use --method MANUAL when it was typed in.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		cfg := config.MustFromContext(cmd.Context())
		id, err := args.ID("ticket id", argv[0])
		if err != nil {
			return err
		}
		method, err := sdk.ParseValidationMethod(validateMethod)
		if err != nil {
			return err
		}
		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		result, err := client.Validations().Validate(cmd.Context(), sdk.ValidateTicketInput{TicketID: id, Method: method})
		if err != nil {
			return fmt.Errorf("failed to validate ticket: %w", err)
		}

		if result.Valid() {
			output.Success(cmd.ErrOrStderr(), "Ticket is valid - admit")
		} else {
			output.Warning(cmd.ErrOrStderr(), "Ticket is %s - do not admit", result.Status)
		}
		return output.Render(cmd.OutOrStdout(), cfg.Output, result, output.ValidationDetail(*result))
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateMethod, "method", string(sdk.ValidationMethodQRScan), "How the ticket was presented: QR_SCAN or MANUAL")
}
