package tickets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/args"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
)

var qrOut string

var qrCmd = &cobra.Command{
	Use:   "qr TICKET_ID",
	Short: "Download the QR code of a ticket",
	Long: `Downloads the QR code image the server renders for a ticket. The image
is written to --out (default TICKET_ID.png); "--out -" writes it to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		id, err := args.ID("ticket id", argv[0])
		if err != nil {
			return err
		}
		client, err := sdkClient(cmd.Context())
		if err != nil {
			return err
		}

		artifact, err := client.Tickets().QRCode(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to download QR code: %w", err)
		}

		if qrOut == "-" {
			_, err := cmd.OutOrStdout().Write(artifact.Data)
			return err
		}
		path := qrOut
		if path == "" {
			path = id.String() + ".png"
		}
		if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
			return fmt.Errorf("failed to write QR code: %w", err)
		}
		abs, _ := filepath.Abs(path)
		output.Success(cmd.ErrOrStderr(), "Saved QR code (%s, %d bytes) to %s", output.Dash(artifact.ContentType), len(artifact.Data), abs)
		return nil
	},
}

func init() {
	qrCmd.Flags().StringVar(&qrOut, "out", "", "Output file (\"-\" for stdout)")
}
