package status

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
	"github.com/devtiro/tickets/pkg/sdk"
)

var (
	watch    bool
	interval time.Duration
)

// StatusCmd reports whether the ticketing API is reachable.
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity to the ticketing API",
	Long: `Probes the public event catalogue once, or every --interval with --watch
until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		monitor := sdk.NewConnectionMonitor(client, interval)
		out := cmd.OutOrStdout()

		if !watch {
			report := monitor.Check(cmd.Context())
			printReport(out, cfg, client.BaseURL(), report)
			if report.Status == sdk.ConnectionDisconnected {
				return fmt.Errorf("cannot reach %s: %w", client.BaseURL(), report.Err)
			}
			return nil
		}

		monitor.Run(cmd.Context(), func(report sdk.ConnectionReport) {
			printReport(out, cfg, client.BaseURL(), report)
		})
		return nil
	},
}

type reportView struct {
	Server    string               `json:"server" yaml:"server"`
	Status    sdk.ConnectionStatus `json:"status" yaml:"status"`
	CheckedAt time.Time            `json:"checked_at" yaml:"checked_at"`
	LatencyMS int64                `json:"latency_ms" yaml:"latency_ms"`
	Error     string               `json:"error,omitempty" yaml:"error,omitempty"`
}

func printReport(w io.Writer, cfg *config.GlobalConfig, server string, r sdk.ConnectionReport) {
	view := reportView{
		Server:    server,
		Status:    r.Status,
		CheckedAt: r.CheckedAt,
		LatencyMS: r.Latency.Milliseconds(),
	}
	if r.Err != nil {
		view.Error = sdk.UserMessage(r.Err)
	}
	if cfg.Output != output.FormatTable {
		_ = output.Render(w, cfg.Output, view, nil)
		return
	}
	switch r.Status {
	case sdk.ConnectionChecking:
		output.Info(w, "%s: checking...", server)
	case sdk.ConnectionConnected:
		output.Success(w, "%s: connected (%dms)", server, view.LatencyMS)
	default:
		output.Warning(w, "%s: disconnected: %s", server, view.Error)
	}
}

func init() {
	StatusCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep probing until interrupted")
	StatusCmd.Flags().DurationVar(&interval, "interval", sdk.DefaultProbeInterval, "Probe interval for --watch")
}
