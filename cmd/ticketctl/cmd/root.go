package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/devtiro/tickets/cmd/ticketctl/cmd/auth"
	"github.com/devtiro/tickets/cmd/ticketctl/cmd/dev"
	"github.com/devtiro/tickets/cmd/ticketctl/cmd/events"
	"github.com/devtiro/tickets/cmd/ticketctl/cmd/organizer"
	"github.com/devtiro/tickets/cmd/ticketctl/cmd/staff"
	"github.com/devtiro/tickets/cmd/ticketctl/cmd/status"
	"github.com/devtiro/tickets/cmd/ticketctl/cmd/tickets"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/client"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
	"github.com/devtiro/tickets/internal/logger"
	"github.com/devtiro/tickets/pkg/sdk"
)

var (
	serverURL      string
	outputFormat   string
	nonInteractive bool
	debug          bool
)

var rootCmd = &cobra.Command{
	Use:   "ticketctl",
	Short: "ticketctl - event ticketing client",
	Long: `ticketctl is the command-line client for the event ticketing platform.
Browse published events, buy tickets and show their QR codes. Organizers
manage their events and staff validate tickets at the door.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if serverURL != "" {
			cfg.ServerURL = serverURL
			cfg.ClientProvider.SetServerURL(serverURL)
		}
		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		cfg.Output = format
		if nonInteractive {
			cfg.NonInteractive = true
		}
		if debug {
			cfg.Debug = true
			cfg.Logger.SetLevel(slog.LevelDebug)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		cfg := config.MustFromContext(cmd.Context())
		if cfg.Debug {
			logRequestMetrics(cfg)
		}
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", sdk.UserMessage(err))
		os.Exit(1)
	}
}

// Run executes ticketctl with args and the process environment.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	return RunWithSettings(ctx, settings, args, stdout, stderr)
}

// RunWithSettings executes ticketctl with args and explicit settings.
func RunWithSettings(ctx context.Context, settings *config.Settings, args []string, stdout, stderr io.Writer) error {
	level, err := logger.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	log := logger.New(stderr, level)

	provider := client.NewProvider(client.Options{
		ServerURL: settings.BaseURL,
		Home:      settings.Home,
		Timeout:   settings.Timeout,
		Logger:    log.Logger,
		Out:       stderr,
	})
	if settings.Token != "" {
		provider.SetBearerToken(settings.Token)
	}

	cfg := &config.GlobalConfig{
		Settings:       *settings,
		ServerURL:      settings.BaseURL,
		Output:         output.FormatTable,
		Logger:         log,
		ClientProvider: provider,
	}

	// Role-specific command groups only show up in help for sessions that
	// can use them.
	organizer.OrganizerCmd.Hidden = !provider.HasRole(sdk.RoleOrganizer)
	staff.StaffCmd.Hidden = !provider.HasRole(sdk.RoleStaff)

	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	err = rootCmd.ExecuteContext(config.InjectConfig(ctx, cfg))
	if err != nil && cfg.Debug {
		log.Debug("command failed", "error", err)
	}
	return err
}

// resetFlags puts every flag in the tree back to its default. Flags bind to
// package-level variables, so a second run in the same process would
// otherwise inherit the first run's values.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func logRequestMetrics(cfg *config.GlobalConfig) {
	families, err := cfg.ClientProvider.Registry().Gather()
	if err != nil {
		cfg.Logger.Debug("failed to gather request metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				cfg.Logger.Debug("metric", "name", mf.GetName(), "labels", strings.Join(labels, ","), "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				cfg.Logger.Debug("metric", "name", mf.GetName(), "labels", strings.Join(labels, ","),
					"count", m.GetHistogram().GetSampleCount(), "sum", m.GetHistogram().GetSampleSum())
			}
		}
	}
}

func init() {
	cobra.EnableTraverseRunHooks = true

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Ticketing API base URL (default $TICKETS_API_BASE_URL or "+sdk.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive prompts (also set via TICKETCTL_NON_INTERACTIVE=1)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log requests and diagnostics to stderr")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(events.EventsCmd)
	rootCmd.AddCommand(tickets.TicketsCmd)
	rootCmd.AddCommand(organizer.OrganizerCmd)
	rootCmd.AddCommand(staff.StaffCmd)
	rootCmd.AddCommand(status.StatusCmd)
	rootCmd.AddCommand(dev.DevCmd)
}
