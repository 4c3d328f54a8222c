package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/devtiro/tickets/cmd/ticketctl/internal/config"
	"github.com/devtiro/tickets/cmd/ticketctl/internal/output"
	"github.com/devtiro/tickets/pkg/sdk"
)

var (
	token        string
	issuer       string
	clientID     string
	clientSecret string
	tokenURL     string
	noBrowser    bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the ticketing platform",
	Long: `Starts a session from a bearer token.

Three ways to obtain the token are supported:
1. Paste it: --token TOKEN, --token - to read it from stdin, or no flags to be
   prompted.
2. Interactive device login against the identity provider: --issuer and
   --client-id (or TICKETCTL_OIDC_ISSUER and TICKETCTL_OIDC_CLIENT_ID).
3. Service account login: additionally pass --client-secret.

The token is stored in $TICKETCTL_HOME/credentials (default ~/.ticketctl).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		stderr := cmd.ErrOrStderr()

		credential, err := acquireToken(cmd, cfg)
		if err != nil {
			return err
		}

		ids, err := cfg.ClientProvider.Identity()
		if err != nil {
			return err
		}
		if err := ids.Login(credential); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		principal, _ := ids.CurrentPrincipal()
		output.Success(stderr, "Logged in as %s (%s)", principal.DisplayName, principal.Email)
		if roles := principal.Roles.Slice(); len(roles) > 0 {
			output.Info(stderr, "Roles: %s", strings.Join(roles, ", "))
		}
		return nil
	},
}

func acquireToken(cmd *cobra.Command, cfg *config.GlobalConfig) (string, error) {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	if token == "-" {
		return readToken(cmd.InOrStdin())
	}
	if token != "" {
		return strings.TrimSpace(token), nil
	}

	iss := firstNonEmpty(issuer, cfg.OIDC.Issuer)
	id := firstNonEmpty(clientID, cfg.OIDC.ClientID)
	secret := firstNonEmpty(clientSecret, cfg.OIDC.ClientSecret)

	if id != "" && secret != "" {
		output.Info(stderr, "Authenticating as service account %s...", id)
		grant, err := sdk.LoginWithClientCredentials(ctx, iss, firstNonEmpty(tokenURL, cfg.OIDC.TokenURL), id, secret)
		if err != nil {
			return "", err
		}
		return grant.AccessToken, nil
	}

	if iss != "" && id != "" {
		if cfg.NonInteractive {
			return "", errors.New("device login needs a browser; pass --token or --client-secret in non-interactive mode")
		}
		grant, err := sdk.LoginWithDeviceCode(ctx, iss, id, sdk.DeviceLoginOptions{
			Prompt: func(userCode, verificationURI, verificationURIComplete string) {
				output.Section(stderr, "Device login")
				output.Info(stderr, "Your user code is: %s", userCode)
				output.Info(stderr, "Visit %s to approve this device", firstNonEmpty(verificationURIComplete, verificationURI))
				output.Info(stderr, "Waiting for authorization...")
			},
			OpenBrowser: !noBrowser,
		})
		if err != nil {
			return "", err
		}
		return grant.AccessToken, nil
	}

	if cfg.NonInteractive {
		return "", errors.New("no token given; pass --token, or --issuer and --client-id")
	}
	pasted, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Paste your JWT token")
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(pasted), nil
}

func readToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no token on stdin")
	}
	return line, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	loginCmd.Flags().StringVar(&token, "token", "", "Bearer token to sign in with (\"-\" reads stdin)")
	loginCmd.Flags().StringVar(&issuer, "issuer", "", "OIDC issuer URL for device or service account login")
	loginCmd.Flags().StringVar(&clientID, "client-id", "", "OIDC client ID")
	loginCmd.Flags().StringVar(&clientSecret, "client-secret", "", "Client secret for service account authentication")
	loginCmd.Flags().StringVar(&tokenURL, "token-url", "", "Token endpoint, skipping OIDC discovery (service accounts only)")
	loginCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open the verification URL automatically")
}
