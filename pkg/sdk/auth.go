package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/client/rp/cli"
	"github.com/zitadel/oidc/v3/pkg/oidc"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenGrant is an access token obtained from the identity provider. Hand
// AccessToken to IdentityStore.Login to start a session; nothing here
// persists credentials.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// DeviceCodePrompt shows the user where to approve a device login.
type DeviceCodePrompt func(userCode, verificationURI, verificationURIComplete string)

// DeviceLoginOptions tunes LoginWithDeviceCode.
type DeviceLoginOptions struct {
	// Prompt displays the user code. Defaults to printing on stdout.
	Prompt DeviceCodePrompt
	// OpenBrowser tries to open the verification URL.
	OpenBrowser bool
	HTTPClient  *http.Client
}

// LoginWithDeviceCode runs the OIDC Device Authorization Flow (RFC 8628)
// against issuer, discovered through /.well-known/openid-configuration,
// and returns the access token once the user approves.
func LoginWithDeviceCode(ctx context.Context, issuer, clientID string, opts DeviceLoginOptions) (*TokenGrant, error) {
	if issuer == "" || clientID == "" {
		return nil, fmt.Errorf("issuer and client ID are required for device login")
	}
	if opts.Prompt == nil {
		opts.Prompt = printDeviceCodeInstructions(os.Stdout)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = defaultHTTPClient()
	}

	scopes := []string{oidc.ScopeOpenID, oidc.ScopeProfile, oidc.ScopeEmail}
	relyingParty, err := rp.NewRelyingPartyOIDC(
		ctx,
		issuer,
		clientID,
		"", // public client
		"", // no redirect for device flow
		scopes,
		rp.WithHTTPClient(opts.HTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider at %s: %w", issuer, err)
	}

	authResponse, err := rp.DeviceAuthorization(ctx, scopes, relyingParty, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start device authorization flow: %w", err)
	}

	opts.Prompt(authResponse.UserCode, authResponse.VerificationURI, authResponse.VerificationURIComplete)
	if opts.OpenBrowser && authResponse.VerificationURIComplete != "" {
		cli.OpenBrowser(authResponse.VerificationURIComplete)
	}

	interval := time.Duration(authResponse.Interval) * time.Second
	if interval == 0 {
		interval = 5 * time.Second
	}

	token, err := rp.DeviceAccessToken(ctx, authResponse.DeviceCode, interval, relyingParty)
	if err != nil {
		return nil, fmt.Errorf("device authorization failed: %w", err)
	}

	return &TokenGrant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}, nil
}

// LoginWithClientCredentials exchanges a confidential client's ID and secret
// for an access token (OAuth2 client credentials grant). tokenURL may be
// empty, in which case it is discovered from issuer.
func LoginWithClientCredentials(ctx context.Context, issuer, tokenURL, clientID, clientSecret string) (*TokenGrant, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("client ID and client secret are required")
	}

	if tokenURL == "" {
		if issuer == "" {
			return nil, fmt.Errorf("issuer or token URL is required")
		}
		discoverer, err := rp.NewRelyingPartyOIDC(
			ctx,
			issuer,
			clientID,
			clientSecret,
			"",
			[]string{oidc.ScopeOpenID},
			rp.WithHTTPClient(defaultHTTPClient()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to discover OIDC provider at %s: %w", issuer, err)
		}
		tokenURL = discoverer.OAuthConfig().Endpoint.TokenURL
	}

	ccConfig := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{oidc.ScopeOpenID},
	}

	token, err := ccConfig.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange client credentials for token: %w", err)
	}

	return &TokenGrant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}

func printDeviceCodeInstructions(w io.Writer) DeviceCodePrompt {
	return func(userCode, verificationURI, verificationURIComplete string) {
		fmt.Fprintln(w, "============================================================")
		fmt.Fprintf(w, "Your user code is: %s\n\n", userCode)
		fmt.Fprintln(w, "Please visit the following URL in your browser to authorize this device:")
		fmt.Fprintf(w, "  %s\n\n", verificationURI)
		if verificationURIComplete != "" {
			fmt.Fprintln(w, "Or use this direct link (includes code):")
			fmt.Fprintf(w, "  %s\n", verificationURIComplete)
		}
		fmt.Fprintln(w, "============================================================")
		fmt.Fprintln(w, "Waiting for authorization...")
	}
}
