package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is used when neither configuration nor caller supply one.
const DefaultBaseURL = "http://localhost:8085/api/v1"

// LoginPath is the application entry point a user is sent to after the API
// rejects their credential.
const LoginPath = "/login"

const defaultUserAgent = "ticketctl-sdk"

// Navigator moves the application to another entry point.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Client is the single access point for the ticketing API. Every call goes
// through it so that credential attachment and 401 handling happen in one place.
// Roles are not checked here; the API decides.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	identity   *IdentityStore
	navigator  Navigator
	logger     *slog.Logger
	metrics    *Metrics
	userAgent  string

	events      *EventsClient
	tickets     *TicketsClient
	validations *ValidationsClient
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient *http.Client
	Navigator  Navigator
	Logger     *slog.Logger
	Metrics    *Metrics
	UserAgent  string
	Timeout    time.Duration
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client. Its transport is wrapped, not replaced.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithNavigator sets where the client sends the user after a 401.
func WithNavigator(nav Navigator) ClientOption {
	return func(opts *ClientOptions) {
		opts.Navigator = nav
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = logger
	}
}

// WithMetrics records every dispatch into m.
func WithMetrics(m *Metrics) ClientOption {
	return func(opts *ClientOptions) {
		opts.Metrics = m
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(opts *ClientOptions) {
		opts.UserAgent = ua
	}
}

// WithTimeout bounds every request, on top of any context deadline.
func WithTimeout(d time.Duration) ClientOption {
	return func(opts *ClientOptions) {
		opts.Timeout = d
	}
}

// NewClient creates a client for the API at baseURL that authenticates as
// the current session of identity. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, identity *IdentityStore, optFns ...ClientOption) (*Client, error) {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	if identity == nil {
		identity = NewIdentityStore(NewMemoryStore())
	}

	httpClient := http.Client{}
	if opts.HTTPClient != nil {
		httpClient = *opts.HTTPClient
	}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient.Transport = &bearerTransport{base: base, identity: identity, host: parsed.Host}
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Navigator == nil {
		logger := opts.Logger
		opts.Navigator = NavigatorFunc(func(path string) {
			logger.Info("login required", "entry_point", path)
		})
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &httpClient,
		identity:   identity,
		navigator:  opts.Navigator,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		userAgent:  opts.UserAgent,
	}
	c.events = &EventsClient{c: c}
	c.tickets = &TicketsClient{c: c}
	c.validations = &ValidationsClient{c: c}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Identity returns the identity store the client authenticates with.
func (c *Client) Identity() *IdentityStore {
	return c.identity
}

// Events returns the event resource group.
func (c *Client) Events() *EventsClient { return c.events }

// Tickets returns the ticket resource group.
func (c *Client) Tickets() *TicketsClient { return c.tickets }

// Validations returns the ticket validation resource group.
func (c *Client) Validations() *ValidationsClient { return c.validations }

// bearerTransport reads the credential at dispatch time, so a login or
// logout between building a request and sending it is honoured. The
// credential is only ever sent to the API host, including across redirects.
type bearerTransport struct {
	base     http.RoundTripper
	identity *IdentityStore
	host     string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !strings.EqualFold(req.URL.Host, t.host) {
		return t.base.RoundTrip(req)
	}
	credential, ok := t.identity.CurrentCredential()
	if !ok {
		return t.base.RoundTrip(req)
	}
	authed := req.Clone(req.Context())
	token := &oauth2.Token{AccessToken: credential, TokenType: "Bearer"}
	token.SetAuthHeader(authed)
	return t.base.RoundTrip(authed)
}

type apiRequest struct {
	group  string
	method string
	path   []string
	query  url.Values
	body   any
	accept string
	// allowEmpty accepts a 2xx with no body for calls whose result is optional.
	allowEmpty bool
}

// send dispatches r and applies the response policy. On success the caller
// owns the open response body.
func (c *Client) send(ctx context.Context, r apiRequest) (*http.Response, error) {
	target := c.baseURL.JoinPath(r.path...)
	if len(r.query) > 0 {
		target.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	accept := r.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(r.group, r.method, "error", elapsed)
		c.logger.Debug("request failed", "method", r.method, "url", target.Redacted(), "error", err)
		return nil, &TransportError{Method: r.method, URL: target.Redacted(), Err: err}
	}
	c.metrics.observe(r.group, r.method, fmt.Sprint(resp.StatusCode), elapsed)
	c.logger.Debug("request completed", "method", r.method, "url", target.Redacted(), "status", resp.StatusCode, "duration", elapsed)

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.expireSession()
		return nil, fmt.Errorf("%s %s: %w", r.method, target.Redacted(), ErrAuthenticationExpired)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer drain(resp)
		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Method:     r.method,
			URL:        target.Redacted(),
			Message:    remoteMessage(resp),
		}
	}

	return resp, nil
}

// do dispatches r and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, r apiRequest, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer drain(resp)

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) && r.allowEmpty {
			return nil
		}
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Method:     r.method,
			URL:        resp.Request.URL.Redacted(),
			Message:    "unreadable response body",
			Err:        fmt.Errorf("%w: %v", ErrMalformedResponse, err),
		}
	}
	return nil
}

// expireSession performs the local cleanup that follows a 401.
func (c *Client) expireSession() {
	if err := c.identity.Logout(); err != nil {
		c.logger.Warn("failed to clear credential after 401", "error", err)
	}
	c.navigator.Navigate(LoginPath)
}

// remoteMessage extracts the server-provided message from an error body.
func remoteMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			if payload.Message != "" {
				return payload.Message
			}
			if payload.Error != "" {
				return payload.Error
			}
		}
	}
	return genericStatusMessage(resp.StatusCode)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}

func pageQuery(p PageRequest) url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", fmt.Sprint(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", fmt.Sprint(p.Size))
	}
	return q
}
