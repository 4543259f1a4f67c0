package superfaktura

import (
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
	"github.com/fivetwenty-io/superfaktura-client/internal/mask"
)

// Config holds the credentials and transport settings of a client.
//
// A Config is immutable once built by NewConfig. Its base URL is derived
// from the sandbox flag and always points at one of the two SuperFaktura
// hosts.
type Config struct {
	apiEmail       string
	apiKey         string
	companyID      string
	sandbox        bool
	baseURL        string
	timeout        time.Duration
	connectTimeout time.Duration
	maxRetries     int
}

// ConfigOption customizes a Config during NewConfig.
type ConfigOption func(*Config)

// WithSandbox selects the sandbox (true) or production (false) host.
// Sandbox is the default.
func WithSandbox(sandbox bool) ConfigOption {
	return func(c *Config) {
		c.sandbox = sandbox
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.timeout = timeout
	}
}

// WithConnectTimeout sets the timeout of the connect phase.
func WithConnectTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.connectTimeout = timeout
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(maxRetries int) ConfigOption {
	return func(c *Config) {
		c.maxRetries = maxRetries
	}
}

// NewConfig builds a validated Config.
//
// Defaults: sandbox host, 15s request timeout, 5s connect timeout and 3
// retries. It fails when the resolved host is not allow-listed, when
// maxRetries is negative or when a timeout is not positive.
func NewConfig(apiEmail, apiKey, companyID string, opts ...ConfigOption) (*Config, error) {
	cfg := &Config{
		apiEmail:       apiEmail,
		apiKey:         apiKey,
		companyID:      companyID,
		sandbox:        true,
		timeout:        constants.DefaultHTTPTimeout,
		connectTimeout: constants.DefaultConnectTimeout,
		maxRetries:     constants.DefaultRetryMax,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.baseURL = constants.ProductionBaseURL
	if cfg.sandbox {
		cfg.baseURL = constants.SandboxBaseURL
	}

	err := validateBaseURL(cfg.baseURL)
	if err != nil {
		return nil, err
	}

	if cfg.maxRetries < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeRetries, cfg.maxRetries)
	}

	if cfg.timeout <= 0 || cfg.connectTimeout <= 0 {
		return nil, fmt.Errorf("%w: timeout=%s connect_timeout=%s", ErrInvalidTimeout, cfg.timeout, cfg.connectTimeout)
	}

	return cfg, nil
}

func validateBaseURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrHostNotAllowed, rawURL)
	}

	host := parsed.Hostname()
	if !slices.Contains(constants.AllowedHosts(), host) {
		return fmt.Errorf("%w: %q", ErrHostNotAllowed, host)
	}

	return nil
}

// APIEmail returns the account e-mail.
func (c *Config) APIEmail() string { return c.apiEmail }

// CompanyID returns the company the requests act on.
func (c *Config) CompanyID() string { return c.companyID }

// Sandbox reports whether the sandbox host is targeted.
func (c *Config) Sandbox() bool { return c.sandbox }

// BaseURL returns the resolved base URL, always ending with a slash.
func (c *Config) BaseURL() string { return c.baseURL }

// Timeout returns the overall request timeout.
func (c *Config) Timeout() time.Duration { return c.timeout }

// ConnectTimeout returns the connect-phase timeout.
func (c *Config) ConnectTimeout() time.Duration { return c.connectTimeout }

// MaxRetries returns the retry budget of a single operation.
func (c *Config) MaxRetries() int { return c.maxRetries }

// AuthHeader builds the value of the Authorization header. The result
// carries credentials in clear text and must go through mask.Auth before
// it is logged.
func (c *Config) AuthHeader() string {
	return fmt.Sprintf("%s email=%s&apikey=%s&company_id=%s", constants.AuthScheme, c.apiEmail, c.apiKey, c.companyID)
}

// String implements fmt.Stringer without leaking credentials.
func (c *Config) String() string {
	return fmt.Sprintf("superfaktura.Config{baseURL: %s, auth: %s, timeout: %s, connectTimeout: %s, maxRetries: %d}",
		c.baseURL, mask.Auth(c.AuthHeader()), c.timeout, c.connectTimeout, c.maxRetries)
}
