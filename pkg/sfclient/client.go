package sfclient

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cast"

	"github.com/fivetwenty-io/superfaktura-client/internal/client"
	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
	sfhttp "github.com/fivetwenty-io/superfaktura-client/internal/http"
	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// Version is reported in the default User-Agent.
var Version = "1.0.0"

// ErrMissingCredentials is returned by NewFromEnv when a required variable
// is unset.
var ErrMissingCredentials = errors.New("SF_API_EMAIL, SF_API_KEY and SF_COMPANY_ID must be set")

// RetryPolicy controls transparent retries of transient failures.
type RetryPolicy = sfhttp.RetryPolicy

// NewRetryPolicy returns the default policy with a custom retry budget.
func NewRetryPolicy(maxRetries int) *RetryPolicy {
	return sfhttp.NewRetryPolicy(maxRetries)
}

type settings struct {
	logger     superfaktura.Logger
	httpClient *http.Client
	policy     *RetryPolicy
	userAgent  string
	debug      bool
}

// Option configures the client built by New.
type Option func(*settings)

// WithLogger sets the sink for observability events.
func WithLogger(logger superfaktura.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithHTTPClient injects the base HTTP client beneath the retry layer.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *settings) {
		s.httpClient = httpClient
	}
}

// WithRetryPolicy replaces the policy derived from Config.MaxRetries.
func WithRetryPolicy(policy *RetryPolicy) Option {
	return func(s *settings) {
		s.policy = policy
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(s *settings) {
		s.userAgent = userAgent
	}
}

// WithDebug enables request/response debug events.
func WithDebug(debug bool) Option {
	return func(s *settings) {
		s.debug = debug
	}
}

// New creates a SuperFaktura API client.
func New(config *superfaktura.Config, opts ...Option) (superfaktura.Client, error) {
	if config == nil {
		return nil, superfaktura.ErrConfigRequired
	}

	s := &settings{
		userAgent: "superfaktura-go/" + Version,
	}

	for _, opt := range opts {
		opt(s)
	}

	httpOpts := []sfhttp.Option{
		sfhttp.WithUserAgent(s.userAgent),
		sfhttp.WithDebug(s.debug),
	}

	if s.logger != nil {
		httpOpts = append(httpOpts, sfhttp.WithLogger(s.logger))
	}

	if s.httpClient != nil {
		httpOpts = append(httpOpts, sfhttp.WithHTTPClient(s.httpClient))
	}

	if s.policy != nil {
		httpOpts = append(httpOpts, sfhttp.WithRetryPolicy(s.policy))
	}

	sfClient, err := client.New(config, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return sfClient, nil
}

// NewFromEnv builds the configuration from SF_* environment variables and
// creates a client with it.
func NewFromEnv(opts ...Option) (superfaktura.Client, error) {
	config, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	return New(config, opts...)
}

// ConfigFromEnv reads SF_API_EMAIL, SF_API_KEY, SF_COMPANY_ID and SF_SANDBOX.
func ConfigFromEnv() (*superfaktura.Config, error) {
	email := os.Getenv(constants.EnvAPIEmail)
	apiKey := os.Getenv(constants.EnvAPIKey)
	companyID := os.Getenv(constants.EnvCompanyID)

	if email == "" || apiKey == "" || companyID == "" {
		return nil, ErrMissingCredentials
	}

	sandbox := true

	if raw := os.Getenv(constants.EnvSandbox); raw != "" {
		parsed, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", constants.EnvSandbox, err)
		}

		sandbox = parsed
	}

	config, err := superfaktura.NewConfig(email, apiKey, companyID, superfaktura.WithSandbox(sandbox))
	if err != nil {
		return nil, fmt.Errorf("building config from environment: %w", err)
	}

	return config, nil
}
