// Package http is the transport beneath the SuperFaktura resource clients.
// It builds authenticated requests, retries transient failures through
// go-retryablehttp and maps outcomes onto the superfaktura error kinds.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
	"github.com/fivetwenty-io/superfaktura-client/internal/mask"
	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

const dialKeepAlive = 30 * time.Second

// AuthProvider supplies the Authorization header value.
type AuthProvider interface {
	AuthHeader() string
}

// Client executes API requests.
type Client struct {
	baseURL        string
	auth           AuthProvider
	baseClient     *http.Client
	retryClient    *retryablehttp.Client
	policy         *RetryPolicy
	logger         superfaktura.Logger
	debug          bool
	userAgent      string
	timeout        time.Duration
	connectTimeout time.Duration
}

// Request describes one logical API call.
type Request struct {
	// Operation names the call in observability events, e.g. "createInvoice".
	Operation string
	// Description is used in error messages, e.g. "create invoice".
	Description string
	Method      string
	Path        string
	Query       url.Values
	Headers     map[string]string
	// Body is sent as JSON when set.
	Body interface{}
	// Form is sent url-encoded when set. It wins over Body.
	Form url.Values
	// Accept defaults to application/json.
	Accept         string
	IdempotencyKey string
	// LogFields are added to the completion event.
	LogFields map[string]interface{}
}

// Response is a fully received API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the observability sink.
func WithLogger(logger superfaktura.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response debug events.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(policy *RetryPolicy) Option {
	return func(c *Client) {
		if policy != nil {
			c.policy = policy
		}
	}
}

// WithHTTPClient injects the client the retry layer sends requests with.
// The injected client is copied; its Timeout is only filled in when unset.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.baseClient = client
	}
}

// WithTimeouts sets the overall and connect-phase timeouts.
func WithTimeouts(timeout, connectTimeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
		c.connectTimeout = connectTimeout
	}
}

// NewClient creates a transport client for baseURL.
func NewClient(baseURL string, auth AuthProvider, opts ...Option) *Client {
	client := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/") + "/",
		auth:           auth,
		policy:         DefaultRetryPolicy(),
		userAgent:      "superfaktura-go",
		timeout:        constants.DefaultHTTPTimeout,
		connectTimeout: constants.DefaultConnectTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.baseClient = client.prepareBaseClient()
	client.retryClient = &retryablehttp.Client{
		HTTPClient:   client.baseClient,
		RetryWaitMin: client.policy.BaseDelay,
		RetryWaitMax: client.policy.Delay(client.policy.MaxRetries),
		RetryMax:     client.policy.MaxRetries,
		CheckRetry:   client.checkRetry,
		Backoff:      client.backoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}

	return client
}

func (c *Client) prepareBaseClient() *http.Client {
	if c.baseClient != nil {
		clone := *c.baseClient
		if clone.Timeout == 0 {
			clone.Timeout = c.timeout
		}

		return &clone
	}

	transport := cleanhttp.DefaultPooledTransport()
	transport.DialContext = (&net.Dialer{
		Timeout:   c.connectTimeout,
		KeepAlive: dialKeepAlive,
	}).DialContext

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}
}

// Close releases idle pooled connections.
func (c *Client) Close() {
	c.baseClient.CloseIdleConnections()
}

// Do executes req and reads the whole body. A non-200 status returns the
// response together with a *superfaktura.HTTPError; a failure before any
// response returns a *superfaktura.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpResp, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, superfaktura.NewAPIError(fmt.Errorf("reading response body: %w", err))
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	c.logCompletion(req, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return resp, c.httpError(req, resp.StatusCode, body)
	}

	return resp, nil
}

// Stream executes req and copies a successful body into sink instead of
// buffering it. Error bodies are still read in full.
func (c *Client) Stream(ctx context.Context, req *Request, sink io.Writer) (*Response, error) {
	httpResp, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
	}

	c.logCompletion(req, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, superfaktura.NewAPIError(fmt.Errorf("reading response body: %w", err))
		}

		resp.Body = body

		return resp, c.httpError(req, resp.StatusCode, body)
	}

	_, err = io.Copy(sink, httpResp.Body)
	if err != nil {
		return resp, superfaktura.NewAPIError(fmt.Errorf("streaming response body: %w", err))
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// PostForm performs a POST request with a url-encoded body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Form: form})
}

type attemptCounterKey struct{}

func (c *Client) execute(ctx context.Context, req *Request) (*http.Response, error) {
	attempts := 0
	ctx = context.WithValue(ctx, attemptCounterKey{}, &attempts)

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
			"auth":   mask.Auth(httpReq.Header.Get(constants.HeaderAuthorization)),
		})
	}

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}

		return nil, superfaktura.NewAPIError(err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":   req.Method,
			"path":     req.Path,
			"status":   httpResp.StatusCode,
			"attempts": attempts,
		})
	}

	return httpResp, nil
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	var (
		body        interface{}
		contentType string
	)

	switch {
	case req.Form != nil:
		body = []byte(req.Form.Encode())
		contentType = constants.ContentTypeForm
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = data
		contentType = constants.ContentTypeJSON
	}

	target := c.baseURL + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.auth != nil {
		httpReq.Header.Set(constants.HeaderAuthorization, c.auth.AuthHeader())
	}

	accept := req.Accept
	if accept == "" {
		accept = constants.ContentTypeJSON
	}

	httpReq.Header.Set(constants.HeaderAccept, accept)

	if contentType != "" {
		httpReq.Header.Set(constants.HeaderContentType, contentType)
	}

	if c.userAgent != "" {
		httpReq.Header.Set(constants.HeaderUserAgent, c.userAgent)
	}

	if req.IdempotencyKey != "" {
		httpReq.Header.Set(constants.HeaderIdempotencyKey, req.IdempotencyKey)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	attempt := 0
	if counter, ok := ctx.Value(attemptCounterKey{}).(*int); ok {
		attempt = *counter
		*counter++
	}

	retry := c.policy.ShouldRetry(attempt, resp, err)
	if retry && c.logger != nil {
		c.logger.Warn("Retrying request", map[string]interface{}{
			"attempt": attempt + 1,
			"status":  resp.StatusCode,
		})
	}

	return retry, nil
}

func (c *Client) backoff(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
	return c.policy.Delay(attemptNum)
}

func (c *Client) logCompletion(req *Request, status int) {
	if c.logger == nil {
		return
	}

	authHeader := ""
	if c.auth != nil {
		authHeader = c.auth.AuthHeader()
	}

	fields := map[string]interface{}{
		"operation": req.Operation,
		"status":    status,
		"auth":      mask.Auth(authHeader),
	}

	if req.IdempotencyKey != "" {
		fields["idempotency_key"] = req.IdempotencyKey
	}

	for key, value := range req.LogFields {
		fields[key] = value
	}

	c.logger.Info("SF "+req.Operation, fields)
}

func (c *Client) httpError(req *Request, status int, body []byte) error {
	return &superfaktura.HTTPError{
		Operation:  req.Description,
		StatusCode: status,
		Body:       string(body),
	}
}
