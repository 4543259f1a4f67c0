package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
	"github.com/fivetwenty-io/superfaktura-client/internal/http"
	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// Static errors for err113 compliance.
var (
	ErrRequestRequired = errors.New("request is required")
)

// Client implements the superfaktura.Client interface.
type Client struct {
	httpClient *http.Client
	config     *superfaktura.Config

	// Resource clients
	invoices     superfaktura.InvoicesClient
	bankAccounts superfaktura.BankAccountsClient
}

// New creates a SuperFaktura client. The retry policy defaults to the
// configured retry budget; options given later override it.
func New(config *superfaktura.Config, httpOpts ...http.Option) (*Client, error) {
	if config == nil {
		return nil, superfaktura.ErrConfigRequired
	}

	opts := make([]http.Option, 0, len(httpOpts)+2)
	opts = append(opts,
		http.WithTimeouts(config.Timeout(), config.ConnectTimeout()),
		http.WithRetryPolicy(http.NewRetryPolicy(config.MaxRetries())),
	)
	opts = append(opts, httpOpts...)

	httpClient := http.NewClient(config.BaseURL(), config, opts...)

	client := &Client{
		httpClient: httpClient,
		config:     config,
	}

	// Initialize resource clients
	client.invoices = NewInvoicesClient(httpClient)
	client.bankAccounts = NewBankAccountsClient(httpClient)

	return client, nil
}

// Invoices implements superfaktura.Client.Invoices.
func (c *Client) Invoices() superfaktura.InvoicesClient {
	return c.invoices
}

// BankAccounts implements superfaktura.Client.BankAccounts.
func (c *Client) BankAccounts() superfaktura.BankAccountsClient {
	return c.bankAccounts
}

// Config returns the configuration the client was built with.
func (c *Client) Config() *superfaktura.Config {
	return c.config
}

// Close releases pooled connections.
func (c *Client) Close() {
	c.httpClient.Close()
}

func resolveIdempotencyKey(key string) string {
	if key != "" {
		return key
	}

	return uuid.NewString()
}

// decodeObject decodes body as a single JSON object. Anything else,
// including an empty object, reports false so callers can substitute
// their fallback.
func decodeObject(body []byte) (map[string]any, bool) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var out map[string]any

	err := decoder.Decode(&out)
	if err != nil {
		return nil, false
	}

	_, err = decoder.Token()
	if !errors.Is(err, io.EOF) {
		return nil, false
	}

	if len(out) == 0 {
		return nil, false
	}

	return out, true
}

// formData encodes payload as the single "data" form field the API expects.
// Unicode and slashes are left unescaped.
func formData(payload interface{}) (url.Values, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	err := encoder.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding form payload: %w", err)
	}

	return url.Values{constants.FormDataField: {strings.TrimSuffix(buf.String(), "\n")}}, nil
}
