package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
	"github.com/fivetwenty-io/superfaktura-client/pkg/sfclient"
	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// rewriteTransport sends every request to target while keeping the path.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.URL.Scheme = t.target.Scheme
	clone.URL.Host = t.target.Host
	clone.Host = t.target.Host

	return http.DefaultTransport.RoundTrip(clone)
}

type fakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	paths    []string
	forms    []url.Values
	bodies   []string
	settings Settings
}

// useFakeAPI points every command at an httptest server answering with
// handler, and restores the real client factory afterwards.
func useFakeAPI(t *testing.T, handler http.HandlerFunc) *fakeAPI {
	t.Helper()

	api := &fakeAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		api.mu.Lock()
		api.paths = append(api.paths, request.Method+" "+request.URL.Path)

		if request.Header.Get(constants.HeaderContentType) == constants.ContentTypeForm {
			_ = request.ParseForm()
			api.forms = append(api.forms, request.PostForm)
		} else {
			body, _ := io.ReadAll(request.Body)
			api.bodies = append(api.bodies, string(body))
		}
		api.mu.Unlock()

		handler(writer, request)
	}))
	t.Cleanup(api.server.Close)

	target, err := url.Parse(api.server.URL)
	require.NoError(t, err)

	original := newAPIClient
	newAPIClient = func(settings Settings, _ io.Writer) (superfaktura.Client, func(), error) {
		api.mu.Lock()
		api.settings = settings
		api.mu.Unlock()

		config, err := superfaktura.NewConfig(settings.APIEmail, settings.APIKey, settings.CompanyID,
			superfaktura.WithSandbox(settings.Sandbox))
		if err != nil {
			return nil, nil, err
		}

		client, err := sfclient.New(config,
			sfclient.WithHTTPClient(&http.Client{Transport: rewriteTransport{target: target}}),
			sfclient.WithRetryPolicy(sfclient.NewRetryPolicy(0)),
		)
		if err != nil {
			return nil, nil, err
		}

		return client, func() {}, nil
	}
	t.Cleanup(func() { newAPIClient = original })

	return api
}

func respondWith(status int, body string) http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	root := &cobra.Command{Use: "sfapi", SilenceUsage: true, SilenceErrors: true}
	RegisterGlobalFlags(root)
	root.AddCommand(NewInvoicesCommand(), NewBankAccountsCommand(), NewConfigCommand(), NewVersionCommand("1.2.3", "abc", "today"))

	var stdout, stderr bytes.Buffer

	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--api-email", "jan@firma.sk", "--api-key", "s3cr3t-key", "--company-id", "42"}, args...))

	err := root.Execute()

	return stdout.String(), err
}

func TestBankAccountsListCommand(t *testing.T) {
	api := useFakeAPI(t, respondWith(http.StatusOK, `{"BankAccounts": [
		{"BankAccount": {"id": "1", "bank_name": "FatraBanka", "iban": "SK000011112222333344", "default": "1", "show": 1}},
		{"BankAccount": {"id": 2, "bank_name": "NovaBanka", "default": 0}}
	]}`))

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "", "bank-accounts", "list", "-o", "json")
		require.NoError(t, err)

		var accounts []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &accounts))
		require.Len(t, accounts, 2)
		assert.InDelta(t, 1, accounts[0]["id"], 0)
		assert.Equal(t, "FatraBanka", accounts[0]["bank_name"])
		assert.Equal(t, true, accounts[0]["default"])
		assert.Equal(t, false, accounts[1]["default"])
	})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "", "ba", "ls")
		require.NoError(t, err)
		assert.Contains(t, out, "FatraBanka")
		assert.Contains(t, out, "NovaBanka")
		assert.Contains(t, out, "✓")
		assert.Contains(t, out, "N/A")
	})

	assert.Equal(t, "GET /bank_accounts/index", api.paths[0])
	assert.Equal(t, "42", api.settings.CompanyID)
	assert.True(t, api.settings.Sandbox)
}

func TestBankAccountsAddCommand(t *testing.T) {
	api := useFakeAPI(t, respondWith(http.StatusOK, `{"BankAccount": {"id": 9, "bank_name": "FatraBanka", "show": "1"}}`))

	out, err := execute(t, "", "bank-accounts", "add", "--bank-name", "FatraBanka", "--show", "-o", "json")
	require.NoError(t, err)

	require.Len(t, api.forms, 1)
	assert.JSONEq(t, `{"bank_name": "FatraBanka", "show": 1}`, api.forms[0].Get(constants.FormDataField))
	assert.Equal(t, "POST /bank_accounts/add", api.paths[0])

	var account map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &account))
	assert.InDelta(t, 9, account["id"], 0)
	assert.Equal(t, true, account["show"])
}

func TestBankAccountsAddCommandRequiresFields(t *testing.T) {
	api := useFakeAPI(t, respondWith(http.StatusOK, `{}`))

	_, err := execute(t, "", "bank-accounts", "add")
	require.ErrorIs(t, err, ErrEmptyPayload)
	assert.Empty(t, api.paths)
}

func TestBankAccountsUpdateCommand(t *testing.T) {
	api := useFakeAPI(t, respondWith(http.StatusOK, `{"error": 0, "message": {"BankAccount": {"id": 3, "iban": "SK99"}}}`))

	out, err := execute(t, `{"iban": "SK99"}`, "bank-accounts", "update", "3", "--data", "-", "-o", "yaml")
	require.NoError(t, err)

	assert.Equal(t, "POST /bank_accounts/update/3", api.paths[0])
	assert.JSONEq(t, `{"iban": "SK99"}`, api.forms[0].Get(constants.FormDataField))
	assert.Contains(t, out, "iban: SK99")
	assert.Contains(t, out, "id: 3")
}

func TestBankAccountsDeleteCommand(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		api := useFakeAPI(t, respondWith(http.StatusOK, `{"error": 0, "message": "ok"}`))

		out, err := execute(t, "", "bank-accounts", "delete", "3")
		require.NoError(t, err)
		assert.Equal(t, "Bank account 3 deleted\n", out)
		assert.Equal(t, "POST /bank_accounts/delete/3", api.paths[0])
	})

	t.Run("rejected", func(t *testing.T) {
		useFakeAPI(t, respondWith(http.StatusOK, `{"error": 1, "message": "in use"}`))

		_, err := execute(t, "", "bank-accounts", "delete", "3")
		require.ErrorIs(t, err, ErrDeleteRejected)
	})

	t.Run("invalid id", func(t *testing.T) {
		api := useFakeAPI(t, respondWith(http.StatusOK, `{}`))

		_, err := execute(t, "", "bank-accounts", "delete", "abc")
		require.ErrorIs(t, err, constants.ErrInvalidID)
		assert.Empty(t, api.paths)
	})
}

func TestInvoicesCreateCommand(t *testing.T) {
	api := useFakeAPI(t, respondWith(http.StatusOK, `{"id": 123, "number": "2025-001", "currency": "EUR", "total": "49.90"}`))

	out, err := execute(t, `{"Invoice": {"name": "Test invoice"}}`, "invoices", "create", "-f", "-", "--idempotency-key", "k-1")
	require.NoError(t, err)

	assert.Equal(t, "POST /invoices/create", api.paths[0])
	assert.JSONEq(t, `{"Invoice": {"name": "Test invoice"}}`, api.bodies[0])
	assert.Contains(t, out, "123")
	assert.Contains(t, out, "2025-001")
	assert.Contains(t, out, "49.90")
}

func TestInvoicesGetCommand(t *testing.T) {
	useFakeAPI(t, respondWith(http.StatusOK, `{"Invoice": {"id": 5}, "Client": {"name": "ACME"}}`))

	out, err := execute(t, "", "inv", "get", "5")
	require.NoError(t, err)

	assert.Contains(t, out, `{"id":5}`)
	assert.Contains(t, out, `{"name":"ACME"}`)
	assert.Less(t, strings.Index(out, "Client"), strings.Index(out, "Invoice"), "sections are sorted")
}

func TestInvoicesGetCommandNotFound(t *testing.T) {
	useFakeAPI(t, respondWith(http.StatusNotFound, `{"error": "not found"}`))

	_, err := execute(t, "", "invoices", "get", "5")
	require.Error(t, err)
	assert.True(t, superfaktura.IsNotFound(err))
}

func TestInvoicesPayCommand(t *testing.T) {
	api := useFakeAPI(t, respondWith(http.StatusOK, `{"InvoicePayment": {"invoice_id": "5", "amount": "12.50", "currency": "CZK", "created": "2025-01-31"}}`))

	out, err := execute(t, "", "invoices", "pay", "5", "--amount", "12.50", "--currency", "CZK", "--date", "2025-01-31", "-o", "json")
	require.NoError(t, err)

	assert.Equal(t, "POST /invoice_payments/add/ajax:1/api:1", api.paths[0])
	assert.JSONEq(t,
		`{"InvoicePayment": {"invoice_id": 5, "payment_type": "transfer", "amount": 12.5, "created": "2025-01-31", "currency": "CZK"}}`,
		api.forms[0].Get(constants.FormDataField))

	assert.JSONEq(t, `{"invoice_id": 5, "amount": 12.5, "currency": "CZK", "created": "2025-01-31"}`, out)
}

func TestInvoicesPayCommandValidation(t *testing.T) {
	api := useFakeAPI(t, respondWith(http.StatusOK, `{}`))

	_, err := execute(t, "", "invoices", "pay", "5", "--amount", "-3")
	require.ErrorIs(t, err, constants.ErrInvalidAmount)

	_, err = execute(t, "", "invoices", "pay", "5", "--amount", "3", "--date", "yesterday")
	require.ErrorIs(t, err, constants.ErrInvalidDate)

	_, err = execute(t, "", "invoices", "pay", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")

	assert.Empty(t, api.paths)
}

func TestInvoicesDownloadCommand(t *testing.T) {
	pdf := "%PDF-1.4 fake document"

	t.Run("to file", func(t *testing.T) {
		api := useFakeAPI(t, respondWith(http.StatusOK, pdf))
		path := filepath.Join(t.TempDir(), "out.pdf")

		_, err := execute(t, "", "invoices", "download", "7", "--file", path)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, pdf, string(data))
		assert.Equal(t, "GET /invoices/view/7.pdf", api.paths[0])
	})

	t.Run("to stdout", func(t *testing.T) {
		useFakeAPI(t, respondWith(http.StatusOK, pdf))

		out, err := execute(t, "", "invoices", "download", "7", "-f", "-")
		require.NoError(t, err)
		assert.Equal(t, pdf, out)
	})

	t.Run("failure removes the file", func(t *testing.T) {
		useFakeAPI(t, respondWith(http.StatusUnauthorized, `{"error": "bad key"}`))
		path := filepath.Join(t.TempDir(), "out.pdf")

		_, err := execute(t, "", "invoices", "download", "7", "--file", path)
		require.Error(t, err)
		assert.True(t, superfaktura.IsUnauthorized(err))

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestConfigShowMasksAPIKey(t *testing.T) {
	out, err := execute(t, "", "config", "show", "-o", "json")
	require.NoError(t, err)

	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "***", shown["api_key"])
	assert.Equal(t, "jan@firma.sk", shown["api_email"])
	assert.NotContains(t, out, "s3cr3t-key")
}

func TestConfigSetCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("output: json\n"), 0o600))

	viper.Reset()
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	root := &cobra.Command{Use: "sfapi", SilenceUsage: true, SilenceErrors: true}
	RegisterGlobalFlags(root)
	root.AddCommand(NewConfigCommand())

	var stdout bytes.Buffer

	root.SetOut(&stdout)
	root.SetArgs([]string{"config", "set", "api-key", "top-secret"})
	t.Cleanup(viper.Reset)

	require.NoError(t, root.Execute())
	assert.Equal(t, "Set api-key to *** in "+path+"\n", stdout.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "api-key: top-secret")
	assert.Contains(t, string(data), "output: json")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version", "-o", "json")
	require.NoError(t, err)

	assert.JSONEq(t, `{"version": "1.2.3", "commit": "abc", "built": "today", "client_version": "`+sfclient.Version+`"}`, out)
}

// closeCounter records how often the command closed its client.
type closeCounter struct {
	superfaktura.Client

	closed int
}

func (c *closeCounter) Close() {
	c.closed++
	c.Client.Close()
}

func TestCommandsCloseClient(t *testing.T) {
	useFakeAPI(t, respondWith(http.StatusOK, `{"BankAccounts": []}`))

	var counter *closeCounter

	build := newAPIClient
	newAPIClient = func(settings Settings, stderr io.Writer) (superfaktura.Client, func(), error) {
		client, closeFn, err := build(settings, stderr)
		if err != nil {
			return nil, nil, err
		}

		counter = &closeCounter{Client: client}

		return counter, closeFn, nil
	}

	_, err := execute(t, "", "bank-accounts", "list")
	require.NoError(t, err)
	require.NotNil(t, counter)
	assert.Equal(t, 1, counter.closed)
}
