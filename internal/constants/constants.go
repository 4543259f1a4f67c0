package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// SuperFaktura endpoints.
const (
	// SandboxHost is the host of the sandbox environment.
	SandboxHost = "sandbox.superfaktura.sk"

	// ProductionHost is the host of the production environment.
	ProductionHost = "moja.superfaktura.sk"

	// SandboxBaseURL is the base URL used when sandbox mode is on.
	SandboxBaseURL = "https://" + SandboxHost + "/"

	// ProductionBaseURL is the base URL used when sandbox mode is off.
	ProductionBaseURL = "https://" + ProductionHost + "/"
)

// AllowedHosts lists every host a client may talk to.
func AllowedHosts() []string {
	return []string{SandboxHost, ProductionHost}
}

// API paths, relative to the base URL.
const (
	PathInvoiceCreate     = "invoices/create"
	PathInvoicePaymentAdd = "invoice_payments/add/ajax:1/api:1"
	PathInvoiceViewJSON   = "invoices/view/%d.json"
	PathInvoiceViewPDF    = "invoices/view/%d.pdf"
	PathBankAccountAdd    = "bank_accounts/add"
	PathBankAccountUpdate = "bank_accounts/update/%d"
	PathBankAccountDelete = "bank_accounts/delete/%d"
	PathBankAccountIndex  = "bank_accounts/index"
)

// HTTP headers and content types.
const (
	HeaderAuthorization  = "Authorization"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderContentType    = "Content-Type"
	HeaderAccept         = "Accept"
	HeaderUserAgent      = "User-Agent"

	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypePDF  = "application/pdf"

	// AuthScheme prefixes the Authorization header value.
	AuthScheme = "SFAPI"

	// FormDataField is the single form field carrying the JSON payload.
	FormDataField = "data"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default overall timeout for a request.
	DefaultHTTPTimeout = 15 * time.Second

	// DefaultConnectTimeout is the default timeout of the connect phase.
	DefaultConnectTimeout = 5 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryBaseDelay is the wait before the first retry.
	DefaultRetryBaseDelay = 1 * time.Second

	// ExponentialBackoffBase is the base for exponential backoff.
	ExponentialBackoffBase = 2
)

// Payment defaults.
const (
	// DefaultCurrency is used when a payment carries no currency.
	DefaultCurrency = "EUR"

	// DefaultPaymentType is used when a payment carries no payment type.
	DefaultPaymentType = "transfer"

	// DateLayout is the date format the API uses for payment dates.
	DateLayout = "2006-01-02"
)

// Response wrapper keys.
const (
	KeyBankAccount    = "BankAccount"
	KeyBankAccounts   = "BankAccounts"
	KeyInvoicePayment = "InvoicePayment"
	KeyMessage        = "message"
	KeyError          = "error"
	KeyRaw            = "raw"
	KeyID             = "id"
)

// MaskedValue replaces redacted credentials.
const MaskedValue = "***"

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// CheckMarkSymbol marks the default bank account.
	CheckMarkSymbol = "✓"

	// MoneyPrecision is the number of decimals shown for amounts.
	MoneyPrecision = 2
)

// Environment variables read by the CLI and the live test suite.
const (
	EnvPrefix      = "SF"
	EnvAPIEmail    = "SF_API_EMAIL"
	EnvAPIKey      = "SF_API_KEY"
	EnvCompanyID   = "SF_COMPANY_ID"
	EnvSandbox     = "SF_SANDBOX"
	DefaultSubject = "superfaktura.events"
)
