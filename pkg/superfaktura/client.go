package superfaktura

import (
	"context"
	"io"
)

// InvoicesClient covers the invoice endpoints.
type InvoicesClient interface {
	// Create creates an invoice from the raw request document. An empty
	// idempotencyKey is replaced by a random UUID.
	Create(ctx context.Context, data map[string]any, idempotencyKey string) (*Invoice, error)
	// MarkPaid records a payment against an invoice.
	MarkPaid(ctx context.Context, request *MarkPaidRequest) (*PaymentReceipt, error)
	// Get returns the raw invoice document. An undecodable body is
	// returned as {"raw": body}.
	Get(ctx context.Context, invoiceID int) (map[string]any, error)
	// Download fetches the invoice PDF. With a non-nil sink the body is
	// streamed into it and the returned slice is nil.
	Download(ctx context.Context, invoiceID int, sink io.Writer) ([]byte, error)
}

// BankAccountsClient covers the bank account endpoints.
type BankAccountsClient interface {
	Add(ctx context.Context, payload map[string]any) (*BankAccount, error)
	Update(ctx context.Context, id int, payload map[string]any) (*BankAccount, error)
	// Delete reports true only when the API answers with error 0.
	Delete(ctx context.Context, id int) (bool, error)
	List(ctx context.Context) ([]BankAccount, error)
}

// Client is the entry point to the SuperFaktura API. Implementations are
// safe for concurrent use.
type Client interface {
	Invoices() InvoicesClient
	BankAccounts() BankAccountsClient
	// Close releases pooled connections. The client stays usable and
	// dials again when needed.
	Close()
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
