package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
	sfhttp "github.com/fivetwenty-io/superfaktura-client/internal/http"
	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// InvoicesClient implements superfaktura.InvoicesClient.
type InvoicesClient struct {
	httpClient *sfhttp.Client
	now        func() time.Time
}

// NewInvoicesClient creates a new invoices client.
func NewInvoicesClient(httpClient *sfhttp.Client) *InvoicesClient {
	return &InvoicesClient{
		httpClient: httpClient,
		now:        time.Now,
	}
}

type invoicePayment struct {
	InvoiceID   int     `json:"invoice_id"`
	PaymentType string  `json:"payment_type"`
	Amount      float64 `json:"amount"`
	Created     string  `json:"created"`
	Currency    string  `json:"currency"`
}

// Create implements superfaktura.InvoicesClient.Create.
func (c *InvoicesClient) Create(ctx context.Context, data map[string]any, idempotencyKey string) (*superfaktura.Invoice, error) {
	if data == nil {
		data = map[string]any{}
	}

	resp, err := c.httpClient.Do(ctx, &sfhttp.Request{
		Operation:      "createInvoice",
		Description:    "create invoice",
		Method:         http.MethodPost,
		Path:           constants.PathInvoiceCreate,
		Body:           data,
		IdempotencyKey: resolveIdempotencyKey(idempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	result, ok := decodeObject(resp.Body)
	if !ok {
		result = map[string]any{constants.KeyID: 0}
	}

	invoice := superfaktura.InvoiceFromMap(result)

	return &invoice, nil
}

// MarkPaid implements superfaktura.InvoicesClient.MarkPaid.
func (c *InvoicesClient) MarkPaid(ctx context.Context, request *superfaktura.MarkPaidRequest) (*superfaktura.PaymentReceipt, error) {
	if request == nil {
		return nil, ErrRequestRequired
	}

	payment := c.paymentFor(request)

	form, err := formData(map[string]interface{}{constants.KeyInvoicePayment: payment})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, &sfhttp.Request{
		Operation:      "markInvoiceAsPaid",
		Description:    "mark as paid",
		Method:         http.MethodPost,
		Path:           constants.PathInvoicePaymentAdd,
		Form:           form,
		IdempotencyKey: resolveIdempotencyKey(request.IdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	result, ok := decodeObject(resp.Body)
	if !ok {
		result = map[string]any{
			constants.KeyInvoicePayment: map[string]any{
				"invoice_id": payment.InvoiceID,
				"amount":     payment.Amount,
				"currency":   payment.Currency,
				"created":    payment.Created,
			},
		}
	}

	receipt := superfaktura.PaymentReceiptFromMap(result)

	return &receipt, nil
}

func (c *InvoicesClient) paymentFor(request *superfaktura.MarkPaidRequest) invoicePayment {
	payment := invoicePayment{
		InvoiceID:   request.InvoiceID,
		PaymentType: request.PaymentType,
		Amount:      request.Amount,
		Currency:    request.Currency,
	}

	if payment.PaymentType == "" {
		payment.PaymentType = constants.DefaultPaymentType
	}

	if payment.Currency == "" {
		payment.Currency = constants.DefaultCurrency
	}

	paidAt := request.PaidAt
	if paidAt.IsZero() {
		paidAt = c.now()
	}

	payment.Created = paidAt.Format(constants.DateLayout)

	return payment
}

// Get implements superfaktura.InvoicesClient.Get.
func (c *InvoicesClient) Get(ctx context.Context, invoiceID int) (map[string]any, error) {
	resp, err := c.httpClient.Do(ctx, &sfhttp.Request{
		Operation:   "getInvoiceById",
		Description: "get invoice",
		Method:      http.MethodGet,
		Path:        fmt.Sprintf(constants.PathInvoiceViewJSON, invoiceID),
	})
	if err != nil {
		return nil, err
	}

	result, ok := decodeObject(resp.Body)
	if !ok {
		return map[string]any{constants.KeyRaw: string(resp.Body)}, nil
	}

	return result, nil
}

// Download implements superfaktura.InvoicesClient.Download.
func (c *InvoicesClient) Download(ctx context.Context, invoiceID int, sink io.Writer) ([]byte, error) {
	req := &sfhttp.Request{
		Operation:   "downloadInvoice",
		Description: "download invoice",
		Method:      http.MethodGet,
		Path:        fmt.Sprintf(constants.PathInvoiceViewPDF, invoiceID),
		Accept:      constants.ContentTypePDF,
	}

	if sink != nil {
		_, err := c.httpClient.Stream(ctx, req, sink)

		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}
