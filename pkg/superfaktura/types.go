package superfaktura

import (
	"time"

	"github.com/fivetwenty-io/superfaktura-client/internal/coerce"
	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
)

// Invoice is the result of creating an invoice.
type Invoice struct {
	ID       int      `json:"id"                 yaml:"id"`
	Number   *string  `json:"number,omitempty"   yaml:"number,omitempty"`
	Currency *string  `json:"currency,omitempty" yaml:"currency,omitempty"`
	Total    *float64 `json:"total,omitempty"    yaml:"total,omitempty"`
}

// InvoiceFromMap builds an Invoice from a decoded response. Missing or
// malformed fields fall back to their zero value; it never fails.
func InvoiceFromMap(data map[string]any) Invoice {
	return Invoice{
		ID:       coerce.Int(data, "id", 0),
		Number:   coerce.StringOrInt(data, "number"),
		Currency: coerce.String(data, "currency"),
		Total:    coerce.OptionalFloat(data, "total"),
	}
}

// PaymentReceipt confirms a payment recorded against an invoice.
type PaymentReceipt struct {
	InvoiceID int     `json:"invoice_id" yaml:"invoice_id"`
	Amount    float64 `json:"amount"     yaml:"amount"`
	Currency  string  `json:"currency"   yaml:"currency"`
	// Created is the payment date as YYYY-MM-DD, or empty when unknown.
	Created string `json:"created" yaml:"created"`
}

// PaymentReceiptFromMap builds a PaymentReceipt from a response whose
// fields are nested under "InvoicePayment". Without that wrapper every
// field takes its default (currency EUR).
func PaymentReceiptFromMap(data map[string]any) PaymentReceipt {
	payment, _ := coerce.Map(data, constants.KeyInvoicePayment)

	return PaymentReceipt{
		InvoiceID: coerce.Int(payment, "invoice_id", 0),
		Amount:    coerce.FloatOr(payment, "amount", 0),
		Currency:  coerce.StringOr(payment, "currency", constants.DefaultCurrency),
		Created:   coerce.StringOr(payment, "created", ""),
	}
}

// BankAccount is a bank account registered with the company.
type BankAccount struct {
	ID       int     `json:"id"                  yaml:"id"`
	BankName *string `json:"bank_name,omitempty" yaml:"bank_name,omitempty"`
	IBAN     *string `json:"iban,omitempty"      yaml:"iban,omitempty"`
	SWIFT    *string `json:"swift,omitempty"     yaml:"swift,omitempty"`
	Account  *string `json:"account,omitempty"   yaml:"account,omitempty"`
	BankCode *string `json:"bank_code,omitempty" yaml:"bank_code,omitempty"`
	Currency *string `json:"currency,omitempty"  yaml:"currency,omitempty"`
	Default  bool    `json:"default"             yaml:"default"`
	Show     bool    `json:"show"                yaml:"show"`
}

// BankAccountFromMap builds a BankAccount from either a flat map or one
// wrapped as {"BankAccount": {...}}.
func BankAccountFromMap(data map[string]any) BankAccount {
	data = coerce.Unwrap(data, constants.KeyBankAccount)

	return BankAccount{
		ID:       coerce.Int(data, "id", 0),
		BankName: coerce.String(data, "bank_name"),
		IBAN:     coerce.String(data, "iban"),
		SWIFT:    coerce.String(data, "swift"),
		Account:  coerce.String(data, "account"),
		BankCode: coerce.String(data, "bank_code"),
		Currency: coerce.String(data, "currency"),
		Default:  coerce.Bool(data, "default", false),
		Show:     coerce.Bool(data, "show", false),
	}
}

// MarkPaidRequest describes a payment to record against an invoice.
type MarkPaidRequest struct {
	InvoiceID int
	Amount    float64
	// Currency defaults to EUR.
	Currency string
	// PaymentType defaults to "transfer".
	PaymentType string
	// PaidAt defaults to the current time. Only the date is sent.
	PaidAt time.Time
	// IdempotencyKey is generated when empty.
	IdempotencyKey string
}
