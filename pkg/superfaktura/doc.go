// Package superfaktura provides types, interfaces, and helpers for working
// with the SuperFaktura invoicing API.
//
// # Overview
//
// The package defines the immutable Config, the value objects returned by
// the API (Invoice, PaymentReceipt, BankAccount), the resource client
// interfaces (InvoicesClient, BankAccountsClient) and the two error kinds
// a call can fail with. A concrete client is built by the sfclient
// package:
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/superfaktura-client/pkg/sfclient"
//	  "github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
//	)
//
//	func example() {
//	  cfg, err := superfaktura.NewConfig("me@example.com", "api-key", "1234")
//	  if err != nil { log.Fatal(err) }
//
//	  cli, err := sfclient.New(cfg)
//	  if err != nil { log.Fatal(err) }
//
//	  accounts, err := cli.BankAccounts().List(context.Background())
//	  if err != nil { log.Fatal(err) }
//	  _ = accounts
//	}
//
// # Lenient parsing
//
// The API is known to return the same field as a number, a numeric string
// or a boolean depending on the endpoint. The *FromMap constructors never
// fail: malformed or missing fields degrade to documented defaults.
//
// # Errors
//
// A response with any status other than 200 yields *HTTPError carrying the
// status code and raw body. A failure before any response (DNS, refused
// connection, timeout) yields *APIError. Use errors.As, or the IsHTTPError
// and IsAPIError helpers, to tell them apart.
package superfaktura
