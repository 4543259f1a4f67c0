// Package sfclient provides the primary entry point for constructing a
// SuperFaktura API client that implements the superfaktura.Client interface.
//
// It layers the retrying HTTP transport and observability on top of the
// configuration, resource interfaces and value types defined in the
// superfaktura package.
//
// Quick start
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
//	  ctx := context.Background()
//
//	  cfg, err := superfaktura.NewConfig("jan@firma.sk", "api-key", "42",
//	    superfaktura.WithSandbox(true))
//	  if err != nil { log.Fatal(err) }
//
//	  cli, err := sfclient.New(cfg)
//	  if err != nil { log.Fatal(err) }
//
//	  accounts, err := cli.BankAccounts().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = accounts
//	}
//
// # Environment
//
// NewFromEnv reads SF_API_EMAIL, SF_API_KEY, SF_COMPANY_ID and the optional
// SF_SANDBOX flag (default true).
//
// # Retries
//
// Requests answered with 429, 500, 502, 503 or 504 are retried up to the
// configured MaxRetries with 1s, 2s, 4s... between attempts. Use
// WithRetryPolicy to change the delays or the retryable statuses.
package sfclient
