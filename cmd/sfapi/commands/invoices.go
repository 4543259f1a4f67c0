package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// NewInvoicesCommand creates the invoices command group.
func NewInvoicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"invoice", "inv"},
		Short:   "Manage invoices",
		Long:    "Create invoices, record payments and fetch invoice documents",
	}

	cmd.AddCommand(newInvoicesCreateCommand())
	cmd.AddCommand(newInvoicesGetCommand())
	cmd.AddCommand(newInvoicesPayCommand())
	cmd.AddCommand(newInvoicesDownloadCommand())

	return cmd
}

func newInvoicesCreateCommand() *cobra.Command {
	var (
		file           string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invoice",
		Long:  "Create an invoice from a JSON document in the SuperFaktura request format",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return runWithClient(cmd, func(ctx context.Context, client superfaktura.Client) error {
				invoice, err := client.Invoices().Create(ctx, payload, idempotencyKey)
				if err != nil {
					return err
				}

				return render(cmd.OutOrStdout(), outputFormat(), invoice, func(table *tablewriter.Table) error {
					table.Header("ID", "Number", "Currency", "Total")

					return table.Append(
						fmt.Sprintf("%d", invoice.ID),
						valueOrNA(invoice.Number),
						valueOrNA(invoice.Currency),
						formatOptionalMoney(invoice.Total),
					)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON invoice document, or - for stdin")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "idempotency key (random UUID when empty)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newInvoicesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get INVOICE_ID",
		Short: "Get invoice details",
		Long:  "Display the invoice document as returned by SuperFaktura",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invoiceID, err := parseID(args[0])
			if err != nil {
				return err
			}

			return runWithClient(cmd, func(ctx context.Context, client superfaktura.Client) error {
				document, err := client.Invoices().Get(ctx, invoiceID)
				if err != nil {
					return err
				}

				return render(cmd.OutOrStdout(), outputFormat(), document, func(table *tablewriter.Table) error {
					table.Header("Section", "Value")

					for _, key := range slices.Sorted(maps.Keys(document)) {
						value, err := json.Marshal(document[key])
						if err != nil {
							return fmt.Errorf("failed to format %s: %w", key, err)
						}

						_ = table.Append(key, string(value))
					}

					return nil
				})
			})
		},
	}
}

func newInvoicesPayCommand() *cobra.Command {
	var (
		amount         string
		currency       string
		paymentType    string
		paidAt         string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "pay INVOICE_ID",
		Short: "Mark an invoice as paid",
		Long:  "Record a payment against an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invoiceID, err := parseID(args[0])
			if err != nil {
				return err
			}

			parsedAmount, err := parseAmount(amount)
			if err != nil {
				return err
			}

			date, err := parseDate(paidAt)
			if err != nil {
				return err
			}

			request := &superfaktura.MarkPaidRequest{
				InvoiceID:      invoiceID,
				Amount:         parsedAmount.InexactFloat64(),
				Currency:       currency,
				PaymentType:    paymentType,
				PaidAt:         date,
				IdempotencyKey: idempotencyKey,
			}

			return runWithClient(cmd, func(ctx context.Context, client superfaktura.Client) error {
				receipt, err := client.Invoices().MarkPaid(ctx, request)
				if err != nil {
					return err
				}

				return render(cmd.OutOrStdout(), outputFormat(), receipt, func(table *tablewriter.Table) error {
					table.Header("Invoice ID", "Amount", "Currency", "Created")

					return table.Append(
						fmt.Sprintf("%d", receipt.InvoiceID),
						formatMoney(receipt.Amount),
						receipt.Currency,
						orNA(receipt.Created),
					)
				})
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "paid amount, e.g. 49.90")
	cmd.Flags().StringVar(&currency, "currency", constants.DefaultCurrency, "payment currency")
	cmd.Flags().StringVar(&paymentType, "payment-type", constants.DefaultPaymentType, "payment type (transfer, cash, card, ...)")
	cmd.Flags().StringVar(&paidAt, "date", "", "payment date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "idempotency key (random UUID when empty)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newInvoicesDownloadCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "download INVOICE_ID",
		Short: "Download an invoice PDF",
		Long:  "Download the invoice PDF to a file, or to stdout with --file -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invoiceID, err := parseID(args[0])
			if err != nil {
				return err
			}

			target := file
			if target == "" {
				target = fmt.Sprintf("invoice-%d.pdf", invoiceID)
			}

			return runWithClient(cmd, func(ctx context.Context, client superfaktura.Client) error {
				if target == "-" {
					_, err := client.Invoices().Download(ctx, invoiceID, cmd.OutOrStdout())

					return err
				}

				return downloadToFile(ctx, client, invoiceID, target, cmd)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "output file (default invoice-<ID>.pdf, - for stdout)")

	return cmd
}

func downloadToFile(ctx context.Context, client superfaktura.Client, invoiceID int, path string, cmd *cobra.Command) error {
	// #nosec G304 -- user supplied output path
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	_, err = client.Invoices().Download(ctx, invoiceID, out)

	closeErr := out.Close()

	if err != nil {
		_ = os.Remove(path)

		return err
	}

	if closeErr != nil {
		return fmt.Errorf("failed to write %s: %w", path, closeErr)
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Saved invoice %d to %s\n", invoiceID, path)

	return nil
}
