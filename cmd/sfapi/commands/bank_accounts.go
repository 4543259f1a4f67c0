package commands

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// bankAccountFields maps CLI flags to payload keys.
var bankAccountFields = []struct {
	flag  string
	key   string
	usage string
}{
	{"bank-name", "bank_name", "bank name"},
	{"iban", "iban", "IBAN"},
	{"swift", "swift", "SWIFT/BIC code"},
	{"account", "account", "account number"},
	{"bank-code", "bank_code", "bank code"},
	{"currency", "currency", "account currency"},
}

// NewBankAccountsCommand creates the bank accounts command group.
func NewBankAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bank-accounts",
		Aliases: []string{"bank-account", "ba"},
		Short:   "Manage bank accounts",
		Long:    "List, add, update and delete the company's bank accounts",
	}

	cmd.AddCommand(newBankAccountsListCommand())
	cmd.AddCommand(newBankAccountsAddCommand())
	cmd.AddCommand(newBankAccountsUpdateCommand())
	cmd.AddCommand(newBankAccountsDeleteCommand())

	return cmd
}

func newBankAccountsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bank accounts",
		Long:    "List all bank accounts registered with the company",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, func(ctx context.Context, client superfaktura.Client) error {
				accounts, err := client.BankAccounts().List(ctx)
				if err != nil {
					return err
				}

				return renderBankAccounts(cmd, accounts, accounts)
			})
		},
	}
}

func newBankAccountsAddCommand() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bank account",
		Long:  "Register a new bank account from flags or a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := bankAccountPayload(cmd, dataFile)
			if err != nil {
				return err
			}

			return runWithClient(cmd, func(ctx context.Context, client superfaktura.Client) error {
				account, err := client.BankAccounts().Add(ctx, payload)
				if err != nil {
					return err
				}

				return renderBankAccounts(cmd, account, []superfaktura.BankAccount{*account})
			})
		},
	}

	addBankAccountFlags(cmd, &dataFile)

	return cmd
}

func newBankAccountsUpdateCommand() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "update BANK_ACCOUNT_ID",
		Short: "Update a bank account",
		Long:  "Change the fields of an existing bank account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			payload, err := bankAccountPayload(cmd, dataFile)
			if err != nil {
				return err
			}

			return runWithClient(cmd, func(ctx context.Context, client superfaktura.Client) error {
				account, err := client.BankAccounts().Update(ctx, id, payload)
				if err != nil {
					return err
				}

				return renderBankAccounts(cmd, account, []superfaktura.BankAccount{*account})
			})
		},
	}

	addBankAccountFlags(cmd, &dataFile)

	return cmd
}

func newBankAccountsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete BANK_ACCOUNT_ID",
		Short: "Delete a bank account",
		Long:  "Delete a bank account from the company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return runWithClient(cmd, func(ctx context.Context, client superfaktura.Client) error {
				deleted, err := client.BankAccounts().Delete(ctx, id)
				if err != nil {
					return err
				}

				if !deleted {
					return fmt.Errorf("%w: %d", ErrDeleteRejected, id)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Bank account %d deleted\n", id)

				return nil
			})
		},
	}
}

func addBankAccountFlags(cmd *cobra.Command, dataFile *string) {
	cmd.Flags().StringVar(dataFile, "data", "", "JSON document with bank account fields, or - for stdin")

	for _, field := range bankAccountFields {
		cmd.Flags().String(field.flag, "", field.usage)
	}

	cmd.Flags().Bool("default", false, "make this the default account")
	cmd.Flags().Bool("show", false, "show the account on invoices")
}

// bankAccountPayload merges the --data document with explicitly set flags.
// Flags win over document fields.
func bankAccountPayload(cmd *cobra.Command, dataFile string) (map[string]any, error) {
	payload := map[string]any{}

	if dataFile != "" {
		document, err := readPayload(dataFile, cmd.InOrStdin())
		if err != nil {
			return nil, err
		}

		payload = document
	}

	for _, field := range bankAccountFields {
		if cmd.Flags().Changed(field.flag) {
			value, _ := cmd.Flags().GetString(field.flag)
			payload[field.key] = value
		}
	}

	for _, flag := range []string{"default", "show"} {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetBool(flag)
			payload[flag] = boolFlag(value)
		}
	}

	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	return payload, nil
}

// boolFlag encodes booleans the way the API sends them.
func boolFlag(value bool) int {
	if value {
		return 1
	}

	return 0
}

func renderBankAccounts(cmd *cobra.Command, value interface{}, accounts []superfaktura.BankAccount) error {
	return render(cmd.OutOrStdout(), outputFormat(), value, func(table *tablewriter.Table) error {
		table.Header("ID", "Bank", "IBAN", "SWIFT", "Currency", "Default", "Show")

		for _, account := range accounts {
			_ = table.Append(
				fmt.Sprintf("%d", account.ID),
				valueOrNA(account.BankName),
				valueOrNA(account.IBAN),
				valueOrNA(account.SWIFT),
				valueOrNA(account.Currency),
				checkMark(account.Default),
				checkMark(account.Show),
			)
		}

		return nil
	})
}
