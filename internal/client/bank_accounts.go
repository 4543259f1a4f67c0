package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fivetwenty-io/superfaktura-client/internal/coerce"
	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
	sfhttp "github.com/fivetwenty-io/superfaktura-client/internal/http"
	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// BankAccountsClient implements superfaktura.BankAccountsClient.
type BankAccountsClient struct {
	httpClient *sfhttp.Client
}

// NewBankAccountsClient creates a new bank accounts client.
func NewBankAccountsClient(httpClient *sfhttp.Client) *BankAccountsClient {
	return &BankAccountsClient{
		httpClient: httpClient,
	}
}

// Add implements superfaktura.BankAccountsClient.Add.
func (c *BankAccountsClient) Add(ctx context.Context, payload map[string]any) (*superfaktura.BankAccount, error) {
	form, err := formData(nonNil(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, &sfhttp.Request{
		Operation:   "addBankAccount",
		Description: "add bank account",
		Method:      http.MethodPost,
		Path:        constants.PathBankAccountAdd,
		Form:        form,
	})
	if err != nil {
		return nil, err
	}

	result, _ := decodeObject(resp.Body)
	account := superfaktura.BankAccountFromMap(result)

	return &account, nil
}

// Update implements superfaktura.BankAccountsClient.Update.
func (c *BankAccountsClient) Update(ctx context.Context, id int, payload map[string]any) (*superfaktura.BankAccount, error) {
	form, err := formData(nonNil(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, &sfhttp.Request{
		Operation:   "updateBankAccount",
		Description: "update bank account",
		Method:      http.MethodPost,
		Path:        fmt.Sprintf(constants.PathBankAccountUpdate, id),
		Form:        form,
		LogFields:   map[string]interface{}{"id": strconv.Itoa(id)},
	})
	if err != nil {
		return nil, err
	}

	result, _ := decodeObject(resp.Body)

	// The record normally sits under "message". When "message" is a plain
	// string the whole response is used, which usually yields an empty
	// account rather than an error.
	if message, ok := coerce.Map(result, constants.KeyMessage); ok {
		result = message
	}

	account := superfaktura.BankAccountFromMap(result)

	return &account, nil
}

// Delete implements superfaktura.BankAccountsClient.Delete.
func (c *BankAccountsClient) Delete(ctx context.Context, id int) (bool, error) {
	resp, err := c.httpClient.Do(ctx, &sfhttp.Request{
		Operation:   "deleteBankAccount",
		Description: "delete bank account",
		Method:      http.MethodPost,
		Path:        fmt.Sprintf(constants.PathBankAccountDelete, id),
		LogFields:   map[string]interface{}{"id": strconv.Itoa(id)},
	})
	if err != nil {
		return false, err
	}

	result, _ := decodeObject(resp.Body)

	// A missing "error" field is indistinguishable from a failure.
	flag, ok := result[constants.KeyError]

	return ok && coerce.IsZeroFlag(flag), nil
}

// List implements superfaktura.BankAccountsClient.List.
func (c *BankAccountsClient) List(ctx context.Context) ([]superfaktura.BankAccount, error) {
	resp, err := c.httpClient.Do(ctx, &sfhttp.Request{
		Operation:   "listBankAccounts",
		Description: "list bank accounts",
		Method:      http.MethodGet,
		Path:        constants.PathBankAccountIndex,
	})
	if err != nil {
		return nil, err
	}

	result, _ := decodeObject(resp.Body)
	rows, _ := coerce.Slice(result, constants.KeyBankAccounts)

	accounts := make([]superfaktura.BankAccount, 0, len(rows))

	for _, row := range rows {
		record, ok := row.(map[string]any)
		if !ok {
			continue
		}

		accounts = append(accounts, superfaktura.BankAccountFromMap(record))
	}

	return accounts, nil
}

func nonNil(payload map[string]any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}

	return payload
}
