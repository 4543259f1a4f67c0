package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
)

// JSON formatting.
const defaultJSONIndent = 2

// render writes value as JSON or YAML, or calls fill to populate a table.
func render(w io.Writer, format string, value interface{}, fill func(table *tablewriter.Table) error) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		return encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()

		return encoder.Encode(value)
	case constants.FormatTable, "":
		table := tablewriter.NewWriter(w)

		err := fill(table)
		if err != nil {
			return err
		}

		err = table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedFlag, format)
	}
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidID, raw)
	}

	return id, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q", constants.ErrInvalidAmount, raw)
	}

	return amount, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(constants.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", constants.ErrInvalidDate, raw)
	}

	return parsed, nil
}

func formatMoney(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(constants.MoneyPrecision)
}

func formatOptionalMoney(value *float64) string {
	if value == nil {
		return constants.NotAvailable
	}

	return formatMoney(*value)
}

func valueOrNA(value *string) string {
	if value == nil {
		return constants.NotAvailable
	}

	return orNA(*value)
}

func orNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func checkMark(value bool) string {
	if value {
		return constants.CheckMarkSymbol
	}

	return ""
}

// readPayload reads a JSON object from path, or from stdin when path is "-".
func readPayload(path string, stdin io.Reader) (map[string]any, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- user supplied payload file
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var payload map[string]any

	err = decoder.Decode(&payload)
	if err != nil || payload == nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrPayloadNotMap, path)
	}

	return payload, nil
}
