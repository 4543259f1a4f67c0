package constants

import "errors"

// Configuration errors.
var (
	ErrAPIKeyRequired = errors.New("API key is required, set SF_API_KEY or pass --api-key")
)

// Validation errors.
var (
	ErrInvalidID       = errors.New("id must be a positive integer")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("date must use the YYYY-MM-DD format")
	ErrPayloadNotMap   = errors.New("payload must be a JSON object")
	ErrUnsupportedFlag = errors.New("unsupported output format")
)
