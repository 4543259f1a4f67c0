package commands

import "errors"

// Common static errors used throughout the commands package.
var (
	ErrUnknownConfigKey   = errors.New("unknown config key")
	ErrInvalidConfigValue = errors.New("invalid config value")
	ErrDeleteRejected     = errors.New("bank account was not deleted")
	ErrEmptyPayload       = errors.New("nothing to send, pass --data or at least one field flag")
)
