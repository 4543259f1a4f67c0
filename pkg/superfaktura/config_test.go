package superfaktura

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig("user@example.com", "secret", "42")
	require.NoError(t, err)

	assert.True(t, cfg.Sandbox())
	assert.Equal(t, "https://sandbox.superfaktura.sk/", cfg.BaseURL())
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout())
	assert.Equal(t, 3, cfg.MaxRetries())
	assert.Equal(t, "user@example.com", cfg.APIEmail())
	assert.Equal(t, "42", cfg.CompanyID())
}

func TestNewConfig_Production(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig("user@example.com", "secret", "42",
		WithSandbox(false),
		WithTimeout(30*time.Second),
		WithConnectTimeout(2*time.Second),
		WithMaxRetries(0),
	)
	require.NoError(t, err)

	assert.False(t, cfg.Sandbox())
	assert.Equal(t, "https://moja.superfaktura.sk/", cfg.BaseURL())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 2*time.Second, cfg.ConnectTimeout())
	assert.Equal(t, 0, cfg.MaxRetries())
}

func TestNewConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []ConfigOption
		err  error
	}{
		{"negative retries", []ConfigOption{WithMaxRetries(-1)}, ErrNegativeRetries},
		{"zero timeout", []ConfigOption{WithTimeout(0)}, ErrInvalidTimeout},
		{"negative connect timeout", []ConfigOption{WithConnectTimeout(-time.Second)}, ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := NewConfig("a", "b", "c", tt.opts...)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateBaseURL("https://sandbox.superfaktura.sk/"))
	require.NoError(t, validateBaseURL("https://moja.superfaktura.sk/"))

	for _, raw := range []string{
		"https://evil.example.com/",
		"https://sandbox.superfaktura.sk.evil.com/",
		"https://superfaktura.sk/",
		"not a url at all",
		"://",
	} {
		err := validateBaseURL(raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrHostNotAllowed)
	}
}

func TestConfig_AuthHeader(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig("user@example.com", "secret", "42")
	require.NoError(t, err)

	assert.Equal(t, "SFAPI email=user@example.com&apikey=secret&company_id=42", cfg.AuthHeader())
}

func TestConfig_StringMasksCredentials(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig("user@example.com", "secret", "42")
	require.NoError(t, err)

	s := cfg.String()
	assert.NotContains(t, s, "secret")
	assert.NotContains(t, s, "user@example.com")
	assert.Contains(t, s, "company_id=42")
	assert.Contains(t, s, "sandbox.superfaktura.sk")
}
