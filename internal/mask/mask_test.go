package mask_test

import (
	"testing"

	"github.com/fivetwenty-io/superfaktura-client/internal/mask"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{
			name:     "empty header",
			header:   "",
			expected: "***",
		},
		{
			name:     "full auth header",
			header:   "SFAPI email=user@example.com&apikey=secret123&company_id=42",
			expected: "SFAPI email=***&apikey=***&company_id=42",
		},
		{
			name:     "case insensitive keys",
			header:   "SFAPI EMAIL=user@example.com&ApiKey=secret",
			expected: "SFAPI EMAIL=***&ApiKey=***",
		},
		{
			name:     "apikey at end of string",
			header:   "apikey=abc",
			expected: "apikey=***",
		},
		{
			name:     "nothing to mask",
			header:   "Bearer token",
			expected: "Bearer token",
		},
		{
			name:     "empty values stay untouched",
			header:   "SFAPI email=&apikey=&company_id=1",
			expected: "SFAPI email=&apikey=&company_id=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, mask.Auth(tt.header))
		})
	}
}

func TestAuth_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"SFAPI email=user@example.com&apikey=secret123&company_id=42",
		"apikey=***",
		"random text",
	}

	for _, input := range inputs {
		once := mask.Auth(input)
		assert.Equal(t, once, mask.Auth(once), "masking %q twice changed the result", input)
	}
}

func TestAuth_NeverLeaksSecrets(t *testing.T) {
	t.Parallel()

	masked := mask.Auth("SFAPI email=john@doe.sk&apikey=topsecret&company_id=7")
	assert.NotContains(t, masked, "topsecret")
	assert.NotContains(t, masked, "john@doe.sk")
	assert.Contains(t, masked, "company_id=7")
}
