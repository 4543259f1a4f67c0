// Package mask redacts SuperFaktura credentials from strings before they
// reach a log sink.
package mask

import (
	"regexp"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
)

var (
	apiKeyPattern = regexp.MustCompile(`(?i)(apikey=)([^&]+)`)
	emailPattern  = regexp.MustCompile(`(?i)(email=)([^&]+)`)
)

// Auth masks the apikey and email values of an Authorization header.
// An empty header masks to "***". Masking is idempotent.
func Auth(header string) string {
	if header == "" {
		return constants.MaskedValue
	}

	masked := apiKeyPattern.ReplaceAllString(header, "${1}"+constants.MaskedValue)

	return emailPattern.ReplaceAllString(masked, "${1}"+constants.MaskedValue)
}
