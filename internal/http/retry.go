package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
)

// maxBackoffShift caps the exponent so Delay cannot overflow.
const maxBackoffShift = 30

// RetryPolicy decides whether a finished attempt is retried and how long
// to wait before the next one.
type RetryPolicy struct {
	// MaxRetries is the maximum number of retries after the first attempt.
	MaxRetries int
	// BaseDelay is the wait before the first retry. It doubles for each
	// following retry.
	BaseDelay time.Duration
	// RetryOnCodes lists the HTTP status codes that trigger a retry.
	RetryOnCodes []int
}

// DefaultRetryPolicy retries 429 and the transient 5xx statuses three
// times, waiting 1s, 2s and 4s.
func DefaultRetryPolicy() *RetryPolicy {
	return NewRetryPolicy(constants.DefaultRetryMax)
}

// NewRetryPolicy returns the default policy with a custom retry budget.
func NewRetryPolicy(maxRetries int) *RetryPolicy {
	return &RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  constants.DefaultRetryBaseDelay,
		RetryOnCodes: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// ShouldRetry reports whether the attempt numbered attempt (0-based) is
// retried. Only received responses with a retryable status qualify;
// transport errors are never retried and surface to the caller.
func (p *RetryPolicy) ShouldRetry(attempt int, resp *http.Response, _ error) bool {
	if attempt >= p.MaxRetries {
		return false
	}

	if resp == nil {
		return false
	}

	return slices.Contains(p.RetryOnCodes, resp.StatusCode)
}

// Delay returns BaseDelay * 2^attempt.
func (p *RetryPolicy) Delay(attempt int) time.Duration {
	attempt = max(attempt, 0)
	attempt = min(attempt, maxBackoffShift)

	delay := p.BaseDelay
	for range attempt {
		delay *= constants.ExponentialBackoffBase
	}

	return delay
}

// BackoffDelayMs returns the default backoff in milliseconds:
// 1000 * 2^attempt.
func BackoffDelayMs(attempt int) int64 {
	return DefaultRetryPolicy().Delay(attempt).Milliseconds()
}
