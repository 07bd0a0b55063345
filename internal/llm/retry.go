package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// InvokeFunc is a single model call.
type InvokeFunc func(ctx context.Context, request LLMRequest) (*LLMResponse, error)

// WithRetry calls invoke until it succeeds, fails with a non-retryable error,
// or the policy's attempts are spent.
func WithRetry(ctx context.Context, policy RetryPolicy, request LLMRequest, invoke InvokeFunc) (*LLMResponse, error) {
	attempts := policy.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		response, err := invoke(ctx, request)
		if err == nil {
			return response, nil
		}

		lastErr = err

		if !IsRetryableError(err) {
			return nil, fmt.Errorf("non-retryable error: %w", err)
		}

		if attempt == attempts-1 {
			break
		}

		delay := CalculateBackoff(attempt, policy.InitialDelay, policy.MaxDelay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("max retries %d exceeded: %w", attempts, lastErr)
}

// IsRetryableError classifies provider errors by HTTP status when the provider
// reported one, and by well known status names otherwise.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if code, ok := StatusCode(err); ok {
		return retryableStatus(code)
	}

	errStr := err.Error()

	// Throttling
	if strings.Contains(errStr, "ThrottlingException") ||
		strings.Contains(errStr, "TooManyRequestsException") ||
		strings.Contains(errStr, "Too Many Requests") ||
		strings.Contains(errStr, "Rate exceeded") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "overloaded_error") {
		return true
	}

	// 5xx
	if strings.Contains(errStr, "InternalServerException") ||
		strings.Contains(errStr, "ServiceUnavailableException") ||
		strings.Contains(errStr, "Internal Server Error") ||
		strings.Contains(errStr, "Bad Gateway") ||
		strings.Contains(errStr, "Service Unavailable") ||
		strings.Contains(errStr, "UNAVAILABLE") {
		return true
	}

	// Network
	if strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "timeout") {
		return true
	}

	return false
}

// StatusCode finds the HTTP status of a provider error, if it carries one.
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode > 0 {
		return statusErr.StatusCode, true
	}
	var coder httpStatusCoder
	if errors.As(err, &coder) && coder.HTTPStatusCode() > 0 {
		return coder.HTTPStatusCode(), true
	}
	return 0, false
}

func retryableStatus(code int) bool {
	switch {
	case code == 408, code == 429:
		return true
	case code >= 500:
		return true
	}
	return false
}

// CalculateBackoff doubles initialDelay per attempt, caps it at maxDelay and adds +/-20% jitter.
func CalculateBackoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	backoff := float64(initialDelay) * math.Pow(2, float64(attempt))

	if backoff > float64(maxDelay) {
		backoff = float64(maxDelay)
	}

	jitter := backoff * 0.2 * (2*rand.Float64() - 1)
	backoff += jitter

	return time.Duration(backoff)
}
