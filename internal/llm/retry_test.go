package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type awsResponseError struct {
	status int
}

func (e awsResponseError) Error() string {
	return fmt.Sprintf("operation error Bedrock Runtime: InvokeModel, https response error StatusCode: %d", e.status)
}

func (e awsResponseError) HTTPStatusCode() int {
	return e.status
}

func fastPolicy(retries int) RetryPolicy {
	return RetryPolicy{MaxRetries: retries, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestWithRetry_SucceedsAfterRetryableError(t *testing.T) {
	calls := 0
	invoke := func(ctx context.Context, req LLMRequest) (*LLMResponse, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("ThrottlingException: Rate exceeded")
		}
		return &LLMResponse{Content: "ok"}, nil
	}

	resp, err := WithRetry(context.Background(), fastPolicy(3), LLMRequest{Prompt: "p"}, invoke)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Expected content 'ok', got %q", resp.Content)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	invoke := func(ctx context.Context, req LLMRequest) (*LLMResponse, error) {
		calls++
		return nil, errors.New("ValidationException: bad model id")
	}

	_, err := WithRetry(context.Background(), fastPolicy(5), LLMRequest{}, invoke)
	if err == nil || !strings.Contains(err.Error(), "non-retryable") {
		t.Fatalf("Expected non-retryable error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	invoke := func(ctx context.Context, req LLMRequest) (*LLMResponse, error) {
		calls++
		return nil, errors.New("503 ServiceUnavailableException")
	}

	_, err := WithRetry(context.Background(), fastPolicy(2), LLMRequest{}, invoke)
	if err == nil || !strings.Contains(err.Error(), "max retries 2 exceeded") {
		t.Fatalf("Expected exhaustion error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
}

func TestWithRetry_ZeroRetriesStillCallsOnce(t *testing.T) {
	calls := 0
	invoke := func(ctx context.Context, req LLMRequest) (*LLMResponse, error) {
		calls++
		return &LLMResponse{Content: "x"}, nil
	}

	if _, err := WithRetry(context.Background(), RetryPolicy{}, LLMRequest{}, invoke); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("TooManyRequestsException"), true},
		{errors.New("POST https://api.openai.com: 429 Too Many Requests"), true},
		{errors.New("Error 503, Message: UNAVAILABLE"), true},
		{errors.New("read tcp: connection reset by peer"), true},
		{errors.New("401 Unauthorized"), false},
		{errors.New("model claude-3-5-sonnet-20241022: max_tokens 5000 exceeds 4096"), false},
		{errors.New("invalid request id req_5021503"), false},
		{WithStatus(errors.New("rate limited"), 429), true},
		{fmt.Errorf("invoke: %w", WithStatus(errors.New("bad gateway"), 502)), true},
		{WithStatus(errors.New("Service Unavailable"), 400), false},
		{awsResponseError{status: 503}, true},
		{awsResponseError{status: 403}, false},
		{context.DeadlineExceeded, false},
		{context.Canceled, false},
	}

	for _, tt := range tests {
		if got := IsRetryableError(tt.err); got != tt.want {
			t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestStatusCode(t *testing.T) {
	if code, ok := StatusCode(fmt.Errorf("wrapped: %w", WithStatus(errors.New("x"), 529))); !ok || code != 529 {
		t.Errorf("Expected 529, got %d/%v", code, ok)
	}
	if _, ok := StatusCode(errors.New("HTTP 500")); ok {
		t.Error("Plain error text should not yield a status")
	}
	if err := WithStatus(nil, 500); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	maxDelay := 100 * time.Millisecond
	for attempt := 0; attempt < 20; attempt++ {
		d := CalculateBackoff(attempt, 10*time.Millisecond, maxDelay)
		if d > maxDelay+maxDelay/5 {
			t.Errorf("attempt %d: backoff %v above cap plus jitter", attempt, d)
		}
		if d <= 0 {
			t.Errorf("attempt %d: backoff %v not positive", attempt, d)
		}
	}
}
