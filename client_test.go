package examgen

import (
	"context"
	"errors"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"auth", &openai.APIError{HTTPStatusCode: 401}, FailureAuth},
		{"forbidden", &openai.APIError{HTTPStatusCode: 403}, FailureAuth},
		{"rate limit", &openai.APIError{HTTPStatusCode: 429}, FailureRateLimit},
		{"server error", &openai.APIError{HTTPStatusCode: 500}, FailureBadResponse},
		{"deadline", context.DeadlineExceeded, FailureTimeout},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), FailureTimeout},
		{"transport", errors.New("connection refused"), FailureNetwork},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			classified := classifyError(tc.err)

			var serviceErr *ServiceError
			if !errors.As(classified, &serviceErr) {
				t.Fatalf("expected ServiceError, got %T", classified)
			}
			if serviceErr.Kind != tc.want {
				t.Fatalf("expected kind %s, got %s", tc.want, serviceErr.Kind)
			}
			if serviceErr.Unwrap() == nil {
				t.Fatalf("classified error should wrap the original")
			}
		})
	}
}

func TestNewClient_Options(t *testing.T) {
	c := NewClient("key", WithModel("other-model"), WithMaxTokens(512), WithTemperature(0.2))
	if c.model != "other-model" {
		t.Fatalf("model option not applied: %s", c.model)
	}
	if c.maxTokens != 512 {
		t.Fatalf("max tokens option not applied: %d", c.maxTokens)
	}
	if c.temperature != 0.2 {
		t.Fatalf("temperature option not applied: %f", c.temperature)
	}
}
