package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/talentview/hr-insight/internal/apperr"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", &genai.APIError{Code: 429, Message: "rate limited"}, true},
		{"server error", &genai.APIError{Code: 503, Message: "overloaded"}, true},
		{"bad gateway", &genai.APIError{Code: 502, Message: "bad gateway"}, true},
		{"bad request", &genai.APIError{Code: 400, Message: "invalid argument"}, false},
		{"unauthorized", &genai.APIError{Code: 401, Message: "invalid key"}, false},
		{"forbidden", &genai.APIError{Code: 403, Message: "forbidden"}, false},
		{"not found", &genai.APIError{Code: 404, Message: "model not found"}, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"timeout", errors.New("request timeout"), true},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"unknown", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCircuitBreakerCounter(t *testing.T) {
	s := &GeminiService{circuitBreakerMax: 5, logger: zap.NewNop()}

	if n, open := s.CircuitBreakerStatus(); n != 0 || open {
		t.Fatalf("fresh breaker: count %d open %v", n, open)
	}

	// Concurrent failures must all land on the counter.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.consecutiveErrors.Add(1)
		}()
	}
	wg.Wait()

	if n, open := s.CircuitBreakerStatus(); n != 8 || !open {
		t.Fatalf("after 8 failures: count %d open %v", n, open)
	}

	s.ResetCircuitBreaker()
	if n, open := s.CircuitBreakerStatus(); n != 0 || open {
		t.Fatalf("after reset: count %d open %v", n, open)
	}
}

func TestOpenBreakerRefusesCalls(t *testing.T) {
	s := &GeminiService{circuitBreakerMax: 1, logger: zap.NewNop()}
	s.consecutiveErrors.Store(1)

	_, err := s.GenerateContent(context.Background(), "hello")
	if !apperr.IsAPIUnavailable(err) {
		t.Fatalf("expected api-unavailable error, got %v", err)
	}
}

func TestValidateGenerateResponse(t *testing.T) {
	if err := validateGenerateResponse(nil); err == nil {
		t.Error("nil response must fail validation")
	}
	if err := validateGenerateResponse(&genai.GenerateContentResponse{}); err == nil {
		t.Error("response without candidates must fail validation")
	}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "{}"}}}},
		},
	}
	if err := validateGenerateResponse(resp); err != nil {
		t.Errorf("valid response rejected: %v", err)
	}
}

func TestValidateEmbeddingResponse(t *testing.T) {
	if _, err := validateEmbeddingResponse(nil); err == nil {
		t.Error("nil response must fail validation")
	}
	if _, err := validateEmbeddingResponse(&genai.EmbedContentResponse{}); err == nil {
		t.Error("response without embeddings must fail validation")
	}
	resp := &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, 0.2}}},
	}
	values, err := validateEmbeddingResponse(resp)
	if err != nil {
		t.Fatalf("valid embedding rejected: %v", err)
	}
	if len(values) != 2 {
		t.Errorf("got %d values, want 2", len(values))
	}
}
