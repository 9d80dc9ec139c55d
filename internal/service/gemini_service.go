package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/talentview/hr-insight/internal/apperr"
	"github.com/talentview/hr-insight/internal/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type LLMServiceInterface interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// GeminiService wraps the genai client with the bounded-retry policy every
// LLM call goes through: exponential backoff with jitter, a per-request
// timeout, and a consecutive-failure circuit breaker.
type GeminiService struct {
	Client         *genai.Client
	Model          string
	EmbeddingModel string
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RequestTimeout time.Duration

	logger            *zap.Logger
	consecutiveErrors atomic.Int64
	circuitBreakerMax int64
}

func NewGeminiService(ctx context.Context, logger *zap.Logger) (*GeminiService, error) {
	geminiConfig := config.LoadGeminiConfig()
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiService{
		Client:            client,
		Model:             geminiConfig.Model,
		EmbeddingModel:    geminiConfig.EmbeddingModel,
		MaxRetries:        3,
		BaseDelay:         time.Second,
		MaxDelay:          90 * time.Second,
		RequestTimeout:    90 * time.Second,
		logger:            logger,
		circuitBreakerMax: 5,
	}, nil
}

// GenerateContent sends the prompt and returns the model's text reply.
func (s *GeminiService) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	if s.consecutiveErrors.Load() >= s.circuitBreakerMax {
		return "", apperr.Wrap(apperr.ErrAPIUnavailable,
			fmt.Errorf("circuit breaker open: %d consecutive errors", s.consecutiveErrors.Load()))
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.logger.Warn("retrying generate content",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", s.MaxRetries),
				zap.Duration("delay", delay),
			)

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return "", apperr.Wrap(apperr.ErrAPIUnavailable,
					fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err()))
			}
		}

		genConfig := &genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		}

		result, err := s.Client.Models.GenerateContent(timeoutCtx, s.Model, genai.Text(prompt), genConfig)
		if err == nil {
			s.consecutiveErrors.Store(0)
			if err := validateGenerateResponse(result); err != nil {
				return "", apperr.Wrap(apperr.ErrAPIUnavailable, fmt.Errorf("invalid response: %w", err))
			}
			return result.Text(), nil
		}

		lastErr = err

		if !IsRetryableError(err) {
			s.logger.Error("non-retryable llm error", zap.Error(err))
			s.consecutiveErrors.Add(1)
			return "", apperr.Wrap(apperr.ErrAPIUnavailable, fmt.Errorf("generate content failed: %w", err))
		}

		s.logger.Warn("retryable llm error", zap.Int("attempt", attempt+1), zap.Error(err))
	}

	s.consecutiveErrors.Add(1)
	return "", apperr.Wrap(apperr.ErrAPIUnavailable,
		fmt.Errorf("max retries (%d) exceeded for GenerateContent: %w", s.MaxRetries, lastErr))
}

// GenerateEmbedding returns the embedding vector for the given text.
func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmedText := strings.TrimSpace(text)
	if trimmedText == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}

	if len(trimmedText) > 10000 {
		s.logger.Warn("embedding text exceeds recommended limit, truncating",
			zap.Int("length", len(trimmedText)))
		trimmedText = trimmedText[:10000]
	}

	if s.consecutiveErrors.Load() >= s.circuitBreakerMax {
		return nil, apperr.Wrap(apperr.ErrAPIUnavailable,
			fmt.Errorf("circuit breaker open: %d consecutive errors", s.consecutiveErrors.Load()))
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmedText, genai.RoleUser)}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.logger.Warn("retrying generate embedding",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", s.MaxRetries),
				zap.Duration("delay", delay),
			)

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return nil, apperr.Wrap(apperr.ErrAPIUnavailable,
					fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err()))
			}
		}

		result, err := s.Client.Models.EmbedContent(timeoutCtx, s.EmbeddingModel, content, nil)
		if err == nil {
			s.consecutiveErrors.Store(0)
			embedding, err := validateEmbeddingResponse(result)
			if err != nil {
				return nil, apperr.Wrap(apperr.ErrAPIUnavailable, fmt.Errorf("invalid embedding response: %w", err))
			}
			return embedding, nil
		}

		lastErr = err

		if !IsRetryableError(err) {
			s.logger.Error("non-retryable llm error", zap.Error(err))
			s.consecutiveErrors.Add(1)
			return nil, apperr.Wrap(apperr.ErrAPIUnavailable, fmt.Errorf("generate embedding failed: %w", err))
		}

		s.logger.Warn("retryable llm error", zap.Int("attempt", attempt+1), zap.Error(err))
	}

	s.consecutiveErrors.Add(1)
	return nil, apperr.Wrap(apperr.ErrAPIUnavailable,
		fmt.Errorf("max retries (%d) exceeded for GenerateEmbedding: %w", s.MaxRetries, lastErr))
}

// Chat answers a free-text message with a system instruction prepended,
// satisfying the ChatProvider contract.
func (s *GeminiService) Chat(ctx context.Context, system, message string) (string, error) {
	prompt := message
	if strings.TrimSpace(system) != "" {
		prompt = system + "\n\n" + message
	}
	return s.GenerateContent(ctx, prompt)
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))

	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}

	jitter := time.Duration(float64(delay) * 0.25)
	delay = delay - jitter/2 + time.Duration(float64(jitter)*0.5)

	return delay
}

// IsRetryableError classifies an LLM call failure as transient (retry) or
// permanent (give up). Rate limits and server errors retry; auth and
// validation errors do not.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "context canceled") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return false
	}
	if apiErr, ok := err.(*genai.APIError); ok {
		switch apiErr.Code {
		case 429: // Rate limit
			return true
		case 500, 502, 503, 504: // Server errors
			return true
		case 400, 401, 403, 404: // Client errors
			return false
		}
	}

	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF") {
		return true
	}

	return false
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}

	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}

	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}

	return nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embedding := resp.Embeddings[0].Values

	if len(embedding) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}

	for i, val := range embedding {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}

	return embedding, nil
}

func (s *GeminiService) ResetCircuitBreaker() {
	s.consecutiveErrors.Store(0)
	s.logger.Info("circuit breaker reset")
}

func (s *GeminiService) CircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	n := s.consecutiveErrors.Load()
	return int(n), n >= s.circuitBreakerMax
}
