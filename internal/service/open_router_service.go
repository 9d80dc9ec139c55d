package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/talentview/hr-insight/internal/apperr"
	"github.com/talentview/hr-insight/internal/config"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// OpenRouterService talks to an OpenRouter-compatible chat-completions
// endpoint. It only backs the chat feature; extraction always goes through
// Gemini.
type OpenRouterService struct {
	APIKey  string
	Model   string
	BaseURL string

	client *resty.Client
	logger *zap.Logger
}

func NewOpenRouterService(logger *zap.Logger) *OpenRouterService {
	cfg := config.LoadOpenRouterConfig()
	return &OpenRouterService{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		client:  resty.New(),
		logger:  logger,
	}
}

func (s *OpenRouterService) Chat(ctx context.Context, system, message string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model": s.Model,
			"messages": []map[string]string{
				{"role": "system", "content": system},
				{"role": "user", "content": message},
			},
		}).
		Post(s.BaseURL + "/chat/completions")
	if err != nil {
		return "", apperr.Wrap(apperr.ErrAPIUnavailable, err)
	}
	if resp.IsError() {
		s.logger.Error("openrouter error response",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return "", apperr.Wrap(apperr.ErrAPIUnavailable,
			fmt.Errorf("chat completions returned status %d", resp.StatusCode()))
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return "", apperr.Wrap(apperr.ErrAPIUnavailable, fmt.Errorf("no response from LLM"))
	}
	return text, nil
}
