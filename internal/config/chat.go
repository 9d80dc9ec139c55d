package config

import (
	"os"
	"sync"
)

type ChatConfig struct {
	Provider string // "gemini" or "openrouter"
}

var (
	chatConfig *ChatConfig
	chatOnce   sync.Once
)

func LoadChatConfig() *ChatConfig {
	chatOnce.Do(func() {
		provider := os.Getenv("CHAT_PROVIDER")
		if provider == "" {
			provider = "gemini"
		}
		chatConfig = &ChatConfig{Provider: provider}
	})
	return chatConfig
}
