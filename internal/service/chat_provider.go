package service

import "context"

// ChatProvider answers a recruiter message under a system instruction.
// Gemini is the default; the OpenRouter-compatible endpoint is the
// configurable alternative.
type ChatProvider interface {
	Chat(ctx context.Context, system, message string) (string, error)
}
