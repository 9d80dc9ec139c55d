package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/talentview/hr-insight/internal/dto"
	"github.com/talentview/hr-insight/internal/metrics"
	"github.com/talentview/hr-insight/internal/model"
	"go.uber.org/zap"
)

func TestAskTrimsScopeFilter(t *testing.T) {
	store := newFakeStore()
	llm := &fakeLLM{embedding: []float32{0.1, 0.2}}
	provider := &fakeChatProvider{answer: "Jane Doe looks strongest."}
	uc := NewChatUsecase(store, llm, provider, metrics.NewManager(), zap.NewNop())

	resp, err := uc.Ask(context.Background(), dto.ChatRequestDTO{
		Message:    "Who should I interview first?",
		Position:   "  backend engineer ",
		Department: "platform\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "Jane Doe looks strongest." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
	if store.searchFilter.Position != "backend engineer" {
		t.Errorf("position filter = %q, want trimmed", store.searchFilter.Position)
	}
	if store.searchFilter.Department != "platform" {
		t.Errorf("department filter = %q, want trimmed", store.searchFilter.Department)
	}
}

func TestBuildChatPromptWithoutContext(t *testing.T) {
	got := buildChatPrompt("Who has Go experience?", nil)
	if got != "Who has Go experience?" {
		t.Errorf("prompt without context should pass the question through, got %q", got)
	}
}

func TestBuildChatPromptWithContext(t *testing.T) {
	score := 8.0
	candidates := []model.Candidate{
		{
			Name:            "Jane Doe",
			Position:        "backend engineer",
			Department:      "platform",
			Rank:            1,
			Strength:        "distributed systems",
			ExperienceScore: &score,
		},
		{
			Name: "John Smith",
			Rank: 2,
		},
	}

	got := buildChatPrompt("Who should I interview first?", candidates)

	for _, want := range []string{
		"Candidate context:",
		"Jane Doe",
		"position: backend engineer",
		"strength: distributed systems",
		"experience score: 8.0",
		"John Smith",
		"position: unknown",
		"Question: Who should I interview first?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}
