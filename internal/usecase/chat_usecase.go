package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/talentview/hr-insight/internal/dto"
	"github.com/talentview/hr-insight/internal/metrics"
	"github.com/talentview/hr-insight/internal/model"
	"github.com/talentview/hr-insight/internal/repository"
	"github.com/talentview/hr-insight/internal/service"
	"go.uber.org/zap"
)

const chatContextSize = 5

const chatSystemPrompt = `You are a recruiting assistant embedded in an HR analytics dashboard.
Answer the recruiter's question using only the candidate profiles provided as context.
When the context does not contain the answer, say so instead of speculating.
Keep answers short and factual.`

// ChatUsecase answers ad-hoc recruiter questions. Candidate context comes
// from embedding similarity over stored resumes; answers are never
// persisted.
type ChatUsecase struct {
	candidateRepo CandidateStore
	embedder      service.LLMServiceInterface
	provider      service.ChatProvider
	metrics       *metrics.Manager
	logger        *zap.Logger
}

func NewChatUsecase(
	candidateRepo CandidateStore,
	embedder service.LLMServiceInterface,
	provider service.ChatProvider,
	m *metrics.Manager,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		candidateRepo: candidateRepo,
		embedder:      embedder,
		provider:      provider,
		metrics:       m,
		logger:        logger,
	}
}

// Ask forwards the recruiter's question to the chat provider, folding in
// the nearest stored candidates as context. Context retrieval is best
// effort: without embeddings the question still goes out, just unscoped.
func (uc *ChatUsecase) Ask(ctx context.Context, req dto.ChatRequestDTO) (*dto.ChatResponseDTO, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	filter := repository.Filter{
		Position:   strings.TrimSpace(req.Position),
		Department: strings.TrimSpace(req.Department),
	}

	var contextCandidates []model.Candidate
	if embedding, err := uc.embedder.GenerateEmbedding(ctx, message); err != nil {
		uc.logger.Warn("chat context embedding failed, answering without context", zap.Error(err))
	} else {
		contextCandidates, err = uc.candidateRepo.SearchByEmbedding(pgvector.NewVector(embedding), chatContextSize, filter)
		if err != nil {
			uc.logger.Warn("chat context retrieval failed, answering without context", zap.Error(err))
		}
	}

	prompt := buildChatPrompt(message, contextCandidates)

	answer, err := uc.provider.Chat(ctx, chatSystemPrompt, prompt)
	uc.metrics.RecordChat(err)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(contextCandidates))
	for i := range contextCandidates {
		if contextCandidates[i].Name != "" {
			names = append(names, contextCandidates[i].Name)
		}
	}

	return &dto.ChatResponseDTO{Answer: answer, ContextNames: names}, nil
}

// buildChatPrompt folds the retrieved candidate profiles into the message.
func buildChatPrompt(message string, candidates []model.Candidate) string {
	if len(candidates) == 0 {
		return message
	}

	var b strings.Builder
	b.WriteString("Candidate context:\n")
	for i := range candidates {
		c := &candidates[i]
		fmt.Fprintf(&b, "- %s (position: %s, department: %s, rank: %d)",
			orUnknown(c.Name), orUnknown(c.Position), orUnknown(c.Department), c.Rank)
		if c.Strength != "" {
			fmt.Fprintf(&b, ", strength: %s", c.Strength)
		}
		if c.ExperienceScore != nil {
			fmt.Fprintf(&b, ", experience score: %.1f", *c.ExperienceScore)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(message)
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
