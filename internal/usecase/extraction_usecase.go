package usecase

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/talentview/hr-insight/internal/apperr"
	"github.com/talentview/hr-insight/internal/metrics"
	"github.com/talentview/hr-insight/internal/model"
	"github.com/talentview/hr-insight/internal/ranking"
	"github.com/talentview/hr-insight/internal/service"
	"go.uber.org/zap"
)

// ExtractionInput is one resume plus the recruiter-supplied tags.
type ExtractionInput struct {
	ResumeText string
	Position   string
	Region     string
	Department string
}

type ExtractionUsecase struct {
	candidateRepo CandidateStore
	llm           service.LLMServiceInterface
	weights       ranking.Weights
	metrics       *metrics.Manager
	logger        *zap.Logger
}

func NewExtractionUsecase(
	candidateRepo CandidateStore,
	llm service.LLMServiceInterface,
	weights ranking.Weights,
	m *metrics.Manager,
	logger *zap.Logger,
) *ExtractionUsecase {
	return &ExtractionUsecase{
		candidateRepo: candidateRepo,
		llm:           llm,
		weights:       weights,
		metrics:       m,
		logger:        logger,
	}
}

// Extract runs the full pipeline for one resume: LLM attribute extraction,
// best-effort embedding, fingerprint upsert, cohort re-rank. The partial
// result is non-nil when the reply left fields unfilled; the row is written
// regardless. Only an unreachable LLM aborts without a write.
func (uc *ExtractionUsecase) Extract(ctx context.Context, in ExtractionInput) (*model.Candidate, *apperr.PartialExtraction, error) {
	resumeText := strings.TrimSpace(in.ResumeText)
	if resumeText == "" {
		return nil, nil, fmt.Errorf("resume text is empty")
	}

	prompt := buildExtractionPrompt(in.Position, resumeText)

	start := time.Now()
	raw, err := uc.llm.GenerateContent(ctx, prompt)
	uc.metrics.ObserveLLMRequest(start)
	if err != nil {
		uc.metrics.RecordExtraction(metrics.OutcomeError)
		return nil, nil, err
	}

	profile, partial := parseProfile(raw)
	if partial != nil {
		uc.logger.Warn("partial extraction",
			zap.Strings("missing_fields", partial.Missing),
			zap.String("position", in.Position),
		)
	}

	candidate := &model.Candidate{
		ResumeFingerprint:  Fingerprint(resumeText),
		Name:               profile.Name,
		Gender:             profile.Gender,
		Education:          profile.Education,
		MostRecentJobTitle: profile.MostRecentJobTitle,
		MostRecentJobEnd:   profile.MostRecentJobEnd,
		Strength:           profile.Strength,
		Position:           in.Position,
		Region:             in.Region,
		Department:         in.Department,
		Rank:               1, // placeholder until the cohort re-rank below
	}
	setScore := func(dst **float64, dim string) {
		if score, ok := profile.Scores[dim]; ok {
			value := score
			*dst = &value
		}
	}
	setScore(&candidate.ExperienceScore, ranking.DimExperience)
	setScore(&candidate.APIDesignScore, ranking.DimAPIDesign)
	setScore(&candidate.FrameworkScore, ranking.DimFramework)
	setScore(&candidate.DatabaseScore, ranking.DimDatabase)
	setScore(&candidate.CybersecurityScore, ranking.DimCybersecurity)
	setScore(&candidate.AppDevScore, ranking.DimAppDev)

	// Embedding powers chat context retrieval only; its failure must not
	// fail the extraction.
	if embedding, err := uc.llm.GenerateEmbedding(ctx, resumeText); err != nil {
		uc.logger.Warn("candidate embedding failed", zap.Error(err))
	} else {
		vec := pgvector.NewVector(embedding)
		candidate.Embedding = &vec
	}

	if err := uc.candidateRepo.UpsertByFingerprint(candidate); err != nil {
		uc.metrics.RecordExtraction(metrics.OutcomeError)
		return nil, nil, err
	}

	if err := uc.rerankCohort(candidate); err != nil {
		// The row is stored; a failed re-rank leaves stale but positive ranks.
		uc.logger.Error("cohort re-rank failed", zap.Error(err))
	}

	if partial != nil {
		uc.metrics.RecordExtraction(metrics.OutcomePartial)
	} else {
		uc.metrics.RecordExtraction(metrics.OutcomeOK)
	}

	uc.logger.Info("candidate extracted",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("position", in.Position),
		zap.Int("rank", candidate.Rank),
		zap.Bool("partial", partial != nil),
	)

	return candidate, partial, nil
}

// rerankCohort recomputes ranks for every candidate sharing the upserted
// candidate's tags, keeping the stored ranks consistent with the weighted
// ordering.
func (uc *ExtractionUsecase) rerankCohort(candidate *model.Candidate) error {
	cohort, err := uc.candidateRepo.Cohort(candidate.Position, candidate.Region, candidate.Department)
	if err != nil {
		return err
	}

	entries := make([]ranking.Entry, 0, len(cohort))
	for i := range cohort {
		entries = append(entries, ranking.Entry{
			ID:     cohort[i].ID.String(),
			Name:   cohort[i].Name,
			Scores: cohort[i].ScoreMap(),
		})
	}

	ranks := make(map[string]int, len(entries))
	for _, r := range ranking.Rank(entries, uc.weights) {
		ranks[r.ID] = r.Rank
	}
	if err := uc.candidateRepo.SaveRanks(ranks); err != nil {
		return err
	}

	if rank, ok := ranks[candidate.ID.String()]; ok {
		candidate.Rank = rank
	}
	return nil
}

// Fingerprint identifies a resume by the hash of its whitespace-normalized
// text, so re-uploads update the existing row instead of minting a new id.
func Fingerprint(resumeText string) string {
	normalized := strings.Join(strings.Fields(resumeText), " ")
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum[:])
}
