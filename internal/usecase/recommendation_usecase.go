package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/talentview/hr-insight/internal/dto"
	"github.com/talentview/hr-insight/internal/metrics"
	"github.com/talentview/hr-insight/internal/model"
	"github.com/talentview/hr-insight/internal/ranking"
	"github.com/talentview/hr-insight/internal/repository"
	"go.uber.org/zap"
)

const (
	DefaultShortlistLimit = 10
	MaxShortlistLimit     = 100
	defaultRadarLimit     = 4
)

// RecommendationUsecase serves every read path: shortlists, candidate CRUD
// reads, and the dashboard widget queries. It has no side effects beyond
// the explicit admin delete.
type RecommendationUsecase struct {
	candidateRepo CandidateStore
	weights       ranking.Weights
	metrics       *metrics.Manager
	logger        *zap.Logger
}

func NewRecommendationUsecase(
	candidateRepo CandidateStore,
	weights ranking.Weights,
	m *metrics.Manager,
	logger *zap.Logger,
) *RecommendationUsecase {
	return &RecommendationUsecase{
		candidateRepo: candidateRepo,
		weights:       weights,
		metrics:       m,
		logger:        logger,
	}
}

// Shortlist returns the top candidates for the filter, ordered and ranked
// 1..n request-scoped. Zero matches is a valid empty list.
func (uc *RecommendationUsecase) Shortlist(filter repository.Filter, limit int) ([]dto.ShortlistEntryDTO, error) {
	uc.metrics.RecordShortlistQuery()

	ranked, byID, err := uc.rankedCandidates(filter)
	if err != nil {
		return nil, err
	}

	limit = clampLimit(limit)
	shortlist := make([]dto.ShortlistEntryDTO, 0, limit)
	for _, r := range ranked {
		if len(shortlist) == limit {
			break
		}
		shortlist = append(shortlist, dto.ShortlistEntryDTO{
			Candidate:     ToCandidateDTO(byID[r.ID]),
			Rank:          r.Rank,
			WeightedTotal: r.Total,
		})
	}
	return shortlist, nil
}

// Table backs the dashboard's candidates table widget.
func (uc *RecommendationUsecase) Table(filter repository.Filter, limit int) ([]dto.TableRowDTO, error) {
	uc.metrics.RecordShortlistQuery()

	ranked, byID, err := uc.rankedCandidates(filter)
	if err != nil {
		return nil, err
	}

	limit = clampLimit(limit)
	rows := make([]dto.TableRowDTO, 0, limit)
	now := time.Now()
	for _, r := range ranked {
		if len(rows) == limit {
			break
		}
		c := byID[r.ID]
		rows = append(rows, dto.TableRowDTO{
			Name:               c.Name,
			Gender:             c.Gender,
			Education:          c.Education,
			ExperienceScore:    c.ExperienceScore,
			Strength:           c.Strength,
			MostRecentJobTitle: c.MostRecentJobTitle,
			MonthsSinceLastJob: monthsSince(c.MostRecentJobEnd, now),
		})
	}
	return rows, nil
}

// Radar backs the radar chart: the six score dimensions for the top
// candidates by weighted total.
func (uc *RecommendationUsecase) Radar(filter repository.Filter, limit int) ([]dto.RadarRowDTO, error) {
	uc.metrics.RecordShortlistQuery()

	limit = clampRadarLimit(limit)
	ranked, byID, err := uc.rankedCandidates(filter)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.RadarRowDTO, 0, limit)
	for _, r := range ranked {
		if len(rows) == limit {
			break
		}
		c := byID[r.ID]
		rows = append(rows, dto.RadarRowDTO{
			Name: c.Name,
			Scores: map[string]*float64{
				ranking.DimExperience:    c.ExperienceScore,
				ranking.DimAPIDesign:     c.APIDesignScore,
				ranking.DimFramework:     c.FrameworkScore,
				ranking.DimDatabase:      c.DatabaseScore,
				ranking.DimCybersecurity: c.CybersecurityScore,
				ranking.DimAppDev:        c.AppDevScore,
			},
		})
	}
	return rows, nil
}

// ExperienceDistribution counts candidates per experience-score step for
// the distribution histogram. Scores bucket to their nearest half point;
// candidates without an experience score are left out.
func (uc *RecommendationUsecase) ExperienceDistribution(filter repository.Filter) ([]dto.ExperienceBucketDTO, error) {
	uc.metrics.RecordShortlistQuery()

	candidates, err := uc.candidateRepo.Find(filter)
	if err != nil {
		return nil, err
	}

	counts := map[float64]int{}
	for i := range candidates {
		if candidates[i].ExperienceScore == nil {
			continue
		}
		bucket := math.Round(*candidates[i].ExperienceScore*2) / 2
		counts[bucket]++
	}

	buckets := make([]dto.ExperienceBucketDTO, 0, len(counts))
	for score, count := range counts {
		buckets = append(buckets, dto.ExperienceBucketDTO{Score: score, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Score < buckets[j].Score })
	return buckets, nil
}

func (uc *RecommendationUsecase) Get(id string) (*model.Candidate, error) {
	return uc.candidateRepo.FindByID(id)
}

func (uc *RecommendationUsecase) List(filter repository.Filter, page, pageSize int) ([]dto.CandidateDTO, int64, error) {
	candidates, total, err := uc.candidateRepo.List(filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.CandidateDTO, 0, len(candidates))
	for i := range candidates {
		items = append(items, ToCandidateDTO(&candidates[i]))
	}
	return items, total, nil
}

// Delete is the only removal path; candidates are never deleted as a side
// effect of anything else.
func (uc *RecommendationUsecase) Delete(id string) error {
	if err := uc.candidateRepo.Delete(id); err != nil {
		return err
	}
	uc.logger.Info("candidate deleted", zap.String("candidate_id", id))
	return nil
}

func (uc *RecommendationUsecase) rankedCandidates(filter repository.Filter) ([]ranking.Ranked, map[string]*model.Candidate, error) {
	candidates, err := uc.candidateRepo.Find(filter)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]ranking.Entry, 0, len(candidates))
	byID := make(map[string]*model.Candidate, len(candidates))
	for i := range candidates {
		id := candidates[i].ID.String()
		byID[id] = &candidates[i]
		entries = append(entries, ranking.Entry{
			ID:     id,
			Name:   candidates[i].Name,
			Scores: candidates[i].ScoreMap(),
		})
	}
	return ranking.Rank(entries, uc.weights), byID, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultShortlistLimit
	}
	if limit > MaxShortlistLimit {
		return MaxShortlistLimit
	}
	return limit
}

func clampRadarLimit(limit int) int {
	if limit <= 0 {
		return defaultRadarLimit
	}
	if limit > MaxShortlistLimit {
		return MaxShortlistLimit
	}
	return limit
}

// monthsSince parses a YYYY-MM month and returns whole months elapsed, or
// nil when the value is absent or unparseable.
func monthsSince(yearMonth string, now time.Time) *int {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return nil
	}
	months := (now.Year()-t.Year())*12 + int(now.Month()) - int(t.Month())
	if months < 0 {
		months = 0
	}
	return &months
}

func ToCandidateDTO(c *model.Candidate) dto.CandidateDTO {
	return dto.CandidateDTO{
		ID:                 c.ID,
		Name:               c.Name,
		Gender:             c.Gender,
		Education:          c.Education,
		MostRecentJobTitle: c.MostRecentJobTitle,
		MostRecentJobEnd:   c.MostRecentJobEnd,
		Strength:           c.Strength,
		ExperienceScore:    c.ExperienceScore,
		APIDesignScore:     c.APIDesignScore,
		FrameworkScore:     c.FrameworkScore,
		DatabaseScore:      c.DatabaseScore,
		CybersecurityScore: c.CybersecurityScore,
		AppDevScore:        c.AppDevScore,
		Rank:               c.Rank,
		Position:           c.Position,
		Region:             c.Region,
		Department:         c.Department,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}
