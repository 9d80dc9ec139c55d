package usecase

import (
	"github.com/pgvector/pgvector-go"
	"github.com/talentview/hr-insight/internal/model"
	"github.com/talentview/hr-insight/internal/repository"
)

// CandidateStore is the persistence surface the usecases depend on.
// repository.CandidateRepository is the production implementation.
type CandidateStore interface {
	UpsertByFingerprint(candidate *model.Candidate) error
	FindByID(id string) (*model.Candidate, error)
	Delete(id string) error
	Find(filter repository.Filter) ([]model.Candidate, error)
	Cohort(position, region, department string) ([]model.Candidate, error)
	List(filter repository.Filter, page, pageSize int) ([]model.Candidate, int64, error)
	SaveRanks(ranks map[string]int) error
	SearchByEmbedding(embedding pgvector.Vector, topK int, filter repository.Filter) ([]model.Candidate, error)
}
