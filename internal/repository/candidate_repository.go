package repository

import (
	"errors"

	"github.com/pgvector/pgvector-go"
	"github.com/talentview/hr-insight/internal/apperr"
	"github.com/talentview/hr-insight/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter narrows queries to a position/region/department combination. Empty
// fields mean no constraint on that tag.
type Filter struct {
	Position   string
	Region     string
	Department string
}

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db}
}

// UpsertByFingerprint writes the candidate keyed by its resume fingerprint.
// A resume seen before keeps its id and created_at; everything else is
// overwritten (re-scoring has no history).
func (r *CandidateRepository) UpsertByFingerprint(candidate *model.Candidate) error {
	var existing model.Candidate
	err := r.db.First(&existing, "resume_fingerprint = ?", candidate.ResumeFingerprint).Error
	switch {
	case err == nil:
		candidate.ID = existing.ID
		candidate.CreatedAt = existing.CreatedAt
		return wrapDB(r.db.Save(candidate).Error)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return wrapDB(r.db.Create(candidate).Error)
	default:
		return wrapDB(err)
	}
}

func (r *CandidateRepository) FindByID(id string) (*model.Candidate, error) {
	var candidate model.Candidate
	err := r.db.First(&candidate, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.ErrNotFound, err)
	}
	return &candidate, wrapDB(err)
}

func (r *CandidateRepository) Delete(id string) error {
	res := r.db.Delete(&model.Candidate{}, "id = ?", id)
	if res.Error != nil {
		return wrapDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, gorm.ErrRecordNotFound)
	}
	return nil
}

// Find returns every candidate matching the filter, with no ordering
// guarantee. Callers rank the result themselves.
func (r *CandidateRepository) Find(filter Filter) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := applyFilter(r.db, filter).Find(&candidates).Error
	return candidates, wrapDB(err)
}

// Cohort returns every candidate sharing the exact
// (position, region, department) tags, empty values included. Ranks are
// maintained per cohort.
func (r *CandidateRepository) Cohort(position, region, department string) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := r.db.
		Where("position = ? AND region = ? AND department = ?", position, region, department).
		Find(&candidates).Error
	return candidates, wrapDB(err)
}

// List returns one page of candidates plus the total match count.
func (r *CandidateRepository) List(filter Filter, page, pageSize int) ([]model.Candidate, int64, error) {
	var total int64
	if err := applyFilter(r.db.Model(&model.Candidate{}), filter).Count(&total).Error; err != nil {
		return nil, 0, wrapDB(err)
	}

	var candidates []model.Candidate
	err := applyFilter(r.db, filter).
		Order("rank ASC, name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&candidates).Error
	return candidates, total, wrapDB(err)
}

// SaveRanks persists recomputed cohort ranks.
func (r *CandidateRepository) SaveRanks(ranks map[string]int) error {
	return wrapDB(r.db.Transaction(func(tx *gorm.DB) error {
		for id, rank := range ranks {
			if err := tx.Model(&model.Candidate{}).Where("id = ?", id).Update("rank", rank).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

// SearchByEmbedding returns the topK candidates nearest to the query
// embedding, optionally scoped by the filter. Rows without an embedding are
// skipped.
func (r *CandidateRepository) SearchByEmbedding(embedding pgvector.Vector, topK int, filter Filter) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := applyFilter(r.db.Where("embedding IS NOT NULL"), filter).
		Clauses(clause.OrderBy{Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []any{embedding}}}).
		Limit(topK).
		Find(&candidates).Error
	return candidates, wrapDB(err)
}

func applyFilter(db *gorm.DB, filter Filter) *gorm.DB {
	if filter.Position != "" {
		db = db.Where("position = ?", filter.Position)
	}
	if filter.Region != "" {
		db = db.Where("region = ?", filter.Region)
	}
	if filter.Department != "" {
		db = db.Where("department = ?", filter.Department)
	}
	return db
}

func wrapDB(err error) error {
	return apperr.Wrap(apperr.ErrDatabase, err)
}
