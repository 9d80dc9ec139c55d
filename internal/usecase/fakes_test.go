package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/talentview/hr-insight/internal/apperr"
	"github.com/talentview/hr-insight/internal/model"
	"github.com/talentview/hr-insight/internal/repository"
	"gorm.io/gorm"
)

// fakeStore keeps candidates in memory keyed the same way the real
// repository keys them: by id, with a unique resume fingerprint.
type fakeStore struct {
	candidates    map[string]*model.Candidate
	byFingerprint map[string]string

	findResult   []model.Candidate
	searchResult []model.Candidate
	searchFilter repository.Filter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		candidates:    map[string]*model.Candidate{},
		byFingerprint: map[string]string{},
	}
}

func (f *fakeStore) UpsertByFingerprint(candidate *model.Candidate) error {
	if id, ok := f.byFingerprint[candidate.ResumeFingerprint]; ok {
		existing := f.candidates[id]
		candidate.ID = existing.ID
		candidate.CreatedAt = existing.CreatedAt
	} else {
		candidate.ID = uuid.New()
		candidate.CreatedAt = time.Now()
	}
	stored := *candidate
	f.candidates[candidate.ID.String()] = &stored
	f.byFingerprint[candidate.ResumeFingerprint] = candidate.ID.String()
	return nil
}

func (f *fakeStore) FindByID(id string) (*model.Candidate, error) {
	c, ok := f.candidates[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, gorm.ErrRecordNotFound)
	}
	return c, nil
}

func (f *fakeStore) Delete(id string) error {
	if _, ok := f.candidates[id]; !ok {
		return apperr.Wrap(apperr.ErrNotFound, gorm.ErrRecordNotFound)
	}
	delete(f.candidates, id)
	return nil
}

func (f *fakeStore) Find(filter repository.Filter) ([]model.Candidate, error) {
	if f.findResult != nil {
		return f.findResult, nil
	}
	return f.all(), nil
}

func (f *fakeStore) Cohort(position, region, department string) ([]model.Candidate, error) {
	var cohort []model.Candidate
	for _, c := range f.candidates {
		if c.Position == position && c.Region == region && c.Department == department {
			cohort = append(cohort, *c)
		}
	}
	return cohort, nil
}

func (f *fakeStore) List(filter repository.Filter, page, pageSize int) ([]model.Candidate, int64, error) {
	all := f.all()
	return all, int64(len(all)), nil
}

func (f *fakeStore) SaveRanks(ranks map[string]int) error {
	for id, rank := range ranks {
		if c, ok := f.candidates[id]; ok {
			c.Rank = rank
		}
	}
	return nil
}

func (f *fakeStore) SearchByEmbedding(embedding pgvector.Vector, topK int, filter repository.Filter) ([]model.Candidate, error) {
	f.searchFilter = filter
	return f.searchResult, nil
}

func (f *fakeStore) all() []model.Candidate {
	out := make([]model.Candidate, 0, len(f.candidates))
	for _, c := range f.candidates {
		out = append(out, *c)
	}
	return out
}

type fakeLLM struct {
	reply     string
	embedding []float32
	genErr    error
	embedErr  error
}

func (f *fakeLLM) GenerateContent(_ context.Context, _ string) (string, error) {
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.reply, nil
}

func (f *fakeLLM) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.embedding, nil
}

type fakeChatProvider struct {
	answer      string
	err         error
	lastMessage string
}

func (f *fakeChatProvider) Chat(_ context.Context, _, message string) (string, error) {
	f.lastMessage = message
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
