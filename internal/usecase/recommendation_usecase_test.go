package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/talentview/hr-insight/internal/metrics"
	"github.com/talentview/hr-insight/internal/model"
	"github.com/talentview/hr-insight/internal/ranking"
	"github.com/talentview/hr-insight/internal/repository"
	"go.uber.org/zap"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultShortlistLimit},
		{-3, DefaultShortlistLimit},
		{1, 1},
		{42, 42},
		{MaxShortlistLimit, MaxShortlistLimit},
		{MaxShortlistLimit + 1, MaxShortlistLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClampRadarLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, defaultRadarLimit},
		{-1, defaultRadarLimit},
		{2, 2},
		{MaxShortlistLimit, MaxShortlistLimit},
		{MaxShortlistLimit + 1, MaxShortlistLimit},
		{math.MaxInt, MaxShortlistLimit},
	}
	for _, tt := range tests {
		if got := clampRadarLimit(tt.in); got != tt.want {
			t.Errorf("clampRadarLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRadarBoundsAllocation(t *testing.T) {
	store := newFakeStore()
	store.findResult = []model.Candidate{
		{ID: uuid.New(), Name: "Jane Doe"},
		{ID: uuid.New(), Name: "John Smith"},
	}
	uc := NewRecommendationUsecase(store, ranking.NewWeights(nil), metrics.NewManager(), zap.NewNop())

	// A huge query limit must not drive the result allocation.
	rows, err := uc.Radar(repository.Filter{}, math.MaxInt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2", len(rows))
	}
}

func TestMonthsSince(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	if got := monthsSince("2025-11", now); got == nil || *got != 4 {
		t.Errorf("monthsSince(2025-11) = %v, want 4", got)
	}
	if got := monthsSince("2026-03", now); got == nil || *got != 0 {
		t.Errorf("monthsSince(2026-03) = %v, want 0", got)
	}
	// A future end month clamps to zero instead of going negative.
	if got := monthsSince("2026-08", now); got == nil || *got != 0 {
		t.Errorf("monthsSince(2026-08) = %v, want 0", got)
	}
	if got := monthsSince("", now); got != nil {
		t.Errorf("monthsSince(empty) = %v, want nil", got)
	}
	if got := monthsSince("November 2025", now); got != nil {
		t.Errorf("monthsSince(free text) = %v, want nil", got)
	}
}
