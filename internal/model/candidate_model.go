package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/talentview/hr-insight/internal/ranking"
)

// Candidate is one applicant row. Score columns are nullable: null means the
// LLM could not assess that dimension for this resume. Checks keep every
// stored score inside [0,10] and every rank positive.
type Candidate struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ResumeFingerprint string    `gorm:"type:char(64);uniqueIndex" json:"resume_fingerprint"`

	Name               string `gorm:"type:varchar(255)" json:"name"`
	Gender             string `gorm:"type:varchar(32)" json:"gender"`
	Education          string `gorm:"type:varchar(255)" json:"education"`
	MostRecentJobTitle string `gorm:"type:varchar(255)" json:"most_recent_job_title"`
	MostRecentJobEnd   string `gorm:"type:varchar(7)" json:"most_recent_job_end"` // YYYY-MM
	Strength           string `gorm:"type:text" json:"strength"`

	ExperienceScore    *float64 `gorm:"type:float;check:experience_score >= 0 AND experience_score <= 10" json:"experience_score"`
	APIDesignScore     *float64 `gorm:"type:float;check:api_design_score >= 0 AND api_design_score <= 10" json:"api_design_score"`
	FrameworkScore     *float64 `gorm:"type:float;check:framework_score >= 0 AND framework_score <= 10" json:"framework_score"`
	DatabaseScore      *float64 `gorm:"type:float;check:database_score >= 0 AND database_score <= 10" json:"database_score"`
	CybersecurityScore *float64 `gorm:"type:float;check:cybersecurity_score >= 0 AND cybersecurity_score <= 10" json:"cybersecurity_score"`
	AppDevScore        *float64 `gorm:"type:float;check:app_dev_score >= 0 AND app_dev_score <= 10" json:"app_dev_score"`

	Rank int `gorm:"check:rank > 0" json:"rank"`

	Position   string `gorm:"type:varchar(255);index:idx_candidates_cohort" json:"position"`
	Region     string `gorm:"type:varchar(255);index:idx_candidates_cohort" json:"region"`
	Department string `gorm:"type:varchar(255);index:idx_candidates_cohort" json:"department"`

	Embedding *pgvector.Vector `gorm:"type:vector(3072)" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}

// ScoreMap flattens the nullable score columns into ranking input. Absent
// keys are dimensions the extraction could not fill.
func (c *Candidate) ScoreMap() map[string]float64 {
	scores := make(map[string]float64, 6)
	put := func(dim string, v *float64) {
		if v != nil {
			scores[dim] = *v
		}
	}
	put(ranking.DimExperience, c.ExperienceScore)
	put(ranking.DimAPIDesign, c.APIDesignScore)
	put(ranking.DimFramework, c.FrameworkScore)
	put(ranking.DimDatabase, c.DatabaseScore)
	put(ranking.DimCybersecurity, c.CybersecurityScore)
	put(ranking.DimAppDev, c.AppDevScore)
	return scores
}
