package dto

import (
	"time"

	"github.com/google/uuid"
)

type CandidateDTO struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Gender             string    `json:"gender"`
	Education          string    `json:"education"`
	MostRecentJobTitle string    `json:"most_recent_job_title"`
	MostRecentJobEnd   string    `json:"most_recent_job_end"`
	Strength           string    `json:"strength"`

	ExperienceScore    *float64 `json:"experience_score"`
	APIDesignScore     *float64 `json:"api_design_score"`
	FrameworkScore     *float64 `json:"framework_score"`
	DatabaseScore      *float64 `json:"database_score"`
	CybersecurityScore *float64 `json:"cybersecurity_score"`
	AppDevScore        *float64 `json:"app_dev_score"`

	Rank       int    `json:"rank"`
	Position   string `json:"position"`
	Region     string `json:"region"`
	Department string `json:"department"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExtractionResultDTO is the extraction response: the stored candidate plus
// a marker when the LLM reply left fields unfilled.
type ExtractionResultDTO struct {
	Candidate     CandidateDTO `json:"candidate"`
	Partial       bool         `json:"partial"`
	MissingFields []string     `json:"missing_fields,omitempty"`
}

// ShortlistEntryDTO is one row of an ordered shortlist.
type ShortlistEntryDTO struct {
	Candidate     CandidateDTO `json:"candidate"`
	Rank          int          `json:"rank"`
	WeightedTotal float64      `json:"weighted_total"`
}

// TableRowDTO backs the dashboard's candidates table widget.
type TableRowDTO struct {
	Name               string   `json:"name"`
	Gender             string   `json:"gender"`
	Education          string   `json:"education"`
	ExperienceScore    *float64 `json:"experience_score"`
	Strength           string   `json:"strength"`
	MostRecentJobTitle string   `json:"most_recent_job_title"`
	MonthsSinceLastJob *int     `json:"months_since_last_job"`
}

// RadarRowDTO backs the dashboard's radar chart: the six dimensions for one
// top candidate.
type RadarRowDTO struct {
	Name   string              `json:"name"`
	Scores map[string]*float64 `json:"scores"`
}

// ExperienceBucketDTO backs the experience distribution histogram.
type ExperienceBucketDTO struct {
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

type ChatRequestDTO struct {
	Message    string `json:"message"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

type ChatResponseDTO struct {
	Answer       string   `json:"answer"`
	ContextNames []string `json:"context_names,omitempty"`
}
