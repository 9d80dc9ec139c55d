package usecase

import (
	"fmt"
	"strings"

	"github.com/talentview/hr-insight/internal/apperr"
	"github.com/talentview/hr-insight/internal/ranking"
	"github.com/tidwall/gjson"
)

// extractedProfile is the parsed form of the LLM's extraction reply. Score
// entries are absent when the reply was missing, malformed, or out of
// bounds for that dimension.
type extractedProfile struct {
	Name               string
	Gender             string
	Education          string
	MostRecentJobTitle string
	MostRecentJobEnd   string
	Strength           string
	Scores             map[string]float64
}

// scoreFields maps reply keys to ranking dimensions.
var scoreFields = map[string]string{
	"experienceScore":    ranking.DimExperience,
	"apiDesignScore":     ranking.DimAPIDesign,
	"frameworkScore":     ranking.DimFramework,
	"databaseScore":      ranking.DimDatabase,
	"cybersecurityScore": ranking.DimCybersecurity,
	"appDevScore":        ranking.DimAppDev,
}

var textFields = []string{
	"candidateName",
	"candidateGender",
	"candidateEducation",
	"candidateMostRecentJobTitle",
	"candidateMostRecentJobEnd",
	"candidateStrength",
}

const (
	scoreMin = 0
	scoreMax = 10
)

func buildExtractionPrompt(position, resumeText string) string {
	return fmt.Sprintf(`You are an experienced technical recruiter screening a resume for the position: %s.

Extract the following candidate attributes and return them STRICTLY as a single JSON object with this schema:
{
  "candidateName": "<full name, or null if not specified>",
  "candidateGender": "<gender, or null if not specified>",
  "candidateEducation": "<highest education certificate, or null>",
  "candidateMostRecentJobTitle": "<most recent job title, or null>",
  "candidateMostRecentJobEnd": "<most recent job ending time as YYYY-MM, or null>",
  "candidateStrength": "<best technical strength in one short phrase, or null>",
  "experienceScore": <float 0-10, experience relevant to the position, or null>,
  "apiDesignScore": <float 0-10, API design experience, or null>,
  "frameworkScore": <float 0-10, framework knowledge, or null>,
  "databaseScore": <float 0-10, database skills, or null>,
  "cybersecurityScore": <float 0-10, cybersecurity knowledge, or null>,
  "appDevScore": <float 0-10, app development experience, or null>
}

Use null for anything the resume does not support. Do not invent attributes.
Return only the JSON object, no markdown and no commentary.

Resume:
%s
`, position, resumeText)
}

// parseProfile reads the LLM reply field by field. It always returns a
// usable profile; the second return value reports which fields could not be
// filled (nil when the reply was complete).
func parseProfile(raw string) (*extractedProfile, *apperr.PartialExtraction) {
	profile := &extractedProfile{Scores: make(map[string]float64, len(scoreFields))}

	cleaned := extractJSON(raw)
	if !gjson.Valid(cleaned) {
		missing := make([]string, 0, len(textFields)+len(scoreFields))
		missing = append(missing, textFields...)
		for key := range scoreFields {
			missing = append(missing, key)
		}
		return profile, &apperr.PartialExtraction{Missing: missing}
	}

	var missing []string

	readText := func(key string) string {
		value := gjson.Get(cleaned, key)
		text := strings.TrimSpace(value.String())
		if !value.Exists() || value.Type == gjson.Null || text == "" || strings.EqualFold(text, "nan") {
			missing = append(missing, key)
			return ""
		}
		return text
	}

	profile.Name = readText("candidateName")
	profile.Gender = readText("candidateGender")
	profile.Education = readText("candidateEducation")
	profile.MostRecentJobTitle = readText("candidateMostRecentJobTitle")
	profile.MostRecentJobEnd = readText("candidateMostRecentJobEnd")
	profile.Strength = readText("candidateStrength")

	for key, dim := range scoreFields {
		value := gjson.Get(cleaned, key)
		if !value.Exists() || value.Type != gjson.Number {
			missing = append(missing, key)
			continue
		}
		score := value.Float()
		if score < scoreMin || score > scoreMax {
			// Out-of-bound scores are rejected, not clamped into range.
			missing = append(missing, key)
			continue
		}
		profile.Scores[dim] = score
	}

	if len(missing) > 0 {
		return profile, &apperr.PartialExtraction{Missing: missing}
	}
	return profile, nil
}

// extractJSON strips markdown fences and isolates the outermost JSON object
// from a reply that may wrap it in prose.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```json") {
		raw = strings.TrimPrefix(raw, "```json")
	} else if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```")
	}
	if idx := strings.LastIndex(raw, "```"); idx != -1 {
		raw = raw[:idx]
	}
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}
