package llm

import (
	"time"

	"hirehub-backend/internal/candidates"
)

const fallbackScore = 5

// Fallback returns the well-formed placeholder analysis substituted when the
// external service cannot be reached or its response cannot be parsed. The
// record degrades silently rather than failing the pipeline.
func Fallback(reason string) candidates.Analysis {
	return candidates.Analysis{
		OverallScore: fallbackScore,
		Summary:      "Automated analysis could not be completed; the application requires manual review.",
		ExtractedInfo: candidates.ExtractedInfo{
			Skills:     []string{},
			Education:  []string{},
			Experience: []string{},
		},
		Criteria:   []candidates.CriterionScore{},
		RedFlags:   []string{reason},
		AnalyzedAt: time.Now().UTC(),
	}
}

// Normalize coerces a provider result into the fixed value domains: scores
// clamped to 0-10, met states limited to true/false/partially, nil slices
// replaced so consumers never see missing fields.
func Normalize(a candidates.Analysis) candidates.Analysis {
	a.OverallScore = clampScore(a.OverallScore)
	if a.ExtractedInfo.Skills == nil {
		a.ExtractedInfo.Skills = []string{}
	}
	if a.ExtractedInfo.Education == nil {
		a.ExtractedInfo.Education = []string{}
	}
	if a.ExtractedInfo.Experience == nil {
		a.ExtractedInfo.Experience = []string{}
	}
	if a.Criteria == nil {
		a.Criteria = []candidates.CriterionScore{}
	}
	for i := range a.Criteria {
		a.Criteria[i].Score = clampScore(a.Criteria[i].Score)
		switch a.Criteria[i].Met {
		case candidates.MetTrue, candidates.MetFalse, candidates.MetPartially:
		default:
			a.Criteria[i].Met = candidates.MetFalse
		}
	}
	if a.RedFlags == nil {
		a.RedFlags = []string{}
	}
	if a.AnalyzedAt.IsZero() {
		a.AnalyzedAt = time.Now().UTC()
	}
	return a
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
