package llm

import (
	"context"

	"hirehub-backend/internal/candidates"
	"hirehub-backend/internal/shared/metrics"
	"hirehub-backend/internal/shared/telemetry"
)

// AnalyzeInput captures the inputs for a CV analysis request.
type AnalyzeInput struct {
	CVText          string
	JobRequirements string
}

// Provider abstracts the external reasoning service. Implementations may fail;
// the Analyzer wrapper is what guarantees a result.
type Provider interface {
	Analyze(ctx context.Context, input AnalyzeInput) (candidates.Analysis, error)
}

// Analyzer wraps a Provider and absorbs every provider fault. Analyze always
// returns a structurally valid result: on any failure the caller gets a
// neutral fallback with a red flag recording that analysis was unavailable.
type Analyzer struct {
	Provider Provider
}

// Analyze runs the provider and substitutes a fallback result on any fault.
func (a Analyzer) Analyze(ctx context.Context, input AnalyzeInput) candidates.Analysis {
	if a.Provider == nil {
		metrics.IncEnrichmentFallback()
		return Fallback("analysis provider not configured")
	}
	result, err := a.Provider.Analyze(ctx, input)
	if err != nil {
		metrics.IncEnrichmentFallback()
		telemetry.Warn("llm.analyze.fallback", map[string]any{
			"error": err.Error(),
		})
		return Fallback("automated analysis unavailable: " + compactError(err))
	}
	return Normalize(result)
}

func compactError(err error) string {
	msg := err.Error()
	const maxLen = 200
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
