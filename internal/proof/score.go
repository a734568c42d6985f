package proof

import "github.com/nao1215/refiner/internal/model"

// Score contributions in hundredths. Summing integers keeps the result exact.
const (
	weightProfile        = 20
	weightPosts          = 20
	weightEngagement     = 20
	weightPostCountExact = 10
	weightPostCountNear  = 5
	weightExportTime     = 10
	weightInteractions   = 10
	weightVerified       = 10

	postCountTolerance = 5
	maxScore           = 100
)

// ConfidenceScore returns the heuristic completeness score of export in
// [0, 1]. Every contribution is independent and the sum is capped at 1.
func ConfidenceScore(export *model.Export) float64 {
	score := 0

	// A validated export always carries a profile.
	score += weightProfile

	if len(export.Posts) > 0 {
		score += weightPosts
	}
	if len(export.EngagementMetrics) > 0 {
		score += weightEngagement
	}

	diff := export.Profile.PostCount - int64(len(export.Posts))
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		score += weightPostCountExact
	case diff <= postCountTolerance:
		score += weightPostCountNear
	}

	if export.DataExportTimestamp != "" {
		score += weightExportTime
	}
	if len(export.Comments) > 0 || len(export.DirectMessages) > 0 {
		score += weightInteractions
	}
	if export.Profile.IsVerified {
		score += weightVerified
	}

	return float64(min(score, maxScore)) / 100
}

// VerificationMethod classifies how export was most likely obtained. Rules
// are evaluated in order and the first match wins.
func VerificationMethod(export *model.Export) model.VerificationMethod {
	hasPosts := len(export.Posts) > 0

	switch {
	case len(export.EngagementMetrics) > 0:
		return model.MethodOfficialDataExport
	case hasPosts && len(export.Stories) == 0:
		return model.MethodAPIScraping
	case hasPosts && len(export.Comments) > 0 && len(export.DirectMessages) > 0:
		return model.MethodComprehensiveDataExport
	default:
		return model.MethodManualVerification
	}
}
