package traderpro

import (
	"math"
	"time"
)

// finitePtr returns a pointer to v, or nil when v is NaN or infinite so the
// field serializes as JSON null instead of leaking a non-finite number.
func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func cleanLevels(levels []float64) []*float64 {
	cleaned := make([]*float64, 0, len(levels))
	for _, v := range levels {
		cleaned = append(cleaned, finitePtr(v))
	}
	return cleaned
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// assembleResult builds the final transport-safe response: non-finite numerics
// become null, except change_24h which always stays a finite rounded float
// because consumers expect a numeric percentage.
func assembleResult(symbol string, ind IndicatorSet, outcome analysisOutcome, now time.Time) *AnalysisResult {
	return &AnalysisResult{
		Symbol:           symbol,
		Price:            finitePtr(ind.CurrentPrice),
		Change24h:        round2(finiteOr(ind.ChangePct, 0)),
		Sentiment:        outcome.Sentiment,
		Confidence:       outcome.Confidence,
		Analysis:         outcome.Analysis,
		Signal:           outcome.Signal,
		SupportLevels:    cleanLevels(outcome.SupportLevels),
		ResistanceLevels: cleanLevels(outcome.ResistanceLevels),
		Timestamp:        now.UTC().Format(time.RFC3339),
	}
}
