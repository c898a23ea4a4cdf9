package traderpro

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func TestFinitePtr(t *testing.T) {
	if finitePtr(math.NaN()) != nil {
		t.Fatalf("expected nil for NaN")
	}
	if finitePtr(math.Inf(-1)) != nil {
		t.Fatalf("expected nil for -Inf")
	}
	p := finitePtr(12.5)
	if p == nil || *p != 12.5 {
		t.Fatalf("expected pointer to 12.5")
	}
}

func TestCleanLevels(t *testing.T) {
	levels := cleanLevels([]float64{95, math.NaN(), 88})
	if len(levels) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(levels))
	}
	if levels[0] == nil || *levels[0] != 95 {
		t.Fatalf("expected first level 95")
	}
	if levels[1] != nil {
		t.Fatalf("expected NaN level to be nil")
	}
}

func TestRound2(t *testing.T) {
	if got := round2(2.344); got != 2.34 {
		t.Fatalf("round2: got %f", got)
	}
	if got := round2(2.346); got != 2.35 {
		t.Fatalf("round2: got %f", got)
	}
	if got := round2(100); got != 100 {
		t.Fatalf("round2: got %f", got)
	}
}

func TestAssembleResult(t *testing.T) {
	ind := IndicatorSet{CurrentPrice: 101.5, ChangePct: 1.2345}
	outcome := analysisOutcome{
		Sentiment:        "Bullish",
		Confidence:       70,
		Analysis:         "<p>ok</p>",
		Signal:           Signal{EntryPrice: "101.50"},
		SupportLevels:    []float64{95},
		ResistanceLevels: []float64{110},
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	result := assembleResult("BTC-USD", ind, outcome, now)
	if result.Symbol != "BTC-USD" {
		t.Fatalf("unexpected symbol %q", result.Symbol)
	}
	if result.Price == nil || *result.Price != 101.5 {
		t.Fatalf("unexpected price %v", result.Price)
	}
	if result.Change24h != 1.23 {
		t.Fatalf("expected rounded change, got %f", result.Change24h)
	}
	if result.Timestamp != "2025-06-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp %q", result.Timestamp)
	}
}

func TestAssembleResultJSONNulls(t *testing.T) {
	ind := IndicatorSet{CurrentPrice: math.NaN()}
	outcome := analysisOutcome{
		Sentiment:     "Neutral",
		SupportLevels: []float64{math.NaN(), 90},
	}
	result := assembleResult("X", ind, outcome, time.Now())

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, `"price":null`) {
		t.Fatalf("expected null price, got %s", body)
	}
	if !strings.Contains(body, `"support_levels":[null,90]`) {
		t.Fatalf("expected null support level, got %s", body)
	}
}
