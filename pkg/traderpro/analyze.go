package traderpro

import (
	"context"
	"strings"
	"time"
)

// Analyze runs the full market-analysis pipeline for one request: resolve the
// symbol to candidate identifiers, fetch a historical bar series with
// candidate fallback, compute technical indicators, ask the generative model
// for a structured read, and assemble the sanitized result.
//
// Only NOT_FOUND and PROVIDER_UNAVAILABLE surface as errors; every AI-stage
// failure degrades to a neutral zero-confidence analysis so the caller always
// receives the market data.
func (c *Core) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		return nil, NewError(ErrCodeInvalidInput, "symbol is required")
	}
	period := strings.TrimSpace(req.Period)
	if period == "" {
		period = "1d"
	}
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = "en"
	}

	candidates := resolveCandidates(symbol)
	bars, resolvedSymbol, err := c.market.fetchSeries(ctx, candidates, period)
	if err != nil {
		return nil, err
	}

	indicators := computeIndicators(bars)
	c.logger.Info("market data processed",
		"symbol", resolvedSymbol,
		"period", period,
		"bars", len(bars),
		"price", indicators.CurrentPrice,
		"rsi", indicators.RSI14,
	)

	prompt := buildAnalysisPrompt(resolvedSymbol, period, language, indicators)
	outcome := c.analyst.analyze(ctx, resolvedSymbol, prompt, indicators.CurrentPrice)

	return assembleResult(resolvedSymbol, indicators, outcome, time.Now()), nil
}
