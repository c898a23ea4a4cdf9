package traderpro

import "fmt"

const analysisPromptTemplate = `You are an elite Wall Street Quant & Technical Analyst with 20 years of experience.
Perform a DEEP DIVE analysis on %s (%s).
Language: %s.

Market Data:
- Current Price: $%.2f
- 24h Change: %.2f%%
- RSI(14): %.2f
- SMA(20): $%.2f
- SMA(50): $%.2f
- Period High: $%.2f
- Period Low: $%.2f

Your Mission:
1. Analyze Market Structure (Trends, Liquidity Zones, Order Blocks).
2. Identify Institutional Activity (Whale movements, Volume anomalies).
3. Provide a clear, actionable Trading Strategy with SPECIFIC PRICE LEVELS.

CRITICAL: You MUST provide EXACT NUMERIC price levels for all signals.

RESPONSE FORMAT (JSON ONLY - No Markdown, No explanations outside JSON):
{
    "sentiment": "Bullish",
    "confidence": 85,
    "signal": {
        "entry_price": "%.2f",
        "stop_loss": "%.2f",
        "take_profit_1": "%.2f",
        "take_profit_2": "%.2f"
    },
    "support_levels": [%.2f, %.2f, %.2f],
    "resistance_levels": [%.2f, %.2f, %.2f],
    "analysis_html": "<p><b>Market Structure:</b> Your deep analysis here...</p><p><b>Whale Watch:</b> Institutional flows...</p><p><b>Verdict:</b> Final recommendation.</p>"
}

RULES:
- ALL price values must be NUMBERS (not strings with $ symbols)
- Calculate entry/stop/targets based on current price: $%.2f
- Use 2-3%% stop loss, 3-6%% take profit targets
- Support levels should be BELOW current price
- Resistance levels should be ABOVE current price
- DO NOT leave any field empty or as placeholder text`

// buildAnalysisPrompt assembles the structured instruction for the generative
// model. The example signal and level values are deterministic offsets from the
// current price, included only to bias the model toward realistic magnitudes.
func buildAnalysisPrompt(symbol, period, language string, ind IndicatorSet) string {
	price := ind.CurrentPrice
	return fmt.Sprintf(analysisPromptTemplate,
		symbol, period, language,
		price, ind.ChangePct, ind.RSI14, ind.SMA20, ind.SMA50, ind.High, ind.Low,
		price, price*0.97, price*1.03, price*1.06,
		price*0.95, price*0.92, price*0.88,
		price*1.05, price*1.08, price*1.12,
		price,
	)
}
