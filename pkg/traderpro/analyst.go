package traderpro

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

const (
	// Truncation budgets for fallback narratives built from raw model text.
	emptyNarrativeHintChars = 500
	parseFailureHintChars   = 200
)

// generateFunc invokes the generative model with a prompt and returns its raw
// text reply. Injectable for tests.
type generateFunc func(ctx context.Context, prompt string) (string, error)

type analystOptions struct {
	Logger   *slog.Logger
	APIKey   string
	Model    string
	Generate generateFunc // Optional: inject fake model for testing
}

// analyst invokes the generative model and interprets its free-form reply into
// a usable outcome, degrading instead of failing on every AI-stage error.
type analyst struct {
	logger   *slog.Logger
	apiKey   string
	model    string
	generate generateFunc
}

func newAnalyst(opts analystOptions) *analyst {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	a := &analyst{
		logger: logger,
		apiKey: strings.TrimSpace(opts.APIKey),
		model:  model,
	}
	a.generate = opts.Generate
	if a.generate == nil {
		a.generate = a.geminiGenerate
	}
	return a
}

// analysisOutcome is the interpreted AI stage result feeding the final response.
type analysisOutcome struct {
	Sentiment        string
	Confidence       int
	Analysis         string
	Signal           Signal
	SupportLevels    []float64
	ResistanceLevels []float64
}

// analyze runs the AI stage for the given symbol. It never returns an error:
// a missing credential, a failed invocation, or an unparseable reply all
// degrade to a neutral zero-confidence outcome, and the safety net guarantees
// populated signal and level fields on every path.
func (a *analyst) analyze(ctx context.Context, symbol, prompt string, currentPrice float64) analysisOutcome {
	var outcome analysisOutcome

	switch {
	case a.apiKey == "":
		a.logger.Error("generative model api key is missing")
		outcome = analysisOutcome{Sentiment: "Neutral", Confidence: 0, Analysis: "API Key Missing!"}
	default:
		raw, err := a.generate(ctx, prompt)
		if err != nil {
			a.logger.Error("generative model invocation failed", "symbol", symbol, "err", err)
			outcome = analysisOutcome{Sentiment: "Neutral", Confidence: 0, Analysis: fmt.Sprintf("Error: %v", err)}
		} else {
			outcome = interpretModelReply(a.logger, symbol, raw, currentPrice)
		}
	}

	applySafetyNet(&outcome, currentPrice)
	return outcome
}

// modelReply is the expected JSON contract of a well-formed model response.
type modelReply struct {
	Sentiment        string      `json:"sentiment"`
	Confidence       float64     `json:"confidence"`
	AnalysisHTML     string      `json:"analysis_html"`
	Signal           signalReply `json:"signal"`
	SupportLevels    []float64   `json:"support_levels"`
	ResistanceLevels []float64   `json:"resistance_levels"`
}

type signalReply struct {
	EntryPrice  priceText `json:"entry_price"`
	StopLoss    priceText `json:"stop_loss"`
	TakeProfit1 priceText `json:"take_profit_1"`
	TakeProfit2 priceText `json:"take_profit_2"`
}

// priceText accepts either a JSON string or a bare number, normalizing both to
// text with any currency symbol stripped.
type priceText string

func (p *priceText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*p = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = priceText(cleanPriceText(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = priceText(n.String())
	return nil
}

func cleanPriceText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "$", ""))
}

// interpretModelReply strips formatting artifacts from the raw model text,
// attempts the strict JSON parse, and extracts fields with independent
// defaults. Parse failure degrades to a neutral outcome carrying a truncated
// raw-text hint.
func interpretModelReply(logger *slog.Logger, symbol, raw string, currentPrice float64) analysisOutcome {
	cleaned := cleanupModelJSON(raw)

	var reply modelReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		logger.Error("model reply parse failed", "symbol", symbol, "err", err)
		return analysisOutcome{
			Sentiment:  "Neutral",
			Confidence: 0,
			Analysis:   fmt.Sprintf("<p>AI Analysis Unavailable. Raw response: %s...</p>", truncateRunes(cleaned, parseFailureHintChars)),
		}
	}

	sentiment := strings.TrimSpace(reply.Sentiment)
	if sentiment == "" {
		sentiment = "Neutral"
	}

	analysis := strings.TrimSpace(reply.AnalysisHTML)
	if analysis == "" {
		logger.Warn("analysis_html field is empty, using fallback", "symbol", symbol)
		analysis = fmt.Sprintf("<p><b>Market Analysis for %s</b></p><p>Current price: $%.2f</p><p>%s</p>",
			symbol, currentPrice, truncateRunes(cleaned, emptyNarrativeHintChars))
	}

	return analysisOutcome{
		Sentiment:  sentiment,
		Confidence: int(reply.Confidence),
		Analysis:   analysis,
		Signal: Signal{
			EntryPrice:  string(reply.Signal.EntryPrice),
			StopLoss:    string(reply.Signal.StopLoss),
			TakeProfit1: string(reply.Signal.TakeProfit1),
			TakeProfit2: string(reply.Signal.TakeProfit2),
		},
		SupportLevels:    reply.SupportLevels,
		ResistanceLevels: reply.ResistanceLevels,
	}
}

// applySafetyNet guarantees populated signal and level fields by substituting
// deterministic offsets from the current price wherever the model left gaps.
func applySafetyNet(outcome *analysisOutcome, currentPrice float64) {
	if outcome.Signal.EntryPrice == "" {
		outcome.Signal = Signal{
			EntryPrice:  fmt.Sprintf("%.2f", currentPrice),
			StopLoss:    fmt.Sprintf("%.2f", currentPrice*0.97),
			TakeProfit1: fmt.Sprintf("%.2f", currentPrice*1.03),
			TakeProfit2: fmt.Sprintf("%.2f", currentPrice*1.06),
		}
	}
	if len(outcome.SupportLevels) == 0 {
		outcome.SupportLevels = []float64{
			round2(currentPrice * 0.95),
			round2(currentPrice * 0.92),
			round2(currentPrice * 0.90),
		}
	}
	if len(outcome.ResistanceLevels) == 0 {
		outcome.ResistanceLevels = []float64{
			round2(currentPrice * 1.05),
			round2(currentPrice * 1.08),
			round2(currentPrice * 1.12),
		}
	}
}

// cleanupModelJSON removes code-fence wrappers and isolates the outermost JSON
// object from a model reply.
func cleanupModelJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
				lines = lines[:len(lines)-1]
			}
			trimmed = strings.Join(lines, "\n")
		}
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		trimmed = trimmed[start : end+1]
	}
	return strings.TrimSpace(trimmed)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// geminiGenerate invokes the Gemini API with the configured model.
func (a *analyst) geminiGenerate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  a.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create gemini client failed: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.2)),
	}
	response, err := client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	content := strings.TrimSpace(response.Text())
	if content == "" {
		return "", fmt.Errorf("model response content is empty")
	}
	return content, nil
}
