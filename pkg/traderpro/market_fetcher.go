package traderpro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// HTTPDoer is an interface for making HTTP requests. It enables dependency
// injection for testing without network calls.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

const defaultChartBaseURL = "https://query1.finance.yahoo.com"

// maxResponseSize limits external API responses to 1MB to prevent memory exhaustion.
const maxResponseSize = 1 << 20 // 1MB

// periodSpec maps a user-requested aggregation period to the provider's
// interval and range query parameters.
type periodSpec struct {
	Interval string
	Range    string
}

// periodSpecs is the fixed period lookup table. The provider has no native 4h
// granularity, so 4h requests are served with hourly bars.
var periodSpecs = map[string]periodSpec{
	"15m": {Interval: "15m", Range: "5d"},
	"30m": {Interval: "30m", Range: "5d"},
	"1h":  {Interval: "1h", Range: "5d"},
	"4h":  {Interval: "1h", Range: "1mo"},
	"1d":  {Interval: "1d", Range: "1mo"},
	"1wk": {Interval: "1wk", Range: "1y"},
	"1mo": {Interval: "1mo", Range: "2y"},
}

func lookupPeriodSpec(period string) periodSpec {
	if spec, ok := periodSpecs[period]; ok {
		return spec
	}
	return periodSpecs["1d"]
}

type marketFetcherOptions struct {
	Logger      *slog.Logger
	HTTPTimeout time.Duration
	HTTPClient  HTTPDoer // Optional: inject custom client for testing
	BaseURL     string   // Optional: override chart API base URL
}

type marketFetcher struct {
	logger  *slog.Logger
	client  HTTPDoer
	baseURL string
}

func newMarketFetcher(opts marketFetcherOptions) *marketFetcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.HTTPTimeout}
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultChartBaseURL
	}
	return &marketFetcher{
		logger:  logger,
		client:  client,
		baseURL: baseURL,
	}
}

// fetchSeries tries each candidate identifier in order and returns the first
// non-empty bar series along with the identifier that produced it. A failing
// candidate does not stop the loop; the remaining candidates are still tried.
// When every candidate comes back empty the result is NOT_FOUND, but if any
// candidate hit a transport or upstream failure that PROVIDER_UNAVAILABLE
// error wins, so an outage is never conflated with NOT_FOUND.
func (mf *marketFetcher) fetchSeries(ctx context.Context, candidates []string, period string) ([]Bar, string, error) {
	if len(candidates) == 0 {
		return nil, "", NewError(ErrCodeInvalidInput, "symbol is required")
	}
	spec := lookupPeriodSpec(period)

	var lastErr error
	for _, candidate := range candidates {
		mf.logger.Info("fetching history", "symbol", candidate, "interval", spec.Interval, "range", spec.Range)
		bars, err := mf.fetchChart(ctx, candidate, spec)
		if err != nil {
			mf.logger.Warn("candidate fetch failed", "symbol", candidate, "error", err)
			lastErr = err
			continue
		}
		if len(bars) > 0 {
			mf.logger.Info("fetched history", "symbol", candidate, "bars", len(bars))
			return bars, candidate, nil
		}
		mf.logger.Info("no data for candidate", "symbol", candidate)
	}

	if lastErr != nil {
		return nil, "", lastErr
	}
	return nil, "", NewError(ErrCodeNotFound,
		fmt.Sprintf("could not fetch data for %s; verify the symbol is correct", candidates[0]))
}

// chartResponse is the response structure of the provider's chart API.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (mf *marketFetcher) fetchChart(ctx context.Context, symbol string, spec periodSpec) ([]Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		mf.baseURL, url.PathEscape(symbol), spec.Interval, spec.Range)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "build chart request", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := mf.client.Do(req)
	if err != nil {
		return nil, WrapError(ErrCodeProviderUnavailable,
			fmt.Sprintf("market data provider error for %s; please try again later", symbol), err)
	}
	defer resp.Body.Close()

	// Rate limiting is transient, not a statement about the symbol.
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewError(ErrCodeProviderUnavailable,
			fmt.Sprintf("market data provider error for %s (http %d); please try again later", symbol, resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, WrapError(ErrCodeProviderUnavailable,
			fmt.Sprintf("market data provider error for %s", symbol), err)
	}
	// The provider answers unknown symbols with a 4xx and an error payload;
	// that is the not-found path, not an outage.
	if resp.StatusCode >= 400 {
		return nil, nil
	}

	var payload chartResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, WrapError(ErrCodeProviderUnavailable,
			fmt.Sprintf("market data provider returned malformed data for %s", symbol), err)
	}
	if payload.Chart.Error != nil {
		return nil, nil
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})
	return bars, nil
}
