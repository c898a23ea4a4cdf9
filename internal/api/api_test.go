package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"traderpro/pkg/traderpro"
)

// mockHTTPClient fakes the market data provider for handler tests.
type mockHTTPClient struct {
	status int
	body   string
	err    error
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
		Header:     make(http.Header),
	}, nil
}

func chartBody(t *testing.T, closes []float64) string {
	t.Helper()
	timestamps := make([]int64, len(closes))
	quotes := make([]float64, len(closes))
	for i, c := range closes {
		timestamps[i] = int64(1700000000 + i*86400)
		quotes[i] = c
	}
	payload := map[string]any{
		"chart": map[string]any{
			"result": []map[string]any{{
				"timestamp": timestamps,
				"indicators": map[string]any{
					"quote": []map[string]any{{
						"open":  quotes,
						"high":  quotes,
						"low":   quotes,
						"close": quotes,
					}},
				},
			}},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal chart body: %v", err)
	}
	return string(data)
}

func newTestServer(t *testing.T, client traderpro.HTTPDoer, token string) http.Handler {
	t.Helper()
	core, err := traderpro.OpenWithOptions(traderpro.Options{
		DBPath:     filepath.Join(t.TempDir(), "api.db"),
		HTTPClient: client,
	})
	if err != nil {
		t.Fatalf("OpenWithOptions: %v", err)
	}
	t.Cleanup(func() { _ = core.Close() })
	return NewRouter(core, Options{Verifier: StaticTokenVerifier{Token: token}})
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %s: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t, &mockHTTPClient{}, "")
	rec := doRequest(t, handler, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAIAnalysisDegraded(t *testing.T) {
	client := &mockHTTPClient{body: chartBody(t, []float64{100, 101, 102, 103, 104})}
	handler := newTestServer(t, client, "secret")

	rec := doRequest(t, handler, http.MethodPost, "/api/ai-analysis", "secret", map[string]string{"symbol": "BTC"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result traderpro.AnalysisResult
	decodeBody(t, rec, &result)
	if result.Symbol != "BTC-USD" {
		t.Fatalf("expected BTC-USD, got %q", result.Symbol)
	}
	if result.Signal.EntryPrice == "" {
		t.Fatalf("expected populated signal")
	}
}

func TestAIAnalysisUnknownSymbol(t *testing.T) {
	client := &mockHTTPClient{body: `{"chart":{"result":[],"error":null}}`}
	handler := newTestServer(t, client, "secret")

	rec := doRequest(t, handler, http.MethodPost, "/api/ai-analysis", "secret", map[string]string{"symbol": "NOPE123"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if !strings.Contains(body["error"], "NOPE123") {
		t.Fatalf("expected symbol in error, got %v", body)
	}
}

func TestAIAnalysisProviderDown(t *testing.T) {
	client := &mockHTTPClient{status: http.StatusBadGateway}
	handler := newTestServer(t, client, "secret")

	rec := doRequest(t, handler, http.MethodPost, "/api/ai-analysis", "secret", map[string]string{"symbol": "BTC"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAIAnalysisEmptySymbol(t *testing.T) {
	handler := newTestServer(t, &mockHTTPClient{}, "secret")
	rec := doRequest(t, handler, http.MethodPost, "/api/ai-analysis", "secret", map[string]string{"symbol": " "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAIAnalysisMalformedBody(t *testing.T) {
	handler := newTestServer(t, &mockHTTPClient{}, "secret")
	req := httptest.NewRequest(http.MethodPost, "/api/ai-analysis", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAIAnalysisRequiresAuth(t *testing.T) {
	client := &mockHTTPClient{body: chartBody(t, []float64{100, 101})}
	handler := newTestServer(t, client, "secret")

	rec := doRequest(t, handler, http.MethodPost, "/api/ai-analysis", "", map[string]string{"symbol": "BTC"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/ai-analysis", "wrong", map[string]string{"symbol": "BTC"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}
}

func TestAccountsRequireAuth(t *testing.T) {
	handler := newTestServer(t, &mockHTTPClient{}, "secret")

	rec := doRequest(t, handler, http.MethodGet, "/api/accounts", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/accounts", "wrong", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/accounts", "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestAccountLifecycleOverHTTP(t *testing.T) {
	handler := newTestServer(t, &mockHTTPClient{}, "secret")

	rec := doRequest(t, handler, http.MethodPost, "/api/accounts", "secret", map[string]any{
		"name": "Checking", "type": "bank", "balance": 500,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var account traderpro.Account
	decodeBody(t, rec, &account)
	if account.ID == "" || account.Name != "Checking" {
		t.Fatalf("unexpected account %+v", account)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/accounts/"+account.ID, "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodPut, "/api/accounts/"+account.ID, "secret", map[string]any{
		"name": "Savings", "type": "bank", "balance": 750,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}
	var updated traderpro.Account
	decodeBody(t, rec, &updated)
	if updated.Name != "Savings" {
		t.Fatalf("unexpected updated account %+v", updated)
	}

	rec = doRequest(t, handler, http.MethodDelete, "/api/accounts/"+account.ID, "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/accounts/"+account.ID, "secret", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestTransactionsOverHTTP(t *testing.T) {
	handler := newTestServer(t, &mockHTTPClient{}, "secret")

	rec := doRequest(t, handler, http.MethodPost, "/api/accounts", "secret", map[string]any{
		"name": "Main", "type": "cash", "balance": 0,
	})
	var account traderpro.Account
	decodeBody(t, rec, &account)

	rec = doRequest(t, handler, http.MethodPost, "/api/transactions", "secret", map[string]any{
		"type": "income", "amount": 100, "category": "Salary",
		"account_id": account.ID, "date": "2025-06-01",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create transaction: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var record traderpro.Transaction
	decodeBody(t, rec, &record)
	if record.AccountName != "Main" {
		t.Fatalf("unexpected transaction %+v", record)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/transactions?account_id="+account.ID, "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var transactions []traderpro.Transaction
	decodeBody(t, rec, &transactions)
	if len(transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(transactions))
	}

	rec = doRequest(t, handler, http.MethodDelete, "/api/transactions/"+record.ID, "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/transactions", "secret", map[string]any{
		"type": "transfer", "amount": 1, "account_id": account.ID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad type, got %d", rec.Code)
	}
}

func TestCategoriesNeedNoToken(t *testing.T) {
	handler := newTestServer(t, &mockHTTPClient{}, "secret")

	rec := doRequest(t, handler, http.MethodGet, "/api/categories", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var categories []traderpro.Category
	decodeBody(t, rec, &categories)
	if len(categories) != 10 {
		t.Fatalf("expected 10 seeded categories, got %d", len(categories))
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/categories", "", map[string]any{
		"name": "Pets", "type": "expense",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create category: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDashboardStatsOverHTTP(t *testing.T) {
	handler := newTestServer(t, &mockHTTPClient{}, "secret")

	rec := doRequest(t, handler, http.MethodPost, "/api/accounts", "secret", map[string]any{
		"name": "Main", "type": "cash", "balance": 0,
	})
	var account traderpro.Account
	decodeBody(t, rec, &account)

	doRequest(t, handler, http.MethodPost, "/api/transactions", "secret", map[string]any{
		"type": "income", "amount": 300, "category": "Salary",
		"account_id": account.ID, "date": "2025-06-01",
	})

	rec = doRequest(t, handler, http.MethodGet, "/api/dashboard/stats", "secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats traderpro.DashboardStats
	decodeBody(t, rec, &stats)
	if len(stats.BalanceHistory) != 1 {
		t.Fatalf("expected 1 history point, got %+v", stats)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := bearerToken(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
	req.Header.Set("Authorization", "Basic abc")
	if got := bearerToken(req); got != "" {
		t.Fatalf("expected empty for basic auth, got %q", got)
	}
	req.Header.Set("Authorization", "Bearer my-token")
	if got := bearerToken(req); got != "my-token" {
		t.Fatalf("expected my-token, got %q", got)
	}
	req.Header.Set("Authorization", "bearer lower")
	if got := bearerToken(req); got != "lower" {
		t.Fatalf("expected case-insensitive scheme, got %q", got)
	}
}

func TestMapErrorCodeToHTTPStatus(t *testing.T) {
	cases := []struct {
		code traderpro.ErrorCode
		want int
	}{
		{traderpro.ErrCodeInvalidInput, http.StatusBadRequest},
		{traderpro.ErrCodeNotFound, http.StatusNotFound},
		{traderpro.ErrCodeProviderUnavailable, http.StatusServiceUnavailable},
		{traderpro.ErrCodeDatabase, http.StatusInternalServerError},
		{traderpro.ErrCodeInternal, http.StatusInternalServerError},
		{traderpro.ErrorCode("UNKNOWN"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := mapErrorCodeToHTTPStatus(c.code); got != c.want {
			t.Fatalf("mapErrorCodeToHTTPStatus(%s) = %d, want %d", c.code, got, c.want)
		}
	}
}
