package traderpro

import "time"

// Account is a user-owned money account.
type Account struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Balance   Amount `json:"balance"`
	CreatedAt string `json:"created_at"`
}

// AccountCreate holds inputs for creating or updating an account.
type AccountCreate struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance Amount `json:"balance"`
}

// Transaction is one income or expense record against an account.
type Transaction struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Type        string `json:"type"` // "income" or "expense"
	Amount      Amount `json:"amount"`
	Category    string `json:"category"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Date        string `json:"date"`
	Note        string `json:"note"`
	CreatedAt   string `json:"created_at"`
}

// TransactionCreate holds inputs for recording a transaction.
type TransactionCreate struct {
	Type      string `json:"type"`
	Amount    Amount `json:"amount"`
	Category  string `json:"category"`
	AccountID string `json:"account_id"`
	Date      string `json:"date"`
	Note      string `json:"note"`
}

// TransactionFilter narrows transaction listing.
type TransactionFilter struct {
	AccountID string
	StartDate string
	EndDate   string
}

// Category classifies transactions.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"` // "income", "expense" or "both"
	Icon      string `json:"icon"`
	CreatedAt string `json:"created_at"`
}

// CategoryCreate holds inputs for creating a category.
type CategoryCreate struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon"`
}

// CategoryExpense is one slice of the expenses-by-category breakdown.
type CategoryExpense struct {
	Category string `json:"category"`
	Amount   Amount `json:"amount"`
}

// BalancePoint is one point of the running balance history.
type BalancePoint struct {
	Date    string `json:"date"`
	Balance Amount `json:"balance"`
}

// DashboardStats aggregates a user's accounts and transactions.
type DashboardStats struct {
	TotalBalance       Amount            `json:"total_balance"`
	TotalIncome        Amount            `json:"total_income"`
	TotalExpense       Amount            `json:"total_expense"`
	ExpensesByCategory []CategoryExpense `json:"expenses_by_category"`
	BalanceHistory     []BalancePoint    `json:"balance_history"`
}

// Bar is one OHLC bar of a historical price series.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
}

// IndicatorSet holds the technical indicators derived from a price series.
// Every field is finite; undefined computations are replaced with the
// documented defaults before the set leaves the indicator engine.
type IndicatorSet struct {
	CurrentPrice float64
	OpenPrice    float64
	ChangePct    float64
	RSI14        float64
	SMA20        float64
	SMA50        float64
	High         float64
	Low          float64
}

// Signal carries the AI's suggested trade levels as numeric-looking strings.
type Signal struct {
	EntryPrice  string `json:"entry_price"`
	StopLoss    string `json:"stop_loss"`
	TakeProfit1 string `json:"take_profit_1"`
	TakeProfit2 string `json:"take_profit_2"`
}

// AnalysisRequest holds inputs for one analysis run.
type AnalysisRequest struct {
	Symbol   string `json:"symbol"`
	Period   string `json:"period"`   // 15m, 30m, 1h, 4h, 1d, 1wk, 1mo
	Language string `json:"language"` // "en", "tr", "de", ...
}

// AnalysisResult is the final sanitized response of the analysis pipeline.
// Pointer fields are null in JSON when the underlying value was non-finite.
type AnalysisResult struct {
	Symbol           string     `json:"symbol"`
	Price            *float64   `json:"price"`
	Change24h        float64    `json:"change_24h"`
	Sentiment        string     `json:"sentiment"`
	Confidence       int        `json:"confidence"`
	Analysis         string     `json:"analysis"`
	Signal           Signal     `json:"signal"`
	SupportLevels    []*float64 `json:"support_levels"`
	ResistanceLevels []*float64 `json:"resistance_levels"`
	Timestamp        string     `json:"timestamp"`
}
