package traderpro

import (
	"sort"

	"github.com/shopspring/decimal"
)

// GetDashboardStats aggregates the user's accounts and transactions into
// dashboard totals, a per-category expense breakdown, and the trailing
// 30 points of running balance history.
func (c *Core) GetDashboardStats(userID string) (*DashboardStats, error) {
	accounts, err := c.GetAccounts(userID)
	if err != nil {
		return nil, err
	}
	transactions, err := c.GetTransactions(userID, TransactionFilter{})
	if err != nil {
		return nil, err
	}

	totalBalance := decimal.Zero
	for _, acc := range accounts {
		totalBalance = totalBalance.Add(acc.Balance.Decimal)
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	expenseByCategory := map[string]decimal.Decimal{}
	for _, t := range transactions {
		switch t.Type {
		case "income":
			totalIncome = totalIncome.Add(t.Amount.Decimal)
		case "expense":
			totalExpense = totalExpense.Add(t.Amount.Decimal)
			expenseByCategory[t.Category] = expenseByCategory[t.Category].Add(t.Amount.Decimal)
		}
	}

	expenses := make([]CategoryExpense, 0, len(expenseByCategory))
	for category, amount := range expenseByCategory {
		expenses = append(expenses, CategoryExpense{Category: category, Amount: Amount{amount}})
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].Category < expenses[j].Category
	})

	return &DashboardStats{
		TotalBalance:       Amount{totalBalance},
		TotalIncome:        Amount{totalIncome},
		TotalExpense:       Amount{totalExpense},
		ExpensesByCategory: expenses,
		BalanceHistory:     balanceHistory(transactions, 30),
	}, nil
}

// balanceHistory replays transactions in date order and keeps the running
// balance at each distinct date, returning the trailing `limit` points.
func balanceHistory(transactions []Transaction, limit int) []BalancePoint {
	ordered := make([]Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})

	running := decimal.Zero
	byDate := map[string]decimal.Decimal{}
	dates := []string{}
	for _, t := range ordered {
		if t.Type == "income" {
			running = running.Add(t.Amount.Decimal)
		} else {
			running = running.Sub(t.Amount.Decimal)
		}
		if _, seen := byDate[t.Date]; !seen {
			dates = append(dates, t.Date)
		}
		byDate[t.Date] = running
	}

	history := make([]BalancePoint, 0, len(dates))
	for _, date := range dates {
		history = append(history, BalancePoint{Date: date, Balance: Amount{byDate[date]}})
	}
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}
