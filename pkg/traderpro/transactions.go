package traderpro

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateTransaction records an income or expense against one of the user's
// accounts, adjusting the account balance in the same database transaction.
func (c *Core) CreateTransaction(userID string, in TransactionCreate) (*Transaction, error) {
	txType := strings.ToLower(strings.TrimSpace(in.Type))
	if txType != "income" && txType != "expense" {
		return nil, NewError(ErrCodeInvalidInput, "type must be income or expense")
	}
	if in.AccountID == "" {
		return nil, NewError(ErrCodeInvalidInput, "account_id is required")
	}

	account, err := c.GetAccount(userID, in.AccountID)
	if err != nil {
		return nil, err
	}

	record := Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        txType,
		Amount:      in.Amount,
		Category:    strings.TrimSpace(in.Category),
		AccountID:   in.AccountID,
		AccountName: account.Name,
		Date:        strings.TrimSpace(in.Date),
		Note:        in.Note,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	tx, err := c.db.Begin()
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`
		INSERT INTO transactions (id, user_id, type, amount, category, account_id, account_name, date, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.UserID, record.Type, record.Amount, record.Category,
		record.AccountID, record.AccountName, record.Date, record.Note, record.CreatedAt); err != nil {
		return nil, WrapError(ErrCodeDatabase, "insert transaction", err)
	}

	delta := record.Amount
	if txType == "expense" {
		delta = Amount{record.Amount.Neg()}
	}
	if err := adjustAccountBalanceTx(tx, userID, record.AccountID, delta); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, WrapError(ErrCodeDatabase, "commit transaction", err)
	}
	return &record, nil
}

// GetTransactions lists the user's transactions, newest date first.
func (c *Core) GetTransactions(userID string, filter TransactionFilter) ([]Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, category, account_id, account_name, date, note, created_at
		FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}
	query += " ORDER BY date DESC"

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query transactions", err)
	}
	defer rows.Close()

	transactions := []Transaction{}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category,
			&t.AccountID, &t.AccountName, &t.Date, &t.Note, &t.CreatedAt); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan transaction", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// DeleteTransaction removes a transaction and reverts its balance effect.
func (c *Core) DeleteTransaction(userID, transactionID string) error {
	var record Transaction
	err := c.db.QueryRow(`
		SELECT id, type, amount, account_id FROM transactions
		WHERE id = ? AND user_id = ?
	`, transactionID, userID).Scan(&record.ID, &record.Type, &record.Amount, &record.AccountID)
	if err == sql.ErrNoRows {
		return NewError(ErrCodeNotFound, "transaction not found")
	}
	if err != nil {
		return WrapError(ErrCodeDatabase, "query transaction", err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return WrapError(ErrCodeDatabase, "begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM transactions WHERE id = ? AND user_id = ?`, transactionID, userID); err != nil {
		return WrapError(ErrCodeDatabase, "delete transaction", err)
	}

	// Reverting: deleting an income subtracts, deleting an expense adds back.
	delta := record.Amount
	if record.Type == "income" {
		delta = Amount{record.Amount.Neg()}
	}
	if err := adjustAccountBalanceTx(tx, userID, record.AccountID, delta); err != nil {
		// The account may have been deleted; the original behavior drops the
		// adjustment silently in that case.
		if !IsErrorCode(err, ErrCodeNotFound) {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return WrapError(ErrCodeDatabase, "commit transaction", err)
	}
	return nil
}
