package traderpro

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateAccount inserts a new account for the user.
func (c *Core) CreateAccount(userID string, in AccountCreate) (*Account, error) {
	name := strings.TrimSpace(in.Name)
	if userID == "" || name == "" {
		return nil, NewError(ErrCodeInvalidInput, "user id and account name are required")
	}

	account := Account{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Type:      strings.TrimSpace(in.Type),
		Balance:   in.Balance,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	_, err := c.db.Exec(`
		INSERT INTO accounts (id, user_id, name, type, balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, account.ID, account.UserID, account.Name, account.Type, account.Balance, account.CreatedAt)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "insert account", err)
	}
	return &account, nil
}

// GetAccounts returns all accounts owned by the user.
func (c *Core) GetAccounts(userID string) ([]Account, error) {
	rows, err := c.db.Query(`
		SELECT id, user_id, name, type, balance, created_at
		FROM accounts WHERE user_id = ? ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query accounts", err)
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		var acc Account
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.Name, &acc.Type, &acc.Balance, &acc.CreatedAt); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan account", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// GetAccount returns one account owned by the user.
func (c *Core) GetAccount(userID, accountID string) (*Account, error) {
	var acc Account
	err := c.db.QueryRow(`
		SELECT id, user_id, name, type, balance, created_at
		FROM accounts WHERE id = ? AND user_id = ?
	`, accountID, userID).Scan(&acc.ID, &acc.UserID, &acc.Name, &acc.Type, &acc.Balance, &acc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, NewError(ErrCodeNotFound, "account not found")
	}
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query account", err)
	}
	return &acc, nil
}

// UpdateAccount replaces the mutable fields of an account.
func (c *Core) UpdateAccount(userID, accountID string, in AccountCreate) (*Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewError(ErrCodeInvalidInput, "account name is required")
	}
	result, err := c.db.Exec(`
		UPDATE accounts SET name = ?, type = ?, balance = ?
		WHERE id = ? AND user_id = ?
	`, name, strings.TrimSpace(in.Type), in.Balance, accountID, userID)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "update account", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "update account", err)
	}
	if affected == 0 {
		return nil, NewError(ErrCodeNotFound, "account not found")
	}
	return c.GetAccount(userID, accountID)
}

// DeleteAccount removes an account owned by the user.
func (c *Core) DeleteAccount(userID, accountID string) error {
	result, err := c.db.Exec(`DELETE FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID)
	if err != nil {
		return WrapError(ErrCodeDatabase, "delete account", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return WrapError(ErrCodeDatabase, "delete account", err)
	}
	if affected == 0 {
		return NewError(ErrCodeNotFound, "account not found")
	}
	return nil
}

func adjustAccountBalanceTx(tx *sql.Tx, userID, accountID string, delta Amount) error {
	result, err := tx.Exec(`
		UPDATE accounts SET balance = balance + ?
		WHERE id = ? AND user_id = ?
	`, delta, accountID, userID)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return NewError(ErrCodeNotFound, "account not found")
	}
	return nil
}
