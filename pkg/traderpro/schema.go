package traderpro

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

func initDatabase(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			balance REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)
	`); err != nil {
		return err
	}
	if err := exec(tx, `CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id)`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
			amount REAL NOT NULL,
			category TEXT NOT NULL,
			account_id TEXT NOT NULL,
			account_name TEXT NOT NULL,
			date TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)
	`); err != nil {
		return err
	}
	if err := exec(tx, `CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date)`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('income', 'expense', 'both')),
			icon TEXT NOT NULL DEFAULT 'Tag',
			created_at TEXT NOT NULL
		)
	`); err != nil {
		return err
	}

	if err := seedDefaultCategories(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// seedDefaultCategories populates the category table on first run.
func seedDefaultCategories(tx *sql.Tx) error {
	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		name, typ, icon string
	}{
		{"Salary", "income", "Wallet"},
		{"Freelance", "income", "Briefcase"},
		{"Investment", "income", "TrendingUp"},
		{"Food & Dining", "expense", "UtensilsCrossed"},
		{"Transportation", "expense", "Car"},
		{"Shopping", "expense", "ShoppingBag"},
		{"Bills & Utilities", "expense", "Receipt"},
		{"Entertainment", "expense", "Film"},
		{"Healthcare", "expense", "Heart"},
		{"Education", "expense", "GraduationCap"},
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, cat := range defaults {
		if _, err := tx.Exec(`
			INSERT INTO categories (id, name, type, icon, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, uuid.NewString(), cat.name, cat.typ, cat.icon, now); err != nil {
			return err
		}
	}
	return nil
}

func exec(tx *sql.Tx, query string) error {
	_, err := tx.Exec(query)
	return err
}
