package traderpro

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GetCategories returns all categories.
func (c *Core) GetCategories() ([]Category, error) {
	rows, err := c.db.Query(`SELECT id, name, type, icon, created_at FROM categories ORDER BY created_at`)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query categories", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Type, &cat.Icon, &cat.CreatedAt); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan category", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a new category.
func (c *Core) CreateCategory(in CategoryCreate) (*Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, NewError(ErrCodeInvalidInput, "category name is required")
	}
	typ := strings.ToLower(strings.TrimSpace(in.Type))
	if typ != "income" && typ != "expense" && typ != "both" {
		return nil, NewError(ErrCodeInvalidInput, "type must be income, expense or both")
	}
	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = "Tag"
	}

	category := Category{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      typ,
		Icon:      icon,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := c.db.Exec(`
		INSERT INTO categories (id, name, type, icon, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, category.ID, category.Name, category.Type, category.Icon, category.CreatedAt); err != nil {
		return nil, WrapError(ErrCodeDatabase, "insert category", err)
	}
	return &category, nil
}
