package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrCategoryNotFound = errors.New("category not found")

// Category groups products on a business's menu. SortOrder controls the
// position on the public menu page.
type Category struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewCategory struct {
	Name        string `json:"name" validate:"required,min=1"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order" validate:"min=0"`
}

type UpdateCategory struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,min=0"`
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

const categoryColumns = `
	id, business_id, name, COALESCE(description, ''), sort_order, created_at, updated_at
`

func scanCategory(row *sql.Row) (*Category, error) {
	var cat Category
	err := row.Scan(&cat.ID, &cat.BusinessID, &cat.Name, &cat.Description,
		&cat.SortOrder, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return &cat, nil
}

func (c *Conf) Insert(ctx context.Context, businessID string, nc NewCategory) (*Category, error) {
	query := `
		INSERT INTO categories (id, business_id, name, description, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + categoryColumns
	row := c.db.QueryRowContext(ctx, query,
		uuid.NewString(), businessID, nc.Name, nc.Description, nc.SortOrder)
	return scanCategory(row)
}

// ListByBusiness returns a business's categories in menu order.
func (c *Conf) ListByBusiness(ctx context.Context, businessID string) ([]Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE business_id = $1
		ORDER BY sort_order ASC, name ASC
	`
	rows, err := c.db.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var list []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.BusinessID, &cat.Name, &cat.Description,
			&cat.SortOrder, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		list = append(list, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return list, nil
}

func (c *Conf) Update(ctx context.Context, businessID, categoryID string, uc UpdateCategory) (*Category, error) {
	sets := []string{}
	args := []any{categoryID, businessID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if uc.Name != nil {
		add("name", *uc.Name)
	}
	if uc.Description != nil {
		add("description", *uc.Description)
	}
	if uc.SortOrder != nil {
		add("sort_order", *uc.SortOrder)
	}

	if len(sets) == 0 {
		query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND business_id = $2`
		return scanCategory(c.db.QueryRowContext(ctx, query, categoryID, businessID))
	}

	query := fmt.Sprintf(`
		UPDATE categories
		SET %s, updated_at = NOW()
		WHERE id = $1 AND business_id = $2
		RETURNING %s`, strings.Join(sets, ", "), categoryColumns)
	return scanCategory(c.db.QueryRowContext(ctx, query, args...))
}

// Delete removes a category; products keep existing with a NULL category.
func (c *Conf) Delete(ctx context.Context, businessID, categoryID string) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1 AND business_id = $2`, categoryID, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
