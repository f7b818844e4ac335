package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

const productColumns = `
	id, business_id, COALESCE(category_id, ''), name, COALESCE(description, ''),
	price, COALESCE(image_url, ''), is_available, created_at, updated_at
`

func scanProduct(row *sql.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.BusinessID, &p.CategoryID, &p.Name, &p.Description,
		&p.Price, &p.ImageURL, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}

// Insert adds a product to a business's menu.
func (c *Conf) Insert(ctx context.Context, businessID string, np NewProduct) (*Product, error) {
	available := true
	if np.IsAvailable != nil {
		available = *np.IsAvailable
	}
	var categoryID any
	if np.CategoryID != "" {
		categoryID = np.CategoryID
	}

	query := `
		INSERT INTO products (id, business_id, category_id, name, description, price,
		                      image_url, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + productColumns
	row := c.db.QueryRowContext(ctx, query,
		uuid.NewString(), businessID, categoryID, np.Name, np.Description,
		np.Price, np.ImageURL, available)
	return scanProduct(row)
}

// GetByID returns a product scoped to its business.
func (c *Conf) GetByID(ctx context.Context, businessID, productID string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND business_id = $2`
	return scanProduct(c.db.QueryRowContext(ctx, query, productID, businessID))
}

// ListByBusiness returns a business's products ordered by name. An empty
// categoryID matches every category; onlyAvailable drops hidden products.
func (c *Conf) ListByBusiness(ctx context.Context, businessID, categoryID string, onlyAvailable bool) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE business_id = $1`
	args := []any{businessID}
	if categoryID != "" {
		args = append(args, categoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if onlyAvailable {
		query += ` AND is_available`
	}
	query += ` ORDER BY name ASC`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.CategoryID, &p.Name, &p.Description,
			&p.Price, &p.ImageURL, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return list, nil
}

// Update applies the non-nil fields of the payload.
func (c *Conf) Update(ctx context.Context, businessID, productID string, up UpdateProduct) (*Product, error) {
	sets := []string{}
	args := []any{productID, businessID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if up.Name != nil {
		add("name", *up.Name)
	}
	if up.Description != nil {
		add("description", *up.Description)
	}
	if up.Price != nil {
		add("price", *up.Price)
	}
	if up.ImageURL != nil {
		add("image_url", *up.ImageURL)
	}
	if up.CategoryID != nil {
		if *up.CategoryID == "" {
			sets = append(sets, "category_id = NULL")
		} else {
			add("category_id", *up.CategoryID)
		}
	}
	if up.IsAvailable != nil {
		add("is_available", *up.IsAvailable)
	}

	if len(sets) == 0 {
		return c.GetByID(ctx, businessID, productID)
	}

	query := fmt.Sprintf(`
		UPDATE products
		SET %s, updated_at = NOW()
		WHERE id = $1 AND business_id = $2
		RETURNING %s`, strings.Join(sets, ", "), productColumns)
	return scanProduct(c.db.QueryRowContext(ctx, query, args...))
}

// Delete removes a product from the menu. Past order items keep their
// snapshot of the name and price.
func (c *Conf) Delete(ctx context.Context, businessID, productID string) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1 AND business_id = $2`, productID, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
