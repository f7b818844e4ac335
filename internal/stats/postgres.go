package stats

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Store is the Postgres implementation of OrderStore.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Store{db: db}, nil
}

// whereClause renders a Filter into a WHERE fragment over the orders table
// (aliased o) with numbered placeholders.
func whereClause(f Filter) (string, []any) {
	conds := []string{"o.business_id = $1"}
	args := []any{f.BusinessID}

	if len(f.Statuses) > 0 {
		placeholders := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			args = append(args, string(s))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, fmt.Sprintf("o.status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		conds = append(conds, fmt.Sprintf("o.created_at >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		conds = append(conds, fmt.Sprintf("o.created_at < $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func (s *Store) SumAmount(ctx context.Context, f Filter) (float64, error) {
	where, args := whereClause(f)
	query := fmt.Sprintf(`SELECT COALESCE(SUM(o.total_amount), 0) FROM orders o WHERE %s`, where)

	var sum float64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum order amounts: %w", err)
	}
	return sum, nil
}

func (s *Store) CountOrders(ctx context.Context, f Filter) (int, error) {
	where, args := whereClause(f)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM orders o WHERE %s`, where)

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (s *Store) CountDistinctCustomers(ctx context.Context, f Filter) (int, error) {
	where, args := whereClause(f)
	query := fmt.Sprintf(`SELECT COUNT(DISTINCT o.customer_id) FROM orders o WHERE %s`, where)

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distinct customers: %w", err)
	}
	return count, nil
}

func (s *Store) AvgFulfillment(ctx context.Context, f Filter) (time.Duration, error) {
	where, args := whereClause(f)
	query := fmt.Sprintf(`
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (o.updated_at - o.created_at))), 0)
		FROM orders o
		WHERE %s`, where)

	var seconds float64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&seconds); err != nil {
		return 0, fmt.Errorf("failed to average fulfillment time: %w", err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func (s *Store) ProductTotals(ctx context.Context, businessID string) ([]ProductTotal, error) {
	query := `
		SELECT oi.product_id, MAX(oi.product_name), SUM(oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.business_id = $1
		GROUP BY oi.product_id
	`
	rows, err := s.db.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product totals: %w", err)
	}
	defer rows.Close()

	var totals []ProductTotal
	for rows.Next() {
		var t ProductTotal
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.TotalQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan product total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product totals: %w", err)
	}
	return totals, nil
}
