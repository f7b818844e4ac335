package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrProductUnavailable = errors.New("product unavailable")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// CreateOrder inserts a new PENDING order with its items in one transaction.
// Unit prices are snapshotted from the product table inside the same
// transaction so a later price change never rewrites an existing order.
// deliveryFee is added to the total for delivery orders.
func (c *Conf) CreateOrder(ctx context.Context, customerID string, no NewOrder, deliveryFee float64) (*Order, error) {
	orderID := uuid.NewString()
	order := &Order{
		ID:              orderID,
		ShortID:         strings.ToUpper(orderID[:8]),
		CustomerID:      customerID,
		BusinessID:      no.BusinessID,
		Status:          StatusPending,
		Type:            no.Type,
		DeliveryAddress: no.DeliveryAddress,
		CustomerPhone:   no.CustomerPhone,
		Notes:           no.Notes,
	}

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		queryProduct := `
			SELECT name, price, is_available
			FROM products
			WHERE id = $1 AND business_id = $2
		`
		var total float64
		for _, item := range no.Items {
			var name string
			var price float64
			var available bool
			err := tx.QueryRowContext(ctx, queryProduct, item.ProductID, no.BusinessID).Scan(&name, &price, &available)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("product %s: %w", item.ProductID, ErrProductUnavailable)
				}
				return fmt.Errorf("failed to query product: %w", err)
			}
			if !available {
				return fmt.Errorf("product %s: %w", item.ProductID, ErrProductUnavailable)
			}
			subtotal := price * float64(item.Quantity)
			total += subtotal
			order.Items = append(order.Items, OrderItem{
				ID:        uuid.NewString(),
				OrderID:   orderID,
				ProductID: item.ProductID,
				Name:      name,
				Quantity:  item.Quantity,
				UnitPrice: price,
				Subtotal:  subtotal,
			})
		}

		if no.Type == TypeDelivery {
			total += deliveryFee
		}
		order.TotalAmount = total

		queryInsertOrder := `
			INSERT INTO orders (id, short_id, customer_id, business_id, status, type,
			                    total_amount, delivery_address, customer_phone, notes,
			                    created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			RETURNING created_at, updated_at
		`
		err := tx.QueryRowContext(ctx, queryInsertOrder,
			order.ID, order.ShortID, order.CustomerID, order.BusinessID,
			order.Status, order.Type, order.TotalAmount,
			order.DeliveryAddress, order.CustomerPhone, order.Notes,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		queryInsertItem := `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for _, item := range order.Items {
			_, err := tx.ExecContext(ctx, queryInsertItem,
				item.ID, item.OrderID, item.ProductID, item.Name,
				item.Quantity, item.UnitPrice, item.Subtotal)
			if err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// TransitionStatus applies a single-step status transition for an order
// owned by the given business. The current status is read under a row lock
// so two concurrent transitions cannot both validate against a stale status.
// No mutation happens when the transition is rejected.
func (c *Conf) TransitionStatus(ctx context.Context, orderID, businessID string, target OrderStatus) (*Order, error) {
	if !ValidStatus(target) {
		return nil, ErrUnknownStatus
	}

	var order *Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		queryLock := `
			SELECT status
			FROM orders
			WHERE id = $1 AND business_id = $2
			FOR UPDATE
		`
		var current OrderStatus
		err := tx.QueryRowContext(ctx, queryLock, orderID, businessID).Scan(&current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		if err := CanTransition(current, target); err != nil {
			return err
		}

		queryUpdate := `
			UPDATE orders
			SET status = $1, updated_at = NOW()
			WHERE id = $2
		`
		if _, err := tx.ExecContext(ctx, queryUpdate, target, orderID); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		order, err = c.getOrderTx(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder returns an order with its items, scoped to the owning business.
func (c *Conf) GetOrder(ctx context.Context, orderID, businessID string) (*Order, error) {
	return c.getOrderScoped(ctx, orderID, "business_id", businessID)
}

// GetOrderForCustomer returns an order with its items, scoped to the customer
// that placed it.
func (c *Conf) GetOrderForCustomer(ctx context.Context, orderID, customerID string) (*Order, error) {
	return c.getOrderScoped(ctx, orderID, "customer_id", customerID)
}

func (c *Conf) getOrderScoped(ctx context.Context, orderID, scopeColumn, scopeID string) (*Order, error) {
	var order *Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		order, err = c.getOrderTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		switch scopeColumn {
		case "business_id":
			if order.BusinessID != scopeID {
				return ErrOrderNotFound
			}
		case "customer_id":
			if order.CustomerID != scopeID {
				return ErrOrderNotFound
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (c *Conf) getOrderTx(ctx context.Context, tx *sql.Tx, orderID string) (*Order, error) {
	queryOrder := `
		SELECT id, short_id, customer_id, business_id, status, type, total_amount,
		       COALESCE(delivery_address, ''), COALESCE(customer_phone, ''), COALESCE(notes, ''),
		       COALESCE(payment_id, ''), COALESCE(payment_status, ''),
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	var o Order
	err := tx.QueryRowContext(ctx, queryOrder, orderID).Scan(
		&o.ID, &o.ShortID, &o.CustomerID, &o.BusinessID, &o.Status, &o.Type,
		&o.TotalAmount, &o.DeliveryAddress, &o.CustomerPhone, &o.Notes,
		&o.PaymentID, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	queryItems := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := tx.QueryContext(ctx, queryItems, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return &o, nil
}

// OrderSummary is the row shape of the vendor order queue listing.
type OrderSummary struct {
	ID           string      `json:"id"`
	ShortID      string      `json:"short_id"`
	Status       OrderStatus `json:"status"`
	Type         OrderType   `json:"type"`
	TotalAmount  float64     `json:"total_amount"`
	CustomerName string      `json:"customer_name"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ListByBusiness returns the most recent orders for a business, newest
// first, optionally filtered by status.
func (c *Conf) ListByBusiness(ctx context.Context, businessID string, status OrderStatus, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT o.id, o.short_id, o.status, o.type, o.total_amount,
		       COALESCE(u.name, 'Cliente'), o.created_at
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		WHERE o.business_id = $1
	`
	args := []any{businessID}
	if status != "" {
		if !ValidStatus(status) {
			return nil, ErrUnknownStatus
		}
		query += ` AND o.status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY o.created_at DESC LIMIT %d`, limit)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var summaries []OrderSummary
	for rows.Next() {
		var s OrderSummary
		if err := rows.Scan(&s.ID, &s.ShortID, &s.Status, &s.Type, &s.TotalAmount,
			&s.CustomerName, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return summaries, nil
}

// RecordPayment stores the gateway payment id and status on the order.
// Payment callbacks never drive the status state machine.
func (c *Conf) RecordPayment(ctx context.Context, orderID, paymentID, paymentStatus string) error {
	query := `
		UPDATE orders
		SET payment_id = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3
	`
	res, err := c.db.ExecContext(ctx, query, paymentID, paymentStatus, orderID)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback tx: %w", er)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}
