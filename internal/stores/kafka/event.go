package kafka

import (
	"time"

	"github.com/mauroere/cafia/internal/orders"
)

const (
	TopicOrderCreated       = `cafia.order-created`
	TopicOrderStatusChanged = `cafia.order-status-changed`
)

// Events published to kafka. Consumers (notification workers, analytics)
// are outside this service.

type OrderCreatedEvent struct {
	OrderID     string    `json:"order_id"`
	ShortID     string    `json:"short_id"`
	BusinessID  string    `json:"business_id"`
	CustomerID  string    `json:"customer_id"`
	TotalAmount float64   `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	OrderID    string             `json:"order_id"`
	ShortID    string             `json:"short_id"`
	BusinessID string             `json:"business_id"`
	Status     orders.OrderStatus `json:"status"`
	ChangedAt  time.Time          `json:"changed_at"`
}
