package orders

import "time"

// OrderStatus is the closed set of states an order can be in. Transitions
// between them are defined by the table in status.go.
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusPickedUp       OrderStatus = "PICKED_UP"
	StatusCancelled      OrderStatus = "CANCELLED"
	StatusRejected       OrderStatus = "REJECTED"
)

// OrderType distinguishes how the customer receives the order.
type OrderType string

const (
	TypeDelivery OrderType = "DELIVERY"
	TypeTakeaway OrderType = "TAKEAWAY"
)

// Order represents one customer purchase from one business.
type Order struct {
	ID              string      `json:"id"`
	ShortID         string      `json:"short_id"` // human-facing id shown on tickets
	CustomerID      string      `json:"customer_id"`
	BusinessID      string      `json:"business_id"`
	Status          OrderStatus `json:"status"`
	Type            OrderType   `json:"type"`
	TotalAmount     float64     `json:"total_amount"`
	DeliveryAddress string      `json:"delivery_address,omitempty"`
	CustomerPhone   string      `json:"customer_phone,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	PaymentID       string      `json:"payment_id,omitempty"`
	PaymentStatus   string      `json:"payment_status,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem is one product line within an order. UnitPrice is a snapshot
// taken at order time and never changes with the product's current price.
type OrderItem struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"` // product name at order time
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// NewOrderItem is the payload for one line of a new order.
type NewOrderItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// NewOrder is the payload for creating an order.
type NewOrder struct {
	BusinessID      string         `json:"business_id" validate:"required"`
	Type            OrderType      `json:"type" validate:"required,oneof=DELIVERY TAKEAWAY"`
	Items           []NewOrderItem `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string         `json:"delivery_address"`
	CustomerPhone   string         `json:"customer_phone"`
	Notes           string         `json:"notes"`
}
