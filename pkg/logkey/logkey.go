package logkey

// Keys used for structured logging across the service.
const (
	TraceID    = "Trace ID"
	ERROR      = "Error"
	OrderID    = "Order ID"
	BusinessID = "Business ID"
	UserID     = "User ID"
	ProductID  = "Product ID"
)
