package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mauroere/cafia/internal/business"
	"github.com/mauroere/cafia/internal/orders"
	"github.com/mauroere/cafia/internal/stores/kafka"
	"github.com/mauroere/cafia/pkg/ctxmanage"
	"github.com/mauroere/cafia/pkg/logkey"
	"github.com/mauroere/cafia/pkg/whatsapp"
)

// Checkout places a new order for the authenticated customer. The order is
// created PENDING; the vendor drives it through the lifecycle from there.
func (h *Handler) Checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := claimsOfRequest(c)
	if !ok {
		return
	}

	var newOrder orders.NewOrder
	if !h.bindAndValidate(c, &newOrder) {
		return
	}
	if newOrder.Type == orders.TypeDelivery && newOrder.DeliveryAddress == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Delivery address is required for delivery orders"})
		return
	}

	biz, err := h.b.GetByID(c.Request.Context(), newOrder.BusinessID)
	if err != nil {
		if errors.Is(err, business.ErrBusinessNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		slog.Error("error fetching business", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}

	if !biz.IsActive || !biz.IsOpen {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Business is not accepting orders"})
		return
	}
	if newOrder.Type == orders.TypeDelivery && !biz.EnableDelivery {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Business does not offer delivery"})
		return
	}
	if newOrder.Type == orders.TypeTakeaway && !biz.EnableTakeaway {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Business does not offer takeaway"})
		return
	}

	order, err := h.o.CreateOrder(c.Request.Context(), claims.Subject, newOrder, biz.DeliveryFee)
	if err != nil {
		if errors.Is(err, orders.ErrProductUnavailable) {
			slog.Error("product unavailable", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "One or more products are unavailable"})
			return
		}
		slog.Error("error creating order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Order creation failed"})
		return
	}

	go h.publishOrderCreated(traceId, order)

	customerName := ""
	if user, err := h.u.GetByID(c.Request.Context(), claims.Subject); err == nil {
		customerName = user.Name
	}

	response := gin.H{"order": order}
	if biz.WhatsappNumber != "" {
		wa := whatsapp.NewService(biz.WhatsappNumber)
		response["whatsapp_url"] = wa.OrderNotificationURL(order, customerName)
	}

	slog.Info("order created", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, order.ID), slog.String(logkey.BusinessID, order.BusinessID))
	c.JSON(http.StatusCreated, response)
}

// GetMyOrder returns one of the caller's own orders with its items.
func (h *Handler) GetMyOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := claimsOfRequest(c)
	if !ok {
		return
	}

	order, err := h.o.GetOrderForCustomer(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		slog.Error("error fetching order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) publishOrderCreated(traceId string, order *orders.Order) {
	if h.k == nil {
		return
	}
	jsonData, err := json.Marshal(kafka.OrderCreatedEvent{
		OrderID:     order.ID,
		ShortID:     order.ShortID,
		BusinessID:  order.BusinessID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	})
	if err != nil {
		slog.Error("failed to marshal OrderCreatedEvent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		return
	}
	if err := h.k.ProduceMessage(kafka.TopicOrderCreated, []byte(order.ID), jsonData); err != nil {
		slog.Error("failed to produce order-created event", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
	}
}

func (h *Handler) publishStatusChanged(traceId string, order *orders.Order) {
	if h.k == nil {
		return
	}
	jsonData, err := json.Marshal(kafka.OrderStatusChangedEvent{
		OrderID:    order.ID,
		ShortID:    order.ShortID,
		BusinessID: order.BusinessID,
		Status:     order.Status,
		ChangedAt:  time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to marshal OrderStatusChangedEvent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		return
	}
	if err := h.k.ProduceMessage(kafka.TopicOrderStatusChanged, []byte(order.ID), jsonData); err != nil {
		slog.Error("failed to produce status-changed event", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
	}
}
