package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mauroere/cafia/internal/orders"
	"github.com/mauroere/cafia/pkg/ctxmanage"
	"github.com/mauroere/cafia/pkg/logkey"
	"github.com/mauroere/cafia/pkg/whatsapp"
)

// ListOrders is the vendor order queue: recent orders, newest first,
// optionally filtered by status.
func (h *Handler) ListOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := orders.OrderStatus(c.Query("status"))

	summaries, err := h.o.ListByBusiness(c.Request.Context(), biz.ID, status, limit)
	if err != nil {
		if errors.Is(err, orders.ErrUnknownStatus) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		slog.Error("error listing orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetOrder returns one order with its items, scoped to the vendor's business.
func (h *Handler) GetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	order, err := h.o.GetOrder(c.Request.Context(), c.Param("id"), biz.ID)
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

// UpdateOrderStatus applies one step of the order lifecycle. Illegal
// transitions are rejected without touching the record.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	var request struct {
		Status orders.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := h.o.TransitionStatus(c.Request.Context(), c.Param("id"), biz.ID, request.Status)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrUnknownStatus):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		case errors.Is(err, orders.ErrOrderNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, orders.ErrInvalidTransition):
			slog.Error("status transition not allowed", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.OrderID, c.Param("id")), slog.String("Target", string(request.Status)))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Status transition not allowed"})
		default:
			slog.Error("error updating order status", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
		}
		return
	}

	go h.publishStatusChanged(traceId, order)

	response := gin.H{"order": order}
	if order.CustomerPhone != "" {
		wa := whatsapp.NewService(biz.WhatsappNumber)
		response["customer_whatsapp_url"] = wa.StatusUpdateURL(order)
	}

	slog.Info("order status updated", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, order.ID), slog.String("Status", string(order.Status)))
	c.JSON(http.StatusOK, response)
}
