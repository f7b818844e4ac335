package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mauroere/cafia/internal/business"
	"github.com/mauroere/cafia/internal/orders"
	"github.com/mauroere/cafia/pkg/ctxmanage"
	"github.com/mauroere/cafia/pkg/logkey"
)

// MercadoPagoWebhook handles payment notifications. The notification only
// carries the payment id; the payment itself is fetched with the business's
// own access token and matched to the order via external_reference.
// Payment state is recorded on the order but never drives the status
// lifecycle — vendors confirm orders explicitly.
func (h *Handler) MercadoPagoWebhook(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	const maxWebhookBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes)

	businessID := c.Query("business_id")
	if businessID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "business_id is required"})
		return
	}

	var notification struct {
		Type string `json:"type"`
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.ShouldBindJSON(&notification); err != nil {
		slog.Error("failed to bind webhook payload", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if notification.Type != "payment" {
		slog.Info("unhandled webhook type", slog.String(logkey.TraceID, traceId), slog.String("Type", notification.Type))
		c.JSON(http.StatusOK, gin.H{"message": "Event type not handled"})
		return
	}

	biz, err := h.b.GetByID(c.Request.Context(), businessID)
	if err != nil {
		if errors.Is(err, business.ErrBusinessNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		slog.Error("error fetching business", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}
	if biz.MPAccessToken == "" {
		slog.Error("business has no payment credentials", slog.String(logkey.TraceID, traceId), slog.String(logkey.BusinessID, biz.ID))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Business has no payment configuration"})
		return
	}

	mp := h.mpClient(biz.MPAccessToken)
	payment, err := mp.GetPayment(c.Request.Context(), notification.Data.ID)
	if err != nil {
		slog.Error("failed to fetch payment", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch payment"})
		return
	}

	if payment.ExternalReference == "" {
		slog.Error("payment has no external reference", slog.String(logkey.TraceID, traceId), slog.String("Payment ID", payment.ID.String()))
		c.JSON(http.StatusOK, gin.H{"message": "Payment not linked to an order"})
		return
	}

	err = h.o.RecordPayment(c.Request.Context(), payment.ExternalReference, payment.ID.String(), payment.Status)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			slog.Error("payment references unknown order", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.OrderID, payment.ExternalReference))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		slog.Error("failed to record payment", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}

	slog.Info("payment recorded", slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, payment.ExternalReference), slog.String("Payment Status", payment.Status))
	c.Status(http.StatusOK)
}
