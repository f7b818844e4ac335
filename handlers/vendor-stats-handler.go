package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mauroere/cafia/pkg/ctxmanage"
	"github.com/mauroere/cafia/pkg/logkey"
)

// GetStats serves the vendor dashboard snapshot.
func (h *Handler) GetStats(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	vendorStats, err := h.st.VendorStats(c.Request.Context(), biz.ID)
	if err != nil {
		slog.Error("error computing vendor stats", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.BusinessID, biz.ID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, vendorStats)
}

// GetTopProducts returns the business's best sellers by ordered quantity.
func (h *Handler) GetTopProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	top, err := h.st.TopProducts(c.Request.Context(), biz.ID, limit)
	if err != nil {
		slog.Error("error computing top products", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.BusinessID, biz.ID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute top products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": top})
}
