package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mauroere/cafia/internal/business"
	"github.com/mauroere/cafia/pkg/ctxmanage"
	"github.com/mauroere/cafia/pkg/logkey"
)

// GetSettings returns the vendor's storefront configuration.
func (h *Handler) GetSettings(c *gin.Context) {
	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, biz)
}

// UpdateSettings applies a partial update to the storefront configuration.
func (h *Handler) UpdateSettings(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	var settings business.Settings
	if !h.bindAndValidate(c, &settings) {
		return
	}

	updated, err := h.b.UpdateSettings(c.Request.Context(), biz.OwnerID, settings)
	if err != nil {
		slog.Error("error updating settings", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.BusinessID, biz.ID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Settings update failed"})
		return
	}

	h.invalidateMenu(c, biz.Slug)

	c.JSON(http.StatusOK, updated)
}

// UpdateMenuStatus toggles whether the storefront accepts orders.
func (h *Handler) UpdateMenuStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	var request struct {
		IsOpen *bool `json:"is_open" validate:"required"`
	}
	if !h.bindAndValidate(c, &request) {
		return
	}

	updated, err := h.b.SetOpen(c.Request.Context(), biz.OwnerID, *request.IsOpen)
	if err != nil {
		slog.Error("error toggling menu status", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.BusinessID, biz.ID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Menu status update failed"})
		return
	}

	h.invalidateMenu(c, biz.Slug)

	c.JSON(http.StatusOK, updated)
}
