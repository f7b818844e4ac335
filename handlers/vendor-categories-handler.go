package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mauroere/cafia/internal/categories"
	"github.com/mauroere/cafia/pkg/ctxmanage"
	"github.com/mauroere/cafia/pkg/logkey"
)

func (h *Handler) ListCategories(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	list, err := h.cat.ListByBusiness(c.Request.Context(), biz.ID)
	if err != nil {
		slog.Error("error listing categories", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	var newCategory categories.NewCategory
	if !h.bindAndValidate(c, &newCategory) {
		return
	}

	category, err := h.cat.Insert(c.Request.Context(), biz.ID, newCategory)
	if err != nil {
		slog.Error("error inserting category", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Category creation failed"})
		return
	}

	h.invalidateMenu(c, biz.Slug)

	c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	var update categories.UpdateCategory
	if !h.bindAndValidate(c, &update) {
		return
	}

	category, err := h.cat.Update(c.Request.Context(), biz.ID, c.Param("id"), update)
	if err != nil {
		if errors.Is(err, categories.ErrCategoryNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		slog.Error("error updating category", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Category update failed"})
		return
	}

	h.invalidateMenu(c, biz.Slug)

	c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	if err := h.cat.Delete(c.Request.Context(), biz.ID, c.Param("id")); err != nil {
		if errors.Is(err, categories.ErrCategoryNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		slog.Error("error deleting category", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Category deletion failed"})
		return
	}

	h.invalidateMenu(c, biz.Slug)

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
