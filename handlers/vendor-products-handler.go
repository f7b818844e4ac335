package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mauroere/cafia/internal/products"
	"github.com/mauroere/cafia/pkg/ctxmanage"
	"github.com/mauroere/cafia/pkg/logkey"
)

func (h *Handler) ListProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	onlyAvailable := c.Query("is_available") == "true"
	list, err := h.p.ListByBusiness(c.Request.Context(), biz.ID, c.Query("category_id"), onlyAvailable)
	if err != nil {
		slog.Error("error listing products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	var newProduct products.NewProduct
	if !h.bindAndValidate(c, &newProduct) {
		return
	}

	product, err := h.p.Insert(c.Request.Context(), biz.ID, newProduct)
	if err != nil {
		slog.Error("error inserting product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Product creation failed"})
		return
	}

	h.invalidateMenu(c, biz.Slug)

	slog.Info("product created", slog.String(logkey.TraceID, traceId), slog.String(logkey.ProductID, product.ID))
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	var update products.UpdateProduct
	if !h.bindAndValidate(c, &update) {
		return
	}

	product, err := h.p.Update(c.Request.Context(), biz.ID, c.Param("id"), update)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		slog.Error("error updating product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Product update failed"})
		return
	}

	h.invalidateMenu(c, biz.Slug)

	c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	biz, ok := h.vendorBusiness(c)
	if !ok {
		return
	}

	if err := h.p.Delete(c.Request.Context(), biz.ID, c.Param("id")); err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		slog.Error("error deleting product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Product deletion failed"})
		return
	}

	h.invalidateMenu(c, biz.Slug)

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// invalidateMenu drops the cached public menu after any vendor write that
// changes what customers see.
func (h *Handler) invalidateMenu(c *gin.Context, slug string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateMenu(c.Request.Context(), slug); err != nil {
		traceId := ctxmanage.GetTraceIdOfRequest(c)
		slog.Error("menu cache invalidation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
	}
}
