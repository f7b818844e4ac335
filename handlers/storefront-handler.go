package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mauroere/cafia/internal/business"
	"github.com/mauroere/cafia/internal/categories"
	"github.com/mauroere/cafia/internal/products"
	"github.com/mauroere/cafia/internal/stores/rediscache"
	"github.com/mauroere/cafia/pkg/ctxmanage"
	"github.com/mauroere/cafia/pkg/logkey"
)

// ListBusinesses is the public storefront directory.
func (h *Handler) ListBusinesses(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	search := c.Query("search")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	businesses, err := h.b.ListActive(c.Request.Context(), search, limit)
	if err != nil {
		slog.Error("error listing businesses", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch businesses"})
		return
	}

	type listedBusiness struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		Description    string  `json:"description,omitempty"`
		LogoURL        string  `json:"logo_url,omitempty"`
		Slug           string  `json:"slug"`
		IsOpen         bool    `json:"is_open"`
		EnableDelivery bool    `json:"enable_delivery"`
		EnableTakeaway bool    `json:"enable_takeaway"`
		DeliveryFee    float64 `json:"delivery_fee"`
		PrepTime       int     `json:"estimated_prep_time"`
	}
	out := make([]listedBusiness, 0, len(businesses))
	for _, b := range businesses {
		out = append(out, listedBusiness{
			ID:             b.ID,
			Name:           b.Name,
			Description:    b.Description,
			LogoURL:        b.LogoURL,
			Slug:           b.Slug,
			IsOpen:         b.IsOpen,
			EnableDelivery: b.EnableDelivery,
			EnableTakeaway: b.EnableTakeaway,
			DeliveryFee:    b.DeliveryFee,
			PrepTime:       b.EstimatedPrepTime,
		})
	}

	c.JSON(http.StatusOK, gin.H{"businesses": out})
}

// MenuResponse is the public menu payload, also the shape stored in redis.
type MenuResponse struct {
	Business   MenuBusiness   `json:"business"`
	Categories []MenuCategory `json:"categories"`
}

type MenuBusiness struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	Description    string  `json:"description,omitempty"`
	LogoURL        string  `json:"logo_url,omitempty"`
	Address        string  `json:"address,omitempty"`
	IsOpen         bool    `json:"is_open"`
	EnableDelivery bool    `json:"enable_delivery"`
	EnableTakeaway bool    `json:"enable_takeaway"`
	DeliveryFee    float64 `json:"delivery_fee"`
	PrepTime       int     `json:"estimated_prep_time"`
}

type MenuCategory struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Products []products.Product `json:"products"`
}

// GetMenu serves a storefront's menu, reading through the redis cache.
func (h *Handler) GetMenu(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	slug := c.Param("slug")

	if h.cache != nil {
		var cached MenuResponse
		err := h.cache.GetMenu(c.Request.Context(), slug, &cached)
		if err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
		if !errors.Is(err, rediscache.ErrCacheMiss) {
			// Serve from the DB when the cache is down; log and move on.
			slog.Error("menu cache read failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		}
	}

	biz, err := h.b.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, business.ErrBusinessNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		slog.Error("error fetching business", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}

	cats, err := h.cat.ListByBusiness(c.Request.Context(), biz.ID)
	if err != nil {
		slog.Error("error fetching categories", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}

	prods, err := h.p.ListByBusiness(c.Request.Context(), biz.ID, "", true)
	if err != nil {
		slog.Error("error fetching products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}

	menu := buildMenu(biz, cats, prods)

	if h.cache != nil {
		if err := h.cache.SetMenu(c.Request.Context(), slug, menu); err != nil {
			slog.Error("menu cache write failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		}
	}

	c.JSON(http.StatusOK, menu)
}

// buildMenu groups available products under their categories. Products
// without a category land in a trailing "Otros" section.
func buildMenu(biz *business.Business, cats []categories.Category, prods []products.Product) MenuResponse {
	menu := MenuResponse{
		Business: MenuBusiness{
			ID:             biz.ID,
			Name:           biz.Name,
			Slug:           biz.Slug,
			Description:    biz.Description,
			LogoURL:        biz.LogoURL,
			Address:        biz.Address,
			IsOpen:         biz.IsOpen,
			EnableDelivery: biz.EnableDelivery,
			EnableTakeaway: biz.EnableTakeaway,
			DeliveryFee:    biz.DeliveryFee,
			PrepTime:       biz.EstimatedPrepTime,
		},
	}

	byCategory := make(map[string][]products.Product)
	for _, p := range prods {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	for _, cat := range cats {
		items := byCategory[cat.ID]
		if len(items) == 0 {
			continue
		}
		menu.Categories = append(menu.Categories, MenuCategory{
			ID:       cat.ID,
			Name:     cat.Name,
			Products: items,
		})
	}
	if uncategorized := byCategory[""]; len(uncategorized) > 0 {
		menu.Categories = append(menu.Categories, MenuCategory{
			Name:     "Otros",
			Products: uncategorized,
		})
	}
	return menu
}

// CreateBusiness registers the storefront for the authenticated vendor.
func (h *Handler) CreateBusiness(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := claimsOfRequest(c)
	if !ok {
		return
	}

	var nb business.NewBusiness
	if !h.bindAndValidate(c, &nb) {
		return
	}

	if _, err := h.b.GetByOwner(c.Request.Context(), claims.Subject); err == nil {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Vendor already has a business"})
		return
	} else if !errors.Is(err, business.ErrBusinessNotFound) {
		slog.Error("error checking existing business", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}

	biz, err := h.b.Create(c.Request.Context(), claims.Subject, nb)
	if err != nil {
		if errors.Is(err, business.ErrSlugTaken) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Business name already taken"})
			return
		}
		slog.Error("error creating business", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Business creation failed"})
		return
	}

	slog.Info("business created", slog.String(logkey.TraceID, traceId), slog.String(logkey.BusinessID, biz.ID))
	c.JSON(http.StatusCreated, biz)
}
