package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mauroere/cafia/internal/auth"
	"github.com/mauroere/cafia/internal/business"
	"github.com/mauroere/cafia/internal/categories"
	"github.com/mauroere/cafia/internal/orders"
	"github.com/mauroere/cafia/internal/products"
	"github.com/mauroere/cafia/internal/stats"
	"github.com/mauroere/cafia/internal/stores/kafka"
	"github.com/mauroere/cafia/internal/stores/rediscache"
	"github.com/mauroere/cafia/internal/users"
	"github.com/mauroere/cafia/middleware"
	"github.com/mauroere/cafia/pkg/mercadopago"
)

type Handler struct {
	u        *users.Conf
	b        *business.Conf
	p        *products.Conf
	cat      *categories.Conf
	o        *orders.Conf
	st       *stats.Service
	k        *kafka.Conf
	cache    *rediscache.Conf
	authKeys *auth.Keys
	validate *validator.Validate

	// mpClient builds a payments client from a business's access token;
	// swapped in tests.
	mpClient func(accessToken string) *mercadopago.Client
}

func NewHandler(u *users.Conf, b *business.Conf, p *products.Conf, cat *categories.Conf,
	o *orders.Conf, st *stats.Service, k *kafka.Conf, cache *rediscache.Conf,
	authKeys *auth.Keys) *Handler {
	return &Handler{
		u:        u,
		b:        b,
		p:        p,
		cat:      cat,
		o:        o,
		st:       st,
		k:        k,
		cache:    cache,
		authKeys: authKeys,
		validate: validator.New(),
		mpClient: mercadopago.NewClient,
	}
}

// API builds the gin engine with all routes.
func API(authKeys *auth.Keys, u *users.Conf, b *business.Conf, p *products.Conf,
	cat *categories.Conf, o *orders.Conf, st *stats.Service, k *kafka.Conf,
	cache *rediscache.Conf) *gin.Engine {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	m, err := middleware.NewMid(authKeys)
	if err != nil {
		panic(err)
	}

	h := NewHandler(u, b, p, cat, o, st, k, cache, authKeys)
	r.Use(middleware.Logger(), gin.Recovery())

	r.GET("/ping", HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)
		api.GET("/businesses", h.ListBusinesses)
		api.GET("/businesses/:slug/menu", h.GetMenu)
		api.POST("/webhooks/mercadopago", h.MercadoPagoWebhook)
	}

	authed := api.Group("")
	authed.Use(m.Authentication())
	{
		authed.GET("/auth/me", h.Me)
		authed.POST("/orders", h.Checkout)
		authed.GET("/orders/:id", h.GetMyOrder)
	}

	vendor := api.Group("/vendor")
	vendor.Use(m.Authentication(), m.RequireRole(auth.RoleVendor))
	{
		vendor.POST("/business", h.CreateBusiness)
		vendor.GET("/settings", h.GetSettings)
		vendor.PATCH("/settings", h.UpdateSettings)
		vendor.PATCH("/business/menu-status", h.UpdateMenuStatus)

		vendor.GET("/orders", h.ListOrders)
		vendor.GET("/orders/:id", h.GetOrder)
		vendor.PATCH("/orders/:id", h.UpdateOrderStatus)

		vendor.GET("/stats", h.GetStats)
		vendor.GET("/stats/top-products", h.GetTopProducts)

		vendor.GET("/products", h.ListProducts)
		vendor.POST("/products", h.CreateProduct)
		vendor.PATCH("/products/:id", h.UpdateProduct)
		vendor.DELETE("/products/:id", h.DeleteProduct)

		vendor.GET("/categories", h.ListCategories)
		vendor.POST("/categories", h.CreateCategory)
		vendor.PATCH("/categories/:id", h.UpdateCategory)
		vendor.DELETE("/categories/:id", h.DeleteCategory)
	}

	return r
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}
