package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/fresh-market/config"
	_ "github.com/d60-Lab/fresh-market/docs"
	"github.com/d60-Lab/fresh-market/internal/api/handler"
	"github.com/d60-Lab/fresh-market/internal/api/middleware"
	"github.com/d60-Lab/fresh-market/internal/model"
)

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	handler.RegisterValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Otel.Enable {
		r.Use(otelgin.Middleware("fresh-market"))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	v1.Use(middleware.Auth(cfg.JWT.Secret))

	orders := v1.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/stats", h.OrderStats)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id/cancel", h.CancelOrder)
	}

	shop := v1.Group("/shop/orders")
	shop.Use(middleware.RequireRole(model.RoleShop))
	{
		shop.GET("", h.ListShopOrders)
		shop.GET("/stats", h.ShopOrderStats)
		shop.PUT("/:id/decision", h.OrderDecision)
		shop.PUT("/:id/status", h.UpdateShopOrderStatus)
	}

	return r
}
