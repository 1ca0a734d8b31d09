package routes

import (
	"net/http"

	_ "coursemate_backend/docs"
	"coursemate_backend/internal/handlers"
	"coursemate_backend/internal/logger"
	"coursemate_backend/internal/middleware"
	"coursemate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options - то, что зависит от конфигурации
type Options struct {
	// NotifyLimiter ограничивает запросы, которые рассылают уведомления
	NotifyLimiter *middleware.RateLimiter
	// UploadsDir раздается как /uploads, если картинки хранятся локально
	UploadsDir string
	// StoreBackend попадает в ответ /health
	StoreBackend string
	Swagger      bool
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, opts Options) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Store: opts.StoreBackend})
	})

	notifyLimit := func(c *gin.Context) { c.Next() }
	if opts.NotifyLimiter != nil {
		notifyLimit = middleware.RateLimitMiddleware(opts.NotifyLimiter)
	}

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.MarketHandler.RegisterRoutes(api, notifyLimit)
		appHandlers.ReviewHandler.RegisterRoutes(api)
		appHandlers.ScheduleHandler.RegisterRoutes(api, notifyLimit)
		appHandlers.NotificationHandler.RegisterRoutes(api)
	}

	if opts.UploadsDir != "" {
		ginRouter.Static("/uploads", opts.UploadsDir)
	}

	if opts.Swagger {
		ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Info("Swagger UI registered", "path", "/swagger/index.html")
	}
}
