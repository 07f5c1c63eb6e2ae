package routes

import (
	"github.com/auy1jlll/pizza-vx-sub002/configs"
	"github.com/auy1jlll/pizza-vx-sub002/controllers"
	"github.com/auy1jlll/pizza-vx-sub002/middlewares"
	"github.com/auy1jlll/pizza-vx-sub002/pkg/resilient"
	"github.com/auy1jlll/pizza-vx-sub002/repository"
	"github.com/auy1jlll/pizza-vx-sub002/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config, monitor *resilient.HealthMonitor) {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"ok":           true,
			"storeHealthy": monitor.Healthy(),
			"lastChecked":  monitor.LastChecked(),
		})
	})

	exec := resilient.NewExecutor(resilient.Options{
		Retries: cfg.StoreRetries,
		Delay:   cfg.StoreRetryDelay,
		Backoff: true,
	}, monitor)

	catalogRepo := repository.NewCatalogRepository(db, exec)
	promoRepo := repository.NewPromotionRepository(db, exec)

	priceSvc := services.NewPriceService(catalogRepo)
	promoSvc := services.NewPromotionService(promoRepo)

	pricingCtrl := controllers.NewPricingController(priceSvc, promoSvc)
	promoCtrl := controllers.NewPromotionController(promoRepo, promoSvc)

	// Public
	r.GET("/promotions", promoCtrl.ListActive)

	// Cart pricing: guests allowed, tokens unlock gated promotions
	cart := r.Group("/cart", middlewares.OptionalAuth(cfg))
	{
		cart.POST("/price", pricingCtrl.RefreshPrices)
		cart.POST("/quote", pricingCtrl.Quote)
	}

	// Order finalization hook (internal callers hold a token)
	r.POST("/promotions/:id/redemptions", middlewares.AuthMiddleware(cfg), promoCtrl.RecordRedemption)
}
