package cms_routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/controllers/cms/pricing_controller"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/middleware"
)

// SetupPricingRoutes sets up the tier table management routes
func SetupPricingRoutes(router *gin.RouterGroup) {
	pricing := router.Group("/cms/variants")
	pricing.Use(middleware.AuthMiddleware())
	pricing.Use(middleware.RateLimiter(60, time.Minute))
	{
		pricing.GET("/:id/tiers", pricing_controller.GetVariantTiers)
		pricing.PUT("/:id/tiers", pricing_controller.SetVariantTiers)
	}
}
