package storefront_routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/controllers/storefront/catalog_controller"
)

// SetupCatalogRoutes sets up the public catalog routes
func SetupCatalogRoutes(router *gin.RouterGroup) {
	store := router.Group("/store")

	variants := store.Group("/variants")
	{
		variants.GET("/:id/pricing", catalog_controller.GetVariantPriceProfile) // tier table + base price
	}
}
