package storefront_routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/controllers/storefront/cart_controller"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/controllers/storefront/quota_controller"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/middleware"
)

// SetupCartRoutes sets up the authenticated cart and quota routes
func SetupCartRoutes(router *gin.RouterGroup) {
	cart := router.Group("/store/cart")
	cart.Use(middleware.AuthMiddleware())
	{
		cart.GET("", cart_controller.GetCart)
		cart.POST("/lines", cart_controller.AddLine)
		cart.PUT("/lines/:id", cart_controller.UpdateLine)
		cart.DELETE("/lines/:id", cart_controller.RemoveLine)
	}

	quota := router.Group("/store/quota")
	quota.Use(middleware.AuthMiddleware())
	{
		quota.GET("", quota_controller.GetQuota)
	}
}
