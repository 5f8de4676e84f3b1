package cart_controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/cartengine"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/config"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/services"
)

// ─────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────

func cartService() *services.CartService {
	catalog := services.NewTierCatalogService(config.StoreGorm)
	quota := services.NewQuotaService(config.StoreDB, config.RedisClient)
	return services.NewCartService(config.StoreGorm, catalog, quota)
}

// currentUserID pulls the authenticated user out of the gin context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(c, "Unauthorized"))
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(c, "Invalid user ID"))
		return uuid.Nil, false
	}
	return userID, true
}

// respondCartError maps engine error types onto HTTP statuses.
func respondCartError(c *gin.Context, err error) {
	var validation *cartengine.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, validation.Error()))
		return
	}
	var conflict *cartengine.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, models.ErrorResponse(c, conflict.Error()))
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to update cart"))
}
