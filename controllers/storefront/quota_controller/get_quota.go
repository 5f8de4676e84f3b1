package quota_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/config"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/services"
)

// GetQuota godoc
// @Summary Get the current user's purchase quota
// @Description Returns limit, used and remaining quantity for the current period. Advisory only; the authoritative check runs at order creation.
// @Tags Store - Quota
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ApiResponse{data=models.QuotaInfo} "Quota retrieved"
// @Failure 401 {object} models.ApiResponse "Unauthorized"
// @Failure 500 {object} models.ApiResponse "Internal server error"
// @Router /store/quota [get]
func GetQuota(c *gin.Context) {
	userIDStr, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(c, "Unauthorized"))
		return
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(c, "Invalid user ID"))
		return
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	quota, err := services.NewQuotaService(config.StoreDB, config.RedisClient).Snapshot(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to load quota"))
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Quota retrieved", quota))
}
