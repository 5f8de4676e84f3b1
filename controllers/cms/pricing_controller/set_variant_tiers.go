package pricing_controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/config"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/pricing"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/services"
)

// SetVariantTiers godoc
// @Summary Replace a variant's tier table
// @Description Full replace: the submitted set atomically replaces the prior one. An empty set means base price only.
// @Tags CMS - Pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Variant ID"
// @Param tiers body models.SetPriceTiersRequest true "New tier set"
// @Success 200 {object} models.ApiResponse{data=[]models.PriceTier} "Tiers replaced"
// @Failure 400 {object} models.ApiResponse "Invalid request or malformed tier"
// @Failure 404 {object} models.ApiResponse "Variant not found"
// @Failure 500 {object} models.ApiResponse "Internal server error"
// @Router /cms/variants/{id}/tiers [put]
func SetVariantTiers(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid variant ID"))
		return
	}

	var req models.SetPriceTiersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, err.Error()))
		return
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	tiers, err := services.NewTierCatalogService(config.StoreGorm).SetVariantPriceTiers(ctx, variantID, req.Tiers)
	if err != nil {
		var invalid *pricing.TierValidationError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(c, invalid.Error()))
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse(c, "Variant not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to replace tiers"))
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Tiers replaced", tiers))
}
