package pricing_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/config"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/services"
)

// GetVariantTiers godoc
// @Summary Get a variant's tier table
// @Description Returns the tier table ordered by min_quantity descending
// @Tags CMS - Pricing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Variant ID"
// @Success 200 {object} models.ApiResponse{data=[]models.PriceTier} "Tiers retrieved"
// @Failure 400 {object} models.ApiResponse "Invalid variant ID"
// @Failure 500 {object} models.ApiResponse "Internal server error"
// @Router /cms/variants/{id}/tiers [get]
func GetVariantTiers(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid variant ID"))
		return
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	tiers, err := services.NewTierCatalogService(config.StoreGorm).GetVariantPriceTiers(ctx, variantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to load tiers"))
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Tiers retrieved", tiers))
}
