package catalog_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/config"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/services"
)

// GetVariantPriceProfile godoc
// @Summary Get a variant's price profile
// @Description Returns base price, active flag and the tier table ordered by min_quantity descending, for client-side price preview
// @Tags Store - Catalog
// @Produce json
// @Param id path string true "Variant ID"
// @Success 200 {object} models.ApiResponse{data=models.VariantPriceProfile} "Profile retrieved"
// @Failure 400 {object} models.ApiResponse "Invalid variant ID"
// @Failure 404 {object} models.ApiResponse "Variant not found"
// @Router /store/variants/{id}/pricing [get]
func GetVariantPriceProfile(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid variant ID"))
		return
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	profile, err := services.NewTierCatalogService(config.StoreGorm).ProfileForVariant(ctx, variantID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse(c, "Variant not found"))
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Price profile retrieved", profile))
}
