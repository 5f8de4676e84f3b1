package cart_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/config"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// AddLine godoc
// @Summary Add a cart line
// @Description Creates a line for a product+variant slot; re-adding an existing slot updates its quantity
// @Tags Store - Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param line body models.AddCartLineRequest true "Line to add"
// @Success 200 {object} models.ApiResponse{data=models.Cart} "Cart updated"
// @Failure 400 {object} models.ApiResponse "Invalid request"
// @Failure 401 {object} models.ApiResponse "Unauthorized"
// @Failure 409 {object} models.ApiResponse "Variant not orderable"
// @Failure 500 {object} models.ApiResponse "Internal server error"
// @Router /store/cart/lines [post]
func AddLine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, err.Error()))
		return
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	cart, err := cartService().AddLine(ctx, userID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Cart updated", cart))
}
