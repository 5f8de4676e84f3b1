package cart_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/config"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// UpdateLine godoc
// @Summary Update a cart line's quantity
// @Description Changes a persisted line's quantity; zero-quantity goes through the remove endpoint
// @Tags Store - Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Line ID"
// @Param line body models.UpdateCartLineRequest true "New quantity"
// @Success 200 {object} models.ApiResponse{data=models.Cart} "Cart updated"
// @Failure 400 {object} models.ApiResponse "Invalid request"
// @Failure 401 {object} models.ApiResponse "Unauthorized"
// @Failure 409 {object} models.ApiResponse "Line vanished or variant not orderable"
// @Failure 500 {object} models.ApiResponse "Internal server error"
// @Router /store/cart/lines/{id} [put]
func UpdateLine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid line ID"))
		return
	}

	var req models.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, err.Error()))
		return
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	cart, err := cartService().UpdateLine(ctx, userID, lineID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Cart updated", cart))
}
