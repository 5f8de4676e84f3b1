package cart_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/config"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// RemoveLine godoc
// @Summary Remove a cart line
// @Description Deletes one line only; sibling variant lines of the same product are untouched
// @Tags Store - Cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Line ID"
// @Success 200 {object} models.ApiResponse{data=models.Cart} "Cart updated"
// @Failure 400 {object} models.ApiResponse "Invalid line ID"
// @Failure 401 {object} models.ApiResponse "Unauthorized"
// @Failure 409 {object} models.ApiResponse "Line vanished"
// @Failure 500 {object} models.ApiResponse "Internal server error"
// @Router /store/cart/lines/{id} [delete]
func RemoveLine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid line ID"))
		return
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	cart, err := cartService().RemoveLine(ctx, userID, lineID)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Cart updated", cart))
}
