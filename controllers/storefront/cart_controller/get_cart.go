package cart_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/config"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// GetCart godoc
// @Summary Get the current user's cart
// @Description Returns the authoritative cart with resolved prices, grand total and quota snapshot
// @Tags Store - Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ApiResponse{data=models.Cart} "Cart retrieved"
// @Failure 401 {object} models.ApiResponse "Unauthorized"
// @Failure 500 {object} models.ApiResponse "Internal server error"
// @Router /store/cart [get]
func GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	cart, err := cartService().GetCart(ctx, userID)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Cart retrieved", cart))
}
