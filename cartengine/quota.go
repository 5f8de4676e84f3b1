package cartengine

import "github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"

// CheckoutAllowed compares the cart's aggregate requested quantity against
// the remaining period quota. It gates checkout only; quantity editing and
// adding to cart are never blocked. It is advisory on the client: the
// authoritative check happens server-side at order creation. Its only job is
// to spare the user a doomed checkout attempt.
//
// A nil quota snapshot allows checkout; the server will decide.
func CheckoutAllowed(cart models.Cart, quota *models.QuotaInfo) (bool, error) {
	if quota == nil {
		return true, nil
	}
	requested := cart.TotalQuantity()
	if requested <= quota.Remaining {
		return true, nil
	}
	return false, &QuotaExceededError{Requested: requested, Remaining: quota.Remaining}
}
