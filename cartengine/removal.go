package cartengine

import "github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"

// ShouldConfirmRemoval reports whether driving the given line to zero needs
// an explicit confirmation.
//
// Multi-variant products only confirm when no sibling line of the same
// product would stay positive: zeroing one size while another size remains
// in the cart deletes silently. Single-line (special) products always
// confirm, since their only line is by definition the last one.
func ShouldConfirmRemoval(cart models.Cart, key LineKey, proposedQuantity int) bool {
	if proposedQuantity > 0 {
		return false
	}
	for _, line := range cart.Lines {
		if line.ProductID != key.ProductID {
			continue
		}
		if KeyForLine(line) == key {
			continue
		}
		if line.Quantity > 0 {
			return false
		}
	}
	return true
}
