package cartengine

import (
	"context"

	"github.com/google/uuid"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// CartBackend is the authoritative cart source the engine reconciles
// against. Every mutation response carries the full recomputed cart with
// totals and quota snapshot included, never just the mutated line.
//
// Implementations are expected to enforce their own request timeout; a
// timeout surfaces here as an error and is handled as a transient failure.
type CartBackend interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*models.Cart, error)
	UpdateLine(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*models.Cart, error)
}

// ProfileSource yields the variant price profile for a line key so the
// engine can resolve unit prices locally, without a round trip per edit.
// A miss is not an error: the line simply shows no local price until the
// next authoritative response.
type ProfileSource interface {
	Profile(key LineKey) (models.VariantPriceProfile, bool)
}
