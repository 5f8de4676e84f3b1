package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/cartengine"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/pricing"
)

// CartService is the authoritative cart: persisted lines, server-resolved
// prices and the quota snapshot. It implements cartengine.CartBackend, and
// every mutation response carries the full recomputed cart so clients can
// replace their state wholesale.
//
// Unit prices go through the same pricing resolver the client engine uses —
// tier selection must agree bit-for-bit or displayed and charged amounts
// diverge.
type CartService struct {
	db      *gorm.DB
	catalog *TierCatalogService
	quota   *QuotaService
}

// NewCartService creates a new cart service
func NewCartService(db *gorm.DB, catalog *TierCatalogService, quota *QuotaService) *CartService {
	return &CartService{db: db, catalog: catalog, quota: quota}
}

// GetCart returns the user's authoritative cart.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.buildCart(ctx, userID)
}

// AddLine creates a line for a product+variant slot. Re-adding an existing
// slot updates its quantity instead of inserting a duplicate, so a retried
// creation stays idempotent.
func (s *CartService) AddLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, &cartengine.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if err := s.checkOrderable(ctx, productID, variantID); err != nil {
		return nil, err
	}

	var existing models.CartLineRecord
	query := s.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID)
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}

	err := query.First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Model(&existing).Update("quantity", quantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart line: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		record := models.CartLineRecord{
			UserID:    userID,
			ProductID: productID,
			VariantID: variantID,
			Quantity:  quantity,
		}
		if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart line: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up cart line: %w", err)
	}

	return s.buildCart(ctx, userID)
}

// UpdateLine changes a persisted line's quantity.
func (s *CartService) UpdateLine(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, &cartengine.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}

	var record models.CartLineRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ? AND user_id = ?", lineID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &cartengine.ConflictError{Reason: "cart line no longer exists"}
		}
		return nil, fmt.Errorf("failed to look up cart line: %w", err)
	}
	if err := s.checkOrderable(ctx, record.ProductID, record.VariantID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&record).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	return s.buildCart(ctx, userID)
}

// RemoveLine deletes one line only; sibling lines of the same product are
// untouched.
func (s *CartService) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*models.Cart, error) {
	result := s.db.WithContext(ctx).Delete(&models.CartLineRecord{}, "id = ? AND user_id = ?", lineID, userID)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove cart line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, &cartengine.ConflictError{Reason: "cart line no longer exists"}
	}

	return s.buildCart(ctx, userID)
}

// ─────────────────────────────────────────────────────────────
// Internals
// ─────────────────────────────────────────────────────────────

// checkOrderable rejects mutations against inactive variants or non-active
// products with a conflict, since the client edited against a stale catalog
// snapshot.
func (s *CartService) checkOrderable(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) error {
	profile, err := s.profileFor(ctx, productID, variantID)
	if err != nil {
		return err
	}
	if !profile.Active {
		return &cartengine.ConflictError{Reason: "variant is no longer orderable"}
	}
	return nil
}

func (s *CartService) profileFor(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (models.VariantPriceProfile, error) {
	if variantID != nil {
		return s.catalog.ProfileForVariant(ctx, *variantID)
	}
	return s.catalog.ProfileForProduct(ctx, productID)
}

// buildCart assembles the full authoritative response: lines with resolved
// prices, the recomputed grand total, and a fresh quota snapshot.
func (s *CartService) buildCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var records []models.CartLineRecord
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}

	cart := &models.Cart{UserID: userID, Lines: make([]models.CartLine, 0, len(records))}
	total := decimal.Zero

	for _, record := range records {
		lineID := record.ID
		line := models.CartLine{
			LineID:    &lineID,
			ProductID: record.ProductID,
			VariantID: record.VariantID,
			Quantity:  record.Quantity,
		}

		profile, err := s.profileFor(ctx, record.ProductID, record.VariantID)
		if err != nil {
			return nil, err
		}
		line.UnitPrice = pricing.ResolveUnitPrice(profile, record.Quantity)
		line.Subtotal = pricing.LineSubtotal(profile, record.Quantity)
		total = total.Add(line.Subtotal)

		cart.Lines = append(cart.Lines, line)
	}

	cart.TotalPrice = &total

	if s.quota != nil {
		quota, err := s.quota.Snapshot(ctx, userID)
		if err != nil {
			// quota is advisory; a cart without the snapshot is still usable
			log.Printf("⚠️ Failed to load quota snapshot for user %s: %v", userID, err)
		} else {
			cart.Quota = quota
		}
	}

	return cart, nil
}
