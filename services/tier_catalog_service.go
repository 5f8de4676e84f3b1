package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	profile_cache "github.com/nicholike/deploy-Ecom-LDgroup-sub000/cache"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/pricing"
)

// TierCatalogService owns variant tier tables and price profiles. Tier sets
// are replaced atomically, never merged: submitting a new set drops the
// prior one inside a single transaction.
type TierCatalogService struct {
	db *gorm.DB
}

// NewTierCatalogService creates a new tier catalog service
func NewTierCatalogService(db *gorm.DB) *TierCatalogService {
	return &TierCatalogService{db: db}
}

// GetVariantPriceTiers returns a variant's tier table ordered for
// deterministic resolution (min_quantity descending).
func (s *TierCatalogService) GetVariantPriceTiers(ctx context.Context, variantID uuid.UUID) ([]models.PriceTier, error) {
	var tiers []models.PriceTier
	if err := s.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Find(&tiers).Error; err != nil {
		return nil, fmt.Errorf("failed to load price tiers: %w", err)
	}
	return pricing.SortTiers(tiers), nil
}

// SetVariantPriceTiers replaces the variant's tier table in full and returns
// the new set ordered by min_quantity descending. Malformed brackets are
// rejected before anything is written.
func (s *TierCatalogService) SetVariantPriceTiers(ctx context.Context, variantID uuid.UUID, inputs []models.PriceTierInput) ([]models.PriceTier, error) {
	if err := pricing.ValidateTiers(inputs); err != nil {
		return nil, err
	}

	var variant models.ProductVariant
	if err := s.db.WithContext(ctx).First(&variant, "id = ?", variantID).Error; err != nil {
		return nil, fmt.Errorf("variant not found: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("variant_id = ?", variantID).Delete(&models.PriceTier{}).Error; err != nil {
			return err
		}
		for _, in := range inputs {
			tier := models.PriceTier{
				VariantID:   variantID,
				MinQuantity: in.MinQuantity,
				MaxQuantity: in.MaxQuantity,
				Price:       in.Price,
				Label:       in.Label,
				SortOrder:   in.SortOrder,
			}
			if err := tx.Create(&tier).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace price tiers: %w", err)
	}

	profile_cache.Invalidate(variantID)
	log.Printf("✅ Replaced tier table for variant %s (%d tiers)", variantID, len(inputs))

	return s.GetVariantPriceTiers(ctx, variantID)
}

// ProfileForVariant loads the price profile for a regular variant, serving
// from the profile cache when fresh.
func (s *TierCatalogService) ProfileForVariant(ctx context.Context, variantID uuid.UUID) (models.VariantPriceProfile, error) {
	if profile, ok := profile_cache.Get(variantID); ok {
		return profile, nil
	}

	var variant models.ProductVariant
	if err := s.db.WithContext(ctx).First(&variant, "id = ?", variantID).Error; err != nil {
		return models.VariantPriceProfile{}, fmt.Errorf("variant not found: %w", err)
	}

	tiers, err := s.GetVariantPriceTiers(ctx, variantID)
	if err != nil {
		return models.VariantPriceProfile{}, err
	}

	profile := models.VariantPriceProfile{
		VariantID: variant.ID,
		BasePrice: variant.BasePrice,
		Tiers:     tiers,
		Active:    variant.Active,
	}
	profile_cache.Set(profile)
	return profile, nil
}

// ProfileForProduct builds the price profile for a special (no-variant)
// product: base price only, active while the product is.
func (s *TierCatalogService) ProfileForProduct(ctx context.Context, productID uuid.UUID) (models.VariantPriceProfile, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		return models.VariantPriceProfile{}, fmt.Errorf("product not found: %w", err)
	}
	return models.VariantPriceProfile{
		VariantID: product.ID,
		BasePrice: product.Price,
		Active:    product.Status == "Active",
	}, nil
}
