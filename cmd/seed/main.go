package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/config"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/utils"
)

// init loads environment variables
func init() {
	_ = godotenv.Load()
}

// Standalone CLI tool for local development, not part of the main application.
// Usage:
//
//	go run cmd/seed/main.go migrate
//	go run cmd/seed/main.go catalog
//	go run cmd/seed/main.go tiers
func main() {
	root := &cobra.Command{
		Use:   "seed",
		Short: "Seed the storefront database for local development",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitDB()
			log.Println("✓ Connected to database")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			config.CloseDB()
		},
	}

	root.AddCommand(migrateCmd(), catalogCmd(), tiersCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables",
		Run: func(cmd *cobra.Command, args []string) {
			err := config.StoreGorm.AutoMigrate(
				&models.Product{},
				&models.ProductVariant{},
				&models.PriceTier{},
				&models.CartLineRecord{},
				&models.Order{},
				&models.OrderItem{},
			)
			if err != nil {
				log.Fatalf("❌ Migration failed: %v", err)
			}
			fmt.Println("✅ Tables migrated")
		},
	}
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Seed demo perfumes and variants",
		Run: func(cmd *cobra.Command, args []string) {
			products := []models.Product{
				{
					Name:        "Nước hoa LD Charm",
					Description: "Signature floral perfume",
					Brand:       "LD Group",
					Price:       utils.VND(450000),
					Status:      "Active",
					Variants: []models.ProductVariant{
						{Volume: "20ml", SKU: "LD-CHARM-20", BasePrice: utils.VND(139000), Active: true},
						{Volume: "50ml", SKU: "LD-CHARM-50", BasePrice: utils.VND(290000), Active: true},
					},
				},
				{
					Name:        "Nước hoa LD Noir",
					Description: "Woody evening perfume",
					Brand:       "LD Group",
					Price:       utils.VND(520000),
					Status:      "Active",
					Variants: []models.ProductVariant{
						{Volume: "20ml", SKU: "LD-NOIR-20", BasePrice: utils.VND(159000), Active: true},
						{Volume: "50ml", SKU: "LD-NOIR-50", BasePrice: utils.VND(320000), Active: false},
					},
				},
				{
					// special product: no variants, priced directly
					Name:        "Gift set LD Mini",
					Description: "Three 5ml testers in a gift box",
					Brand:       "LD Group",
					Price:       utils.VND(450000),
					Special:     true,
					Status:      "Active",
				},
			}

			for i := range products {
				if err := config.StoreGorm.Create(&products[i]).Error; err != nil {
					log.Fatalf("❌ Failed to seed product %q: %v", products[i].Name, err)
				}
				fmt.Printf("✓ Seeded %s (%d variants)\n", products[i].Name, len(products[i].Variants))
			}
			fmt.Println("✅ Catalog seeded")
		},
	}
}

func tiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Seed quantity tier tables for every active variant",
		Run: func(cmd *cobra.Command, args []string) {
			var variants []models.ProductVariant
			if err := config.StoreGorm.Where("active = ?", true).Find(&variants).Error; err != nil {
				log.Fatalf("❌ Failed to load variants: %v", err)
			}

			for _, v := range variants {
				tiers := demoTiers(v.ID)
				if err := config.StoreGorm.Where("variant_id = ?", v.ID).Delete(&models.PriceTier{}).Error; err != nil {
					log.Fatalf("❌ Failed to clear tiers for %s: %v", v.SKU, err)
				}
				for i := range tiers {
					if err := config.StoreGorm.Create(&tiers[i]).Error; err != nil {
						log.Fatalf("❌ Failed to seed tier for %s: %v", v.SKU, err)
					}
				}
				fmt.Printf("✓ Seeded %d tiers for %s\n", len(tiers), v.SKU)
			}
			fmt.Println("✅ Tier tables seeded")
		},
	}
}

// demoTiers is the standard retail/wholesale/distributor ladder.
func demoTiers(variantID uuid.UUID) []models.PriceTier {
	retail := "Retail"
	wholesale := "Wholesale"
	distributor := "Distributor"
	nine := 9
	ninetyNine := 99
	return []models.PriceTier{
		{VariantID: variantID, MinQuantity: 1, MaxQuantity: &nine, Price: utils.VND(139000), Label: &retail, SortOrder: 0},
		{VariantID: variantID, MinQuantity: 10, MaxQuantity: &ninetyNine, Price: utils.VND(109000), Label: &wholesale, SortOrder: 1},
		{VariantID: variantID, MinQuantity: 100, Price: utils.VND(99000), Label: &distributor, SortOrder: 2},
	}
}
