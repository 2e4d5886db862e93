package db

import (
	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Brand{},
		&model.Season{},
		&model.Location{},
		&model.Product{},
		&model.SeasonPrice{},
		&model.PriceHistory{},
		&model.CaseMapping{},
		&model.CatalogUpload{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedLocations(); err != nil {
		logger.Error("Failed to seed locations", err)
		return err
	}

	if err := seedBrands(); err != nil {
		logger.Error("Failed to seed brands", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedLocations creates the gym locations orders ship to
func seedLocations() error {
	var count int64
	if err := DB.Model(&model.Location{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Locations already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	locations := []model.Location{
		{Name: "Salt Lake City", Code: "SLC"},
		{Name: "South Main", Code: "SOMA"},
		{Name: "Ogden", Code: "OGD"},
	}

	for _, location := range locations {
		if err := DB.Create(&location).Error; err != nil {
			logger.Error("Failed to create location", err, map[string]interface{}{
				"location": location.Name,
			})
			return err
		}
	}

	logger.Info("Locations seeded successfully", map[string]interface{}{
		"count": len(locations),
	})
	return nil
}

// seedBrands creates the vendor brands we carry
func seedBrands() error {
	var count int64
	if err := DB.Model(&model.Brand{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Brands already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	brands := []model.Brand{
		{Name: "Prana", Code: "PRA"},
		{Name: "Free Fly", Code: "FRE"},
		{Name: "La Sportiva", Code: "LAS"},
		{Name: "La Sportiva Apparel", Code: "LSA"},
		{Name: "La Sportiva Equipment", Code: "LSE"},
		{Name: "Arcteryx", Code: "ARC"},
		{Name: "Toad&Co", Code: "TOA"},
		{Name: "TenTree", Code: "TEN"},
		{Name: "DUER", Code: "DUE"},
		{Name: "Sterling", Code: "STE"},
		{Name: "Scarpa", Code: "SCA"},
		{Name: "Petzl", Code: "PET"},
		{Name: "DMM", Code: "DMM"},
		{Name: "Metolius", Code: "MET"},
	}

	for _, brand := range brands {
		if err := DB.Create(&brand).Error; err != nil {
			logger.Error("Failed to create brand", err, map[string]interface{}{
				"brand": brand.Name,
			})
			return err
		}
	}

	logger.Info("Brands seeded successfully", map[string]interface{}{
		"count": len(brands),
	})
	return nil
}
