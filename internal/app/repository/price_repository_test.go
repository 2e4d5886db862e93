package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/db"
)

func setupPriceTest(t *testing.T) (*gorm.DB, PriceRepository, model.Product, model.Season, model.Season) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	brand := model.Brand{Name: "Prana", Code: "PRA"}
	require.NoError(t, testDB.Create(&brand).Error)

	f25 := model.Season{Name: "Fall 2025", Code: "F25"}
	require.NoError(t, testDB.Create(&f25).Error)
	s26 := model.Season{Name: "Spring 2026", Code: "S26"}
	require.NoError(t, testDB.Create(&s26).Error)

	product := model.Product{BrandID: brand.ID, UPC: "123456789012", Name: "Stretch Zion Pant", Active: true}
	require.NoError(t, testDB.Create(&product).Error)

	repo := NewPriceRepository(testDB)
	return testDB, repo, product, f25, s26
}

func TestPriceRepository_UpsertSeasonPrices_KeepsSeasonsSeparate(t *testing.T) {
	testDB, repo, product, f25, s26 := setupPriceTest(t)
	defer db.CleanupTestDB(testDB)

	err := repo.UpsertSeasonPrices([]model.SeasonPrice{
		{ProductID: product.ID, SeasonID: f25.ID, Wholesale: decimal.NewFromFloat(42.50), MSRP: decimal.NewFromFloat(85.00)},
	}, 500)
	require.NoError(t, err)

	err = repo.UpsertSeasonPrices([]model.SeasonPrice{
		{ProductID: product.ID, SeasonID: s26.ID, Wholesale: decimal.NewFromFloat(45.00), MSRP: decimal.NewFromFloat(89.00)},
	}, 500)
	require.NoError(t, err)

	// The earlier season's price must still carry its original value
	old, err := repo.FindSeasonPrice(product.ID, f25.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(42.50).Equal(old.Wholesale))

	all, err := repo.FindSeasonPrices(product.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPriceRepository_UpsertSeasonPrices_SameSeasonReplaces(t *testing.T) {
	testDB, repo, product, f25, _ := setupPriceTest(t)
	defer db.CleanupTestDB(testDB)

	err := repo.UpsertSeasonPrices([]model.SeasonPrice{
		{ProductID: product.ID, SeasonID: f25.ID, Wholesale: decimal.NewFromFloat(42.50)},
	}, 500)
	require.NoError(t, err)

	err = repo.UpsertSeasonPrices([]model.SeasonPrice{
		{ProductID: product.ID, SeasonID: f25.ID, Wholesale: decimal.NewFromFloat(44.00)},
	}, 500)
	require.NoError(t, err)

	price, err := repo.FindSeasonPrice(product.ID, f25.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(44.00).Equal(price.Wholesale))

	all, err := repo.FindSeasonPrices(product.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPriceRepository_AppendHistory(t *testing.T) {
	testDB, repo, product, f25, _ := setupPriceTest(t)
	defer db.CleanupTestDB(testDB)

	entries := []model.PriceHistory{
		{
			ProductID:    product.ID,
			SeasonID:     &f25.ID,
			OldWholesale: decimal.NewFromFloat(42.50),
			NewWholesale: decimal.NewFromFloat(44.00),
			Reason:       model.PriceReasonImport,
		},
	}
	require.NoError(t, repo.AppendHistory(entries))

	history, err := repo.FindHistory(product.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.PriceReasonImport, history[0].Reason)
	assert.True(t, decimal.NewFromFloat(44.00).Equal(history[0].NewWholesale))
}
