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

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository, model.Brand, model.Season) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	brand := model.Brand{Name: "Scarpa", Code: "SCA"}
	require.NoError(t, testDB.Create(&brand).Error)

	season := model.Season{Name: "Spring 2026", Code: "S26"}
	require.NoError(t, testDB.Create(&season).Error)

	repo := NewProductRepository(testDB)
	return testDB, repo, brand, season
}

func TestProductRepository_BatchUpsert_InsertsNewProducts(t *testing.T) {
	testDB, repo, brand, season := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	products := []model.Product{
		{
			BrandID:   brand.ID,
			SeasonID:  &season.ID,
			UPC:       "123456789012",
			SKU:       "INS-VS",
			Name:      "Instinct VS",
			Size:      "42",
			Wholesale: decimal.NewFromFloat(92.50),
			MSRP:      decimal.NewFromFloat(185.00),
			Active:    true,
		},
		{
			BrandID:   brand.ID,
			SeasonID:  &season.ID,
			UPC:       "123456789013",
			SKU:       "INS-VS",
			Name:      "Instinct VS",
			Size:      "43",
			Wholesale: decimal.NewFromFloat(92.50),
			MSRP:      decimal.NewFromFloat(185.00),
			Active:    true,
		},
	}

	err := repo.BatchUpsert(products, 500)
	assert.NoError(t, err)

	found, err := repo.FindActiveByBrand(brand.ID)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestProductRepository_BatchUpsert_UpdatesOnConflict(t *testing.T) {
	testDB, repo, brand, season := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	original := model.Product{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		UPC:       "123456789012",
		Name:      "Instinct VS",
		Color:     "Black",
		Wholesale: decimal.NewFromFloat(92.50),
		Active:    true,
	}
	require.NoError(t, repo.BatchUpsert([]model.Product{original}, 500))

	updated := model.Product{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		UPC:       "123456789012",
		Name:      "Instinct VS",
		Color:     "Black/Orange",
		Wholesale: decimal.NewFromFloat(95.00),
		Active:    true,
	}
	require.NoError(t, repo.BatchUpsert([]model.Product{updated}, 500))

	found, err := repo.FindByUPC("123456789012")
	require.NoError(t, err)
	assert.Equal(t, "Black/Orange", found.Color)
	assert.True(t, decimal.NewFromFloat(95.00).Equal(found.Wholesale))

	var count int64
	require.NoError(t, testDB.Model(&model.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProductRepository_BatchUpsert_KeepsSeasonAndCaseQtyWhenAbsent(t *testing.T) {
	testDB, repo, brand, season := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	caseQty := 24
	original := model.Product{
		BrandID:  brand.ID,
		SeasonID: &season.ID,
		UPC:      "123456789012",
		Name:     "Chalk Block",
		BaseName: "Chalk Block",
		CaseQty:  &caseQty,
		Active:   true,
	}
	require.NoError(t, repo.BatchUpsert([]model.Product{original}, 500))

	// Re-import without season, case qty, or base name
	bare := model.Product{
		BrandID: brand.ID,
		UPC:     "123456789012",
		Name:    "Chalk Block",
		Active:  true,
	}
	require.NoError(t, repo.BatchUpsert([]model.Product{bare}, 500))

	found, err := repo.FindByUPC("123456789012")
	require.NoError(t, err)
	require.NotNil(t, found.SeasonID)
	assert.Equal(t, season.ID, *found.SeasonID)
	require.NotNil(t, found.CaseQty)
	assert.Equal(t, 24, *found.CaseQty)
	assert.Equal(t, "Chalk Block", found.BaseName)
}

func TestProductRepository_CreateKeepsInactiveFlag(t *testing.T) {
	testDB, repo, brand, season := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	retired := model.Product{
		BrandID:  brand.ID,
		SeasonID: &season.ID,
		UPC:      "444444444444",
		Name:     "Retired Shoe",
		Active:   false,
	}
	require.NoError(t, repo.Create(&retired))

	found, err := repo.FindByUPC("444444444444")
	require.NoError(t, err)
	assert.False(t, found.Active)
}

func TestProductRepository_BatchUpsert_ReassignsBrand(t *testing.T) {
	testDB, repo, brand, season := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	other := model.Brand{Name: "Petzl", Code: "PET"}
	require.NoError(t, testDB.Create(&other).Error)

	require.NoError(t, repo.BatchUpsert([]model.Product{
		{BrandID: brand.ID, SeasonID: &season.ID, UPC: "123456789012", Name: "Spirit Quickdraw", Active: true},
	}, 500))

	// The same UPC re-imported from another brand's catalog moves with it,
	// so that brand's deactivation sweep covers it from now on
	require.NoError(t, repo.BatchUpsert([]model.Product{
		{BrandID: other.ID, SeasonID: &season.ID, UPC: "123456789012", Name: "Spirit Quickdraw", Active: true},
	}, 500))

	found, err := repo.FindByUPC("123456789012")
	require.NoError(t, err)
	assert.Equal(t, other.ID, found.BrandID)

	affected, err := repo.DeactivateBrand(other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestProductRepository_DeactivateThenUpsertReactivates(t *testing.T) {
	testDB, repo, brand, season := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	products := []model.Product{
		{BrandID: brand.ID, SeasonID: &season.ID, UPC: "111111111111", Name: "Kept", Active: true},
		{BrandID: brand.ID, SeasonID: &season.ID, UPC: "222222222222", Name: "Dropped", Active: true},
	}
	require.NoError(t, repo.BatchUpsert(products, 500))

	affected, err := repo.DeactivateBrand(brand.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	// Re-importing only the first product brings it back
	require.NoError(t, repo.BatchUpsert([]model.Product{
		{BrandID: brand.ID, SeasonID: &season.ID, UPC: "111111111111", Name: "Kept", Active: true},
	}, 500))

	kept, err := repo.FindByUPC("111111111111")
	require.NoError(t, err)
	assert.True(t, kept.Active)

	dropped, err := repo.FindByUPC("222222222222")
	require.NoError(t, err)
	assert.False(t, dropped.Active)
}

func TestProductRepository_DeactivateBrand_OtherBrandUntouched(t *testing.T) {
	testDB, repo, brand, season := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	other := model.Brand{Name: "Petzl", Code: "PET"}
	require.NoError(t, testDB.Create(&other).Error)

	products := []model.Product{
		{BrandID: brand.ID, SeasonID: &season.ID, UPC: "111111111111", Name: "Scarpa Shoe", Active: true},
		{BrandID: other.ID, SeasonID: &season.ID, UPC: "333333333333", Name: "Petzl Grigri", Active: true},
	}
	require.NoError(t, repo.BatchUpsert(products, 500))

	_, err := repo.DeactivateBrand(brand.ID)
	require.NoError(t, err)

	petzl, err := repo.FindByUPC("333333333333")
	require.NoError(t, err)
	assert.True(t, petzl.Active)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo, brand, season := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	products := []model.Product{
		{BrandID: brand.ID, SeasonID: &season.ID, UPC: "111111111111", Name: "Instinct VS", Gender: "Men's", Active: true},
		{BrandID: brand.ID, SeasonID: &season.ID, UPC: "222222222222", Name: "Instinct VS W", Gender: "Women's", Active: true},
		{BrandID: brand.ID, SeasonID: &season.ID, UPC: "333333333333", Name: "Drago", Gender: "Men's", Active: false},
	}
	require.NoError(t, repo.BatchUpsert(products, 500))

	found, total, err := repo.FindWithFilter(ProductFilter{
		BrandID:    &brand.ID,
		Gender:     "Men's",
		ActiveOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, "Instinct VS", found[0].Name)
}
