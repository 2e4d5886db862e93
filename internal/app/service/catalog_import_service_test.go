package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/config"
	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/internal/db"
	"github.com/summitretail/preseason-backend/pkg/spreadsheet"
)

func testImportConfig() config.ImportConfig {
	return config.ImportConfig{
		BatchSize:   500,
		MaxErrors:   100,
		LockTimeout: time.Minute,
	}
}

func setupImportTest(t *testing.T) (*gorm.DB, CatalogImportService, model.Brand, model.Season) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	brand := model.Brand{Name: "Scarpa", Code: "SCA"}
	require.NoError(t, testDB.Create(&brand).Error)
	season := model.Season{Name: "Spring 2026", Code: "S26"}
	require.NoError(t, testDB.Create(&season).Error)

	svc := NewCatalogImportService(
		testDB,
		repository.NewBrandRepository(testDB),
		repository.NewSeasonRepository(testDB),
		repository.NewCatalogUploadRepository(testDB),
		testImportConfig(),
		nil,
	)
	return testDB, svc, brand, season
}

func buildWorkbook(t *testing.T, sheetName string, rows [][]interface{}) *bytes.Reader {
	wb := spreadsheet.New()
	require.NoError(t, wb.AddSheet(sheetName))
	for i, row := range rows {
		require.NoError(t, wb.SetRow(sheetName, i+1, row))
	}

	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, wb.Close())
	return bytes.NewReader(buf.Bytes())
}

func standardMapping() ColumnMapping {
	return ColumnMapping{Columns: map[string]string{
		FieldUPC:       "UPC",
		FieldSKU:       "SKU",
		FieldName:      "Name",
		FieldColor:     "Color",
		FieldSize:      "Size",
		FieldGender:    "Gender",
		FieldWholesale: "Wholesale",
		FieldMSRP:      "MSRP",
	}}
}

func standardHeader() []interface{} {
	return []interface{}{"UPC", "SKU", "Name", "Color", "Size", "Gender", "Wholesale", "MSRP"}
}

func TestImport_AddsNewProducts(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	file := buildWorkbook(t, "Catalog", [][]interface{}{
		standardHeader(),
		{"123456789012", "INS-VS-42", "Instinct VS", "Black/Orange", "42", "Men's", "$92.50", "$185.00"},
		{"123456789013", "INS-VS-43", "Instinct VS", "Black/Orange", "43", "Men's", "$92.50", "$185.00"},
	})

	summary, err := svc.Import(context.Background(), file, ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   standardMapping(),
		FileName:  "scarpa_s26.xlsx",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Added)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 0, summary.Deactivated)
	assert.Empty(t, summary.Errors)
	assert.NotZero(t, summary.UploadID)

	var product model.Product
	require.NoError(t, testDB.Where("upc = ?", "123456789012").First(&product).Error)
	assert.Equal(t, "Instinct VS", product.Name)
	assert.Equal(t, "Black/Orange", product.Color)
	assert.True(t, decimal.NewFromFloat(92.50).Equal(product.Wholesale))
	assert.True(t, product.Active)
}

func TestImport_SecondRunIsIdempotent(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	rows := [][]interface{}{
		standardHeader(),
		{"123456789012", "INS-VS-42", "Instinct VS", "Black/Orange", "42", "Men's", "92.50", "185.00"},
		{"123456789013", "INS-VS-43", "Instinct VS", "Black/Orange", "43", "Men's", "92.50", "185.00"},
	}
	req := ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   standardMapping(),
		FileName:  "scarpa_s26.xlsx",
	}

	_, err := svc.Import(context.Background(), buildWorkbook(t, "Catalog", rows), req)
	require.NoError(t, err)

	second, err := svc.Import(context.Background(), buildWorkbook(t, "Catalog", rows), req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 2, second.Updated)
	assert.Equal(t, 0, second.Deactivated)

	var count int64
	require.NoError(t, testDB.Model(&model.Product{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestImport_DuplicateUPCLastRowWins(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	file := buildWorkbook(t, "Catalog", [][]interface{}{
		standardHeader(),
		{"123456789012", "INS-VS-42", "Instinct VS", "Black", "42", "Men's", "92.50", "185.00"},
		{"123456789012", "INS-VS-42", "Instinct VS", "Red", "42", "Men's", "94.00", "188.00"},
	})

	summary, err := svc.Import(context.Background(), file, ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   standardMapping(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)

	var product model.Product
	require.NoError(t, testDB.Where("upc = ?", "123456789012").First(&product).Error)
	assert.Equal(t, "Red", product.Color)
	assert.True(t, decimal.NewFromFloat(94.00).Equal(product.Wholesale))

	var count int64
	require.NoError(t, testDB.Model(&model.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestImport_MissingProductsAreDeactivatedNotDeleted(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	req := ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   standardMapping(),
	}

	first := buildWorkbook(t, "Catalog", [][]interface{}{
		standardHeader(),
		{"111111111111", "A", "Product A", "", "", "", "10.00", "20.00"},
		{"222222222222", "B", "Product B", "", "", "", "10.00", "20.00"},
	})
	_, err := svc.Import(context.Background(), first, req)
	require.NoError(t, err)

	second := buildWorkbook(t, "Catalog", [][]interface{}{
		standardHeader(),
		{"111111111111", "A", "Product A", "", "", "", "10.00", "20.00"},
	})
	summary, err := svc.Import(context.Background(), second, req)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Deactivated)

	var a, b model.Product
	require.NoError(t, testDB.Where("upc = ?", "111111111111").First(&a).Error)
	require.NoError(t, testDB.Where("upc = ?", "222222222222").First(&b).Error)
	assert.True(t, a.Active)
	assert.False(t, b.Active)
}

func TestImport_GenderFallbackFromSheetName(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	file := buildWorkbook(t, "Women's Apparel", [][]interface{}{
		standardHeader(),
		{"123456789012", "PANT-1", "Halle Pant", "Black", "6", "", "42.50", "85.00"},
	})

	_, err := svc.Import(context.Background(), file, ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Women's Apparel",
		Mapping:   standardMapping(),
	})
	require.NoError(t, err)

	var product model.Product
	require.NoError(t, testDB.Where("upc = ?", "123456789012").First(&product).Error)
	assert.Equal(t, "Women's", product.Gender)
}

func TestImport_ExplicitGenderBeatsSheetFallback(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	file := buildWorkbook(t, "Women's Apparel", [][]interface{}{
		standardHeader(),
		{"123456789012", "SHIRT-1", "Crag Tee", "Blue", "M", "Unisex", "15.00", "30.00"},
	})

	_, err := svc.Import(context.Background(), file, ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Women's Apparel",
		Mapping:   standardMapping(),
	})
	require.NoError(t, err)

	var product model.Product
	require.NoError(t, testDB.Where("upc = ?", "123456789012").First(&product).Error)
	assert.Equal(t, "Unisex", product.Gender)
}

func TestImport_InvalidRowsAreReportedAndSkipped(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	file := buildWorkbook(t, "Catalog", [][]interface{}{
		standardHeader(),
		{"123456789012", "A", "Good Product", "", "", "", "10.00", "20.00"},
		{"", "B", "No UPC", "", "", "", "10.00", "20.00"},
		{"333333333333", "C", "Bad Price", "", "", "", "abc", "20.00"},
	})

	summary, err := svc.Import(context.Background(), file, ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   standardMapping(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 3, summary.Errors[0].RowNumber)
	assert.Contains(t, summary.Errors[0].Messages[0], "UPC")
	assert.Equal(t, 4, summary.Errors[1].RowNumber)
	assert.Contains(t, summary.Errors[1].Messages[0], "wholesale")

	// The valid subset still committed
	var count int64
	require.NoError(t, testDB.Model(&model.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestImport_RecordsSeasonPriceAndHistory(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	req := ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   standardMapping(),
	}

	first := buildWorkbook(t, "Catalog", [][]interface{}{
		standardHeader(),
		{"123456789012", "A", "Product A", "", "", "", "10.00", "20.00"},
	})
	_, err := svc.Import(context.Background(), first, req)
	require.NoError(t, err)

	var price model.SeasonPrice
	require.NoError(t, testDB.Where("season_id = ?", season.ID).First(&price).Error)
	assert.True(t, decimal.NewFromFloat(10.00).Equal(price.Wholesale))

	var history []model.PriceHistory
	require.NoError(t, testDB.Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, model.PriceReasonSeasonRoll, history[0].Reason)

	// Price change on re-import appends a second audit row
	second := buildWorkbook(t, "Catalog", [][]interface{}{
		standardHeader(),
		{"123456789012", "A", "Product A", "", "", "", "12.00", "24.00"},
	})
	_, err = svc.Import(context.Background(), second, req)
	require.NoError(t, err)

	require.NoError(t, testDB.Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, model.PriceReasonImport, history[1].Reason)
	assert.True(t, decimal.NewFromFloat(10.00).Equal(history[1].OldWholesale))
	assert.True(t, decimal.NewFromFloat(12.00).Equal(history[1].NewWholesale))

	require.NoError(t, testDB.Where("season_id = ?", season.ID).First(&price).Error)
	assert.True(t, decimal.NewFromFloat(12.00).Equal(price.Wholesale))
}

func TestImport_CaseRowsGetCaseMappings(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	file := buildWorkbook(t, "Catalog", [][]interface{}{
		standardHeader(),
		{"111111111111", "TR100", "Trail Runner", "", "", "", "5.00", "10.00"},
		{"222222222222", "TR100-CS24", "Trail Runner Case of 24", "", "", "", "110.00", "220.00"},
	})

	_, err := svc.Import(context.Background(), file, ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   standardMapping(),
	})
	require.NoError(t, err)

	var caseProduct model.Product
	require.NoError(t, testDB.Where("upc = ?", "222222222222").First(&caseProduct).Error)
	require.NotNil(t, caseProduct.CaseQty)
	assert.Equal(t, 24, *caseProduct.CaseQty)

	var unit model.Product
	require.NoError(t, testDB.Where("upc = ?", "111111111111").First(&unit).Error)

	var mapping model.CaseMapping
	require.NoError(t, testDB.Where("case_product_id = ?", caseProduct.ID).First(&mapping).Error)
	assert.Equal(t, 24, mapping.UnitsPerCase)
	require.NotNil(t, mapping.UnitProductID)
	assert.Equal(t, unit.ID, *mapping.UnitProductID)
}

func TestImport_UnknownBrandFails(t *testing.T) {
	testDB, svc, _, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	file := buildWorkbook(t, "Catalog", [][]interface{}{standardHeader()})
	_, err := svc.Import(context.Background(), file, ImportRequest{
		BrandID:   9999,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   standardMapping(),
	})
	assert.ErrorIs(t, err, ErrBrandNotFound)
}

func TestImport_MissingMappedColumnFailsBeforeWrites(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	file := buildWorkbook(t, "Catalog", [][]interface{}{
		{"UPC", "Name"}, // no Wholesale column
		{"123456789012", "Product A"},
	})

	_, err := svc.Import(context.Background(), file, ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   standardMapping(),
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, testDB.Model(&model.Product{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestImport_UPCMarkedNotAvailable(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	mapping := ColumnMapping{
		Columns: map[string]string{
			FieldSKU:       "SKU",
			FieldName:      "Name",
			FieldWholesale: "Wholesale",
		},
		NotAvailable: []string{FieldUPC},
	}

	rows := [][]interface{}{
		{"SKU", "Name", "Wholesale"},
		{"ROPE-60", "Velocity 9.8 60m", "120.00"},
	}
	req := ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   mapping,
	}

	summary, err := svc.Import(context.Background(), buildWorkbook(t, "Catalog", rows), req)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)

	// The synthetic identifier is deterministic, so re-import updates in place
	second, err := svc.Import(context.Background(), buildWorkbook(t, "Catalog", rows), req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 1, second.Updated)
}

func TestImport_HeaderAutoDetection(t *testing.T) {
	testDB, svc, brand, season := setupImportTest(t)
	defer db.CleanupTestDB(testDB)

	// Two junk rows above the real header
	file := buildWorkbook(t, "Catalog", [][]interface{}{
		{"Scarpa Preseason Catalog"},
		{},
		standardHeader(),
		{"123456789012", "INS-VS-42", "Instinct VS", "Black", "42", "Men's", "92.50", "185.00"},
	})

	summary, err := svc.Import(context.Background(), file, ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  &season.ID,
		SheetName: "Catalog",
		Mapping:   standardMapping(),
		// HeaderRow left at zero to exercise detection
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)
}

func TestBrandLocks_SerializePerBrand(t *testing.T) {
	locks := brandLocks{held: make(map[uint]bool)}

	assert.True(t, locks.tryAcquire(1))
	assert.False(t, locks.tryAcquire(1))
	assert.True(t, locks.tryAcquire(2)) // other brands are independent

	locks.release(1)
	assert.True(t, locks.tryAcquire(1))
}
