package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/internal/db"
	"github.com/summitretail/preseason-backend/pkg/spreadsheet"
)

// spreadsheetWithTwoSheets builds a workbook whose first sheet is unrelated
// notes; the real order rows live on a sheet named after the season code.
func spreadsheetWithTwoSheets(t *testing.T) *bytes.Reader {
	wb := spreadsheet.New()
	require.NoError(t, wb.SetRow("Sheet1", 1, []interface{}{"Buyer notes", "do not import"}))
	require.NoError(t, wb.SetRow("Sheet1", 2, []interface{}{"call rep about terms"}))
	require.NoError(t, wb.AddSheet("S26"))
	require.NoError(t, wb.SetRow("S26", 1, orderSheetHeader))
	require.NoError(t, wb.SetRow("S26", 2, []interface{}{"100000000001", "Prana", "SLC", "126", 1, ""}))

	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, wb.Close())
	return bytes.NewReader(buf.Bytes())
}

type orderImportFixture struct {
	db     *gorm.DB
	svc    OrderImportService
	season model.Season
}

func setupOrderImportTest(t *testing.T) *orderImportFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	season := model.Season{Name: "Spring 2026", Code: "S26"}
	require.NoError(t, testDB.Create(&season).Error)

	for _, b := range []model.Brand{
		{Name: "Prana", Code: "PRA"},
		{Name: "La Sportiva", Code: "LAS"},
	} {
		require.NoError(t, testDB.Create(&b).Error)
	}
	for _, l := range []model.Location{
		{Name: "Salt Lake City", Code: "SLC"},
		{Name: "SouthMain", Code: "SOMA"},
		{Name: "Ogden", Code: "OGD"},
	} {
		require.NoError(t, testDB.Create(&l).Error)
	}

	return &orderImportFixture{
		db:     testDB,
		svc:    NewOrderImportService(testDB, repository.NewSeasonRepository(testDB)),
		season: season,
	}
}

func (f *orderImportFixture) addProduct(t *testing.T, brandName, upc, name string, wholesale float64) model.Product {
	var brand model.Brand
	require.NoError(t, f.db.Where("name = ?", brandName).First(&brand).Error)
	p := model.Product{
		BrandID:   brand.ID,
		UPC:       upc,
		Name:      name,
		Wholesale: decimal.NewFromFloat(wholesale),
		Active:    true,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

var orderSheetHeader = []interface{}{"UPC", "Brand", "Gym", "Ship Month", "Quantity", "Wholesale"}

func TestImportOrders_GroupsRowsIntoOrders(t *testing.T) {
	f := setupOrderImportTest(t)
	defer db.CleanupTestDB(f.db)

	f.addProduct(t, "Prana", "100000000001", "Stretch Zion Pant", 42.50)
	f.addProduct(t, "Prana", "100000000002", "Halle Pant", 38.00)
	f.addProduct(t, "La Sportiva", "100000000003", "Solution Comp", 92.50)

	wb := buildWorkbook(t, "S26", [][]interface{}{
		orderSheetHeader,
		{"100000000001", "Prana", "SLC", "126", 4, "42.50"},
		{"100000000002", "Prana", "SLC", "126", 2, "38.00"},
		{"100000000001", "Prana", "Ogden", "126", 3, "42.50"},
		{"100000000003", "La Sportiva", "SLC", "326", 1, "92.50"},
	})

	summary, err := f.svc.ImportOrders(context.Background(), wb, "", f.season.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.OrdersCreated)
	assert.Equal(t, 4, summary.ItemsAdded)
	assert.Equal(t, 4, summary.RowsTotal)
	assert.Empty(t, summary.Skipped)

	var orders []model.Order
	require.NoError(t, f.db.Order("order_number").Find(&orders).Error)
	require.Len(t, orders, 3)

	numbers := make([]string, len(orders))
	for i, o := range orders {
		numbers[i] = o.OrderNumber
	}
	assert.Equal(t, []string{"JAN26-PRA-OGD", "JAN26-PRA-SLC", "MAR26-LAS-SLC"}, numbers)

	var slcOrder model.Order
	require.NoError(t, f.db.Where("order_number = ?", "JAN26-PRA-SLC").First(&slcOrder).Error)
	assert.Equal(t, "2026-01", slcOrder.ShipMonth)
	assert.Equal(t, 6, slcOrder.TotalQuantity)
	assert.True(t, decimal.NewFromFloat(246.00).Equal(slcOrder.Subtotal))
}

func TestImportOrders_FallsBackToCatalogWholesale(t *testing.T) {
	f := setupOrderImportTest(t)
	defer db.CleanupTestDB(f.db)

	f.addProduct(t, "Prana", "100000000001", "Stretch Zion Pant", 42.50)

	wb := buildWorkbook(t, "S26", [][]interface{}{
		orderSheetHeader,
		{"100000000001", "Prana", "SLC", "2026-01", 2, ""},
	})

	summary, err := f.svc.ImportOrders(context.Background(), wb, "", f.season.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemsAdded)

	var item model.OrderItem
	require.NoError(t, f.db.First(&item).Error)
	assert.True(t, decimal.NewFromFloat(42.50).Equal(item.UnitCost))
	assert.True(t, decimal.NewFromFloat(85.00).Equal(item.LineTotal))
}

func TestImportOrders_SkipsBadRowsAndKeepsTheRest(t *testing.T) {
	f := setupOrderImportTest(t)
	defer db.CleanupTestDB(f.db)

	f.addProduct(t, "Prana", "100000000001", "Stretch Zion Pant", 42.50)

	wb := buildWorkbook(t, "S26", [][]interface{}{
		orderSheetHeader,
		{"100000000001", "Prana", "SLC", "126", 4, ""},
		{"", "Prana", "SLC", "126", 2, ""},
		{"100000000001", "Patagonia", "SLC", "126", 2, ""},
		{"100000000001", "Prana", "Moab", "126", 2, ""},
		{"100000000001", "Prana", "SLC", "126", "zero", ""},
		{"100000000001", "Prana", "SLC", "1326", 2, ""},
	})

	summary, err := f.svc.ImportOrders(context.Background(), wb, "", f.season.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.OrdersCreated)
	assert.Equal(t, 1, summary.ItemsAdded)
	assert.Equal(t, 6, summary.RowsTotal)
	require.Len(t, summary.Skipped, 5)

	rows := make([]int, len(summary.Skipped))
	for i, s := range summary.Skipped {
		rows[i] = s.RowNumber
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7}, rows)
}

func TestImportOrders_CreatesMissingProducts(t *testing.T) {
	f := setupOrderImportTest(t)
	defer db.CleanupTestDB(f.db)

	header := []interface{}{"UPC", "Brand", "Gym", "Ship Month", "Quantity", "Wholesale", "Description", "Color", "Size"}
	wb := buildWorkbook(t, "S26", [][]interface{}{
		header,
		{"555000000001", "Prana", "SLC", "126", 3, "42.50", "Stretch Zion Pant", "Charcoal", "32"},
	})

	summary, err := f.svc.ImportOrders(context.Background(), wb, "", f.season.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ProductsCreated)
	assert.Equal(t, 1, summary.ItemsAdded)
	assert.Empty(t, summary.Skipped)

	var product model.Product
	require.NoError(t, f.db.Where("upc = ?", "555000000001").First(&product).Error)
	assert.Equal(t, "Stretch Zion Pant", product.Name)
	assert.Equal(t, "Charcoal", product.Color)
	assert.Equal(t, "32", product.Size)
	assert.True(t, product.Active)
	require.NotNil(t, product.SeasonID)
	assert.Equal(t, f.season.ID, *product.SeasonID)
	assert.True(t, decimal.NewFromFloat(42.50).Equal(product.Wholesale))

	var item model.OrderItem
	require.NoError(t, f.db.First(&item).Error)
	assert.Equal(t, product.ID, item.ProductID)
}

func TestImportOrders_ReadsTextualShipMonths(t *testing.T) {
	f := setupOrderImportTest(t)
	defer db.CleanupTestDB(f.db)

	fall := model.Season{Name: "Fall 2025", Code: "F25"}
	require.NoError(t, f.db.Create(&fall).Error)

	f.addProduct(t, "Prana", "100000000001", "Stretch Zion Pant", 42.50)
	f.addProduct(t, "Prana", "100000000002", "Halle Pant", 38.00)

	wb := buildWorkbook(t, "F25", [][]interface{}{
		orderSheetHeader,
		{"100000000001", "Prana", "SLC", "Jul", 2, ""},
		{"100000000002", "Prana", "SLC", "ASAP", 1, ""},
		{"100000000001", "Prana", "SLC", "Jan", 1, ""},
	})

	summary, err := f.svc.ImportOrders(context.Background(), wb, "", fall.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Skipped)
	assert.Equal(t, 2, summary.OrdersCreated)
	assert.Equal(t, 3, summary.ItemsAdded)

	var orders []model.Order
	require.NoError(t, f.db.Order("ship_month").Find(&orders).Error)
	require.Len(t, orders, 2)
	assert.Equal(t, "2025-07", orders[0].ShipMonth)
	assert.Equal(t, "JUL25-PRA-SLC", orders[0].OrderNumber)
	assert.Equal(t, 3, orders[0].TotalQuantity)
	assert.Equal(t, "2026-01", orders[1].ShipMonth)
	assert.Equal(t, "JAN26-PRA-SLC", orders[1].OrderNumber)
}

func TestImportOrders_ResolvesLocationAliases(t *testing.T) {
	f := setupOrderImportTest(t)
	defer db.CleanupTestDB(f.db)

	f.addProduct(t, "Prana", "100000000001", "Stretch Zion Pant", 42.50)

	wb := buildWorkbook(t, "S26", [][]interface{}{
		orderSheetHeader,
		{"100000000001", "Prana", "South Main", "126", 1, ""},
		{"100000000001", "Prana", "SouthMain", "126", 1, ""},
	})

	summary, err := f.svc.ImportOrders(context.Background(), wb, "", f.season.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OrdersCreated)

	var order model.Order
	require.NoError(t, f.db.First(&order).Error)
	assert.Equal(t, "JAN26-PRA-SOMA", order.OrderNumber)
	assert.Equal(t, 2, order.TotalQuantity)
}

func TestImportOrders_PrefersSheetNamedAfterSeason(t *testing.T) {
	f := setupOrderImportTest(t)
	defer db.CleanupTestDB(f.db)

	f.addProduct(t, "Prana", "100000000001", "Stretch Zion Pant", 42.50)

	wb := spreadsheetWithTwoSheets(t)

	summary, err := f.svc.ImportOrders(context.Background(), wb, "", f.season.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemsAdded)
}

func TestImportOrders_UnknownSeasonFails(t *testing.T) {
	f := setupOrderImportTest(t)
	defer db.CleanupTestDB(f.db)

	wb := buildWorkbook(t, "S26", [][]interface{}{orderSheetHeader})

	_, err := f.svc.ImportOrders(context.Background(), wb, "", 9999)
	assert.ErrorIs(t, err, ErrSeasonNotFound)
}

func TestParseShipMonth(t *testing.T) {
	cases := []struct {
		in      string
		season  string
		want    string
		wantErr bool
	}{
		{"126", "S26", "2026-01", false},
		{"1125", "S26", "2025-11", false},
		{"326.0", "S26", "2026-03", false},
		{"2026-01", "S26", "2026-01", false},
		{"Jul", "F25", "2025-07", false},
		{"July", "F25", "2025-07", false},
		{"Dec", "F25", "2025-12", false},
		{"Jan", "F25", "2026-01", false}, // fall months past December roll over
		{"ASAP", "F25", "2025-07", false},
		{"ASAP ", "F25", "2025-07", false}, // trailing space seen in real sheets
		{"January", "S26", "2026-01", false},
		{"ASAP", "S26", "2026-01", false},
		{"1326", "S26", "", true},
		{"2026-13", "S26", "", true},
		{"Sometime", "S26", "", true},
		{"Jul", "", "", true}, // month names need a season year
		{"", "S26", "", true},
	}
	for _, tc := range cases {
		got, err := parseShipMonth(tc.in, tc.season)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
