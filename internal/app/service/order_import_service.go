package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/pkg/logger"
	"github.com/summitretail/preseason-backend/pkg/sheet"
	"github.com/summitretail/preseason-backend/pkg/spreadsheet"
)

// Spreadsheet aliases for locations as they appear in buyers' order files
var locationAliases = map[string]string{
	"slc":        "SLC",
	"southmain":  "SOMA",
	"south main": "SOMA",
	"soma":       "SOMA",
	"ogden":      "OGD",
	"ogd":        "OGD",
}

// OrderImportSummary is the outcome of one order-sheet import
type OrderImportSummary struct {
	OrdersCreated   int        `json:"orders_created"`
	ItemsAdded      int        `json:"items_added"`
	ProductsCreated int        `json:"products_created"`
	RowsTotal       int        `json:"rows_total"`
	Skipped         []RowError `json:"skipped,omitempty"`
}

// OrderImportService ingests a consolidated preseason order sheet: one row
// per (product, brand, gym, ship month, quantity), grouped into draft orders.
type OrderImportService interface {
	ImportOrders(ctx context.Context, r io.Reader, sheetName string, seasonID uint) (*OrderImportSummary, error)
}

type orderImportService struct {
	db         *gorm.DB
	seasonRepo repository.SeasonRepository
}

func NewOrderImportService(db *gorm.DB, seasonRepo repository.SeasonRepository) OrderImportService {
	return &orderImportService{db: db, seasonRepo: seasonRepo}
}

// orderGroupKey buckets rows into one purchase order
type orderGroupKey struct {
	brandID    uint
	locationID uint
	shipMonth  string
}

func (s *orderImportService) ImportOrders(ctx context.Context, r io.Reader, sheetName string, seasonID uint) (*OrderImportSummary, error) {
	season, err := s.seasonRepo.FindByID(seasonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}

	wb, err := spreadsheet.Open(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	if sheetName == "" {
		names := wb.SheetNames()
		if len(names) == 0 {
			return nil, ErrNoUsableRows
		}
		// Order sheets are conventionally named after the season code
		sheetName = names[0]
		for _, n := range names {
			if strings.EqualFold(n, season.Code) {
				sheetName = n
				break
			}
		}
	}

	grid, err := wb.Grid(sheetName)
	if err != nil {
		return nil, ErrSheetNotFound
	}
	if len(grid) < 2 {
		return nil, ErrNoUsableRows
	}

	headerRow := sheet.DetectHeaderRow(grid)
	index, missing := buildColumnIndex(grid[headerRow-1], ColumnMapping{Columns: map[string]string{
		"upc":         "UPC",
		"brand":       "Brand",
		"gym":         "Gym",
		"ship_month":  "Ship Month",
		"quantity":    "Quantity",
		"wholesale":   "Wholesale",
		"description": "Description",
		"sku":         "Product Number",
		"color":       "Color",
		"size":        "Size",
		"msrp":        "Retail",
	}})
	required := map[string]bool{"upc": true, "brand": true, "gym": true, "ship_month": true, "quantity": true}
	for _, field := range missing {
		if required[field] {
			return nil, fmt.Errorf("order sheet is missing required column %q", field)
		}
	}

	summary := &OrderImportSummary{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.applyOrderRows(tx, grid, headerRow, index, season, summary)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Order import completed", map[string]interface{}{
		"season":           season.Code,
		"orders_created":   summary.OrdersCreated,
		"items_added":      summary.ItemsAdded,
		"products_created": summary.ProductsCreated,
		"skipped":          len(summary.Skipped),
	})
	return summary, nil
}

func (s *orderImportService) applyOrderRows(tx *gorm.DB, grid [][]string, headerRow int, index map[string]int, season *model.Season, summary *OrderImportSummary) error {
	orders := repository.NewOrderRepository(tx)
	products := repository.NewProductRepository(tx)
	brands := repository.NewBrandRepository(tx)
	locations := repository.NewLocationRepository(tx)

	// Lookup caches live for this run only
	brandCache := make(map[string]*model.Brand)
	locationCache := make(map[string]*model.Location)
	orderCache := make(map[orderGroupKey]*model.Order)

	value := func(row []string, field string) string {
		pos, ok := index[field]
		if !ok || pos >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[pos])
	}

	skip := func(rowNumber int, reason string) {
		summary.Skipped = append(summary.Skipped, RowError{
			RowNumber: rowNumber,
			Messages:  []string{reason},
		})
	}

	for i := headerRow; i < len(grid); i++ {
		row := grid[i]
		if isEmptyRow(row) {
			continue
		}
		summary.RowsTotal++
		rowNumber := i + 1

		upc := value(row, "upc")
		brandName := value(row, "brand")
		gym := value(row, "gym")
		if upc == "" || brandName == "" || gym == "" {
			skip(rowNumber, "missing UPC, brand, or gym")
			continue
		}

		quantity, err := sheet.ParseQuantity(value(row, "quantity"))
		if err != nil || quantity == nil || *quantity <= 0 {
			skip(rowNumber, fmt.Sprintf("invalid quantity %q", value(row, "quantity")))
			continue
		}

		shipMonth, err := parseShipMonth(value(row, "ship_month"), season.Code)
		if err != nil {
			skip(rowNumber, fmt.Sprintf("invalid ship month %q", value(row, "ship_month")))
			continue
		}

		brand, ok := brandCache[strings.ToLower(brandName)]
		if !ok {
			brand, err = brands.FindByName(brandName)
			if err != nil {
				skip(rowNumber, fmt.Sprintf("unknown brand %q", brandName))
				continue
			}
			brandCache[strings.ToLower(brandName)] = brand
		}

		location, ok := locationCache[strings.ToLower(gym)]
		if !ok {
			code := gym
			if alias, found := locationAliases[strings.ToLower(gym)]; found {
				code = alias
			}
			location, err = locations.FindByCode(code)
			if err != nil {
				skip(rowNumber, fmt.Sprintf("unknown location %q", gym))
				continue
			}
			locationCache[strings.ToLower(gym)] = location
		}

		product, err := products.FindByUPC(upc)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// Order sheets routinely carry products the catalog import has
			// not seen yet. Create a stub row from what the sheet gives us.
			product, err = s.ensureProduct(products, row, value, upc, brand.ID, season.ID)
			if err != nil {
				return err
			}
			summary.ProductsCreated++
		}

		key := orderGroupKey{brandID: brand.ID, locationID: location.ID, shipMonth: shipMonth}
		order, ok := orderCache[key]
		if !ok {
			prefix, err := orderNumberPrefix(shipMonth, brand.Code, location.Code)
			if err != nil {
				skip(rowNumber, fmt.Sprintf("invalid ship month %q", shipMonth))
				continue
			}
			number, err := uniqueOrderNumber(orders, prefix)
			if err != nil {
				return err
			}
			order = &model.Order{
				OrderNumber: number,
				BrandID:     brand.ID,
				LocationID:  location.ID,
				SeasonID:    season.ID,
				ShipMonth:   shipMonth,
				Status:      model.OrderStatusDraft,
			}
			if err := orders.Create(order); err != nil {
				return err
			}
			orderCache[key] = order
			summary.OrdersCreated++
		}

		unitCost := product.Wholesale
		if raw := value(row, "wholesale"); raw != "" {
			if parsed, err := sheet.ParseMoney(raw); err == nil && parsed != nil {
				unitCost = *parsed
			}
		}

		item := &model.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  *quantity,
			UnitCost:  unitCost,
			LineTotal: unitCost.Mul(decimalFromInt(*quantity)),
		}
		if err := orders.AddItem(item); err != nil {
			return err
		}
		summary.ItemsAdded++
	}

	for _, order := range orderCache {
		if err := orders.RecomputeTotals(order.ID); err != nil {
			return err
		}
	}
	return nil
}

// ensureProduct creates a stub product for a UPC the catalog has never seen,
// filled from whatever optional columns the order sheet carries.
func (s *orderImportService) ensureProduct(products repository.ProductRepository, row []string, value func([]string, string) string, upc string, brandID, seasonID uint) (*model.Product, error) {
	product := &model.Product{
		BrandID:  brandID,
		SeasonID: &seasonID,
		UPC:      upc,
		Name:     value(row, "description"),
		SKU:      value(row, "sku"),
		Color:    value(row, "color"),
		Size:     value(row, "size"),
		Active:   true,
	}
	if product.Name == "" {
		product.Name = upc
	}
	if parsed, err := sheet.ParseMoney(value(row, "wholesale")); err == nil && parsed != nil {
		product.Wholesale = *parsed
	}
	if parsed, err := sheet.ParseMoney(value(row, "msrp")); err == nil && parsed != nil {
		product.MSRP = *parsed
	}
	if err := products.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

var monthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// parseShipMonth reads the ship month forms buyers put in order sheets:
// "2026-01", the compact MYY form (126 is January 2026, 1125 is November
// 2025), month names ("Jul", "July"), and "ASAP". Month names resolve
// against the season code's year, with fall-season months past December
// rolling into the next year; ASAP means the season's first ship month.
// Returns "2026-01" form.
func parseShipMonth(raw, seasonCode string) (string, error) {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), ".0"))
	if raw == "" {
		return "", ErrInvalidShipMonth
	}

	// Already in year-month form
	if strings.Contains(raw, "-") {
		if validYearMonth(raw) {
			return raw, nil
		}
		return "", ErrInvalidShipMonth
	}

	if v, err := strconv.Atoi(raw); err == nil {
		month := v / 100
		year := v % 100
		if month < 1 || month > 12 {
			return "", ErrInvalidShipMonth
		}
		return fmt.Sprintf("20%02d-%02d", year, month), nil
	}

	year, fall, ok := seasonYear(seasonCode)
	if !ok {
		return "", ErrInvalidShipMonth
	}
	key := strings.ToLower(raw)
	if key == "asap" {
		month := 1
		if fall {
			month = 7
		}
		return fmt.Sprintf("%d-%02d", year, month), nil
	}
	if len(key) >= 3 {
		for i, name := range monthNames {
			if strings.HasPrefix(name, key) {
				if fall && i < 6 {
					year++
				}
				return fmt.Sprintf("%d-%02d", year, i+1), nil
			}
		}
	}
	return "", ErrInvalidShipMonth
}

// seasonYear reads "F25" or "S26" style codes into a calendar year and a
// fall/spring flag.
func seasonYear(code string) (year int, fall bool, ok bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 3 {
		return 0, false, false
	}
	yy, err := strconv.Atoi(code[len(code)-2:])
	if err != nil {
		return 0, false, false
	}
	return 2000 + yy, strings.HasPrefix(code, "F"), true
}

func validYearMonth(raw string) bool {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 {
		return false
	}
	month, err := strconv.Atoi(parts[1])
	return err == nil && month >= 1 && month <= 12
}
