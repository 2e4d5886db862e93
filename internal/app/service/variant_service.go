package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/pkg/logger"
	"github.com/summitretail/preseason-backend/pkg/sheet"
)

// ErrNoMatchingVariant is a normal "no result" outcome, not a failure.
// Order-copy and bulk color change report it per line and keep going.
var ErrNoMatchingVariant = errors.New("no matching variant")

// Family groups a brand's active variants of one style, colors nested under
// the shared family key. Derived from product names on every read; nothing
// here is persisted.
type Family struct {
	Key    string        `json:"key"`
	Gender string        `json:"gender,omitempty"`
	Colors []FamilyColor `json:"colors"`
}

type FamilyColor struct {
	Color    string          `json:"color"`
	Products []model.Product `json:"products"`
}

// LineResult reports what happened to one order line during a copy or a
// bulk color change.
type LineResult struct {
	OrderItemID uint   `json:"order_item_id,omitempty"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Status      string `json:"status"` // copied, substituted, replaced, skipped
	Reason      string `json:"reason,omitempty"`
}

type VariantService interface {
	ListFamilies(brandID uint) ([]Family, error)
	FindMatchingVariant(sourceProductID uint, targetColor, targetSize string) (*model.Product, error)
	CopyOrder(orderID, targetLocationID uint) (*model.Order, []LineResult, error)
	BulkColorChange(orderID uint, fromColor, toColor string) ([]LineResult, error)
}

type variantService struct {
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	brandRepo    repository.BrandRepository
	locationRepo repository.LocationRepository
}

func NewVariantService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	brandRepo repository.BrandRepository,
	locationRepo repository.LocationRepository,
) VariantService {
	return &variantService{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		brandRepo:    brandRepo,
		locationRepo: locationRepo,
	}
}

// ListFamilies groups a brand's active catalog into style families with
// colors nested inside, ordered as the products come back from the store.
func (s *variantService) ListFamilies(brandID uint) ([]Family, error) {
	products, err := s.productRepo.FindActiveByBrand(brandID)
	if err != nil {
		return nil, err
	}

	var families []Family
	familyIndex := make(map[string]int)

	for _, p := range products {
		key := sheet.FamilyKey(p.Name)
		fi, ok := familyIndex[strings.ToLower(key)]
		if !ok {
			fi = len(families)
			familyIndex[strings.ToLower(key)] = fi
			families = append(families, Family{Key: key, Gender: p.Gender})
		}

		placed := false
		for ci := range families[fi].Colors {
			if strings.EqualFold(families[fi].Colors[ci].Color, p.Color) {
				families[fi].Colors[ci].Products = append(families[fi].Colors[ci].Products, p)
				placed = true
				break
			}
		}
		if !placed {
			families[fi].Colors = append(families[fi].Colors, FamilyColor{
				Color:    p.Color,
				Products: []model.Product{p},
			})
		}
	}
	return families, nil
}

// FindMatchingVariant locates "the same style, different color or size" for
// the source product. Color and size match against the structured fields
// first, falling back to a substring check on the full name for records
// where those were never split out.
func (s *variantService) FindMatchingVariant(sourceProductID uint, targetColor, targetSize string) (*model.Product, error) {
	source, err := s.productRepo.FindByID(sourceProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	siblings, err := s.productRepo.FindActiveByBrand(source.BrandID)
	if err != nil {
		return nil, err
	}

	match := findVariant(siblings, *source, targetColor, targetSize)
	if match == nil {
		return nil, ErrNoMatchingVariant
	}
	return match, nil
}

func findVariant(candidates []model.Product, source model.Product, targetColor, targetSize string) *model.Product {
	familyKey := sheet.FamilyKey(source.Name)

	wantSize := targetSize
	if wantSize == "" {
		wantSize = source.Size
	}

	// A variant from the source's own season wins; one from another season
	// is kept as a fallback.
	var offSeason *model.Product
	for i := range candidates {
		p := &candidates[i]
		if p.ID == source.ID {
			continue
		}
		if !sheet.SameFamily(familyKey, sheet.FamilyKey(p.Name)) {
			continue
		}
		// Inseam distinguishes otherwise identical pants
		if source.Inseam != "" && p.Inseam != "" && !strings.EqualFold(source.Inseam, p.Inseam) {
			continue
		}
		if wantSize != "" && !fieldOrNameMatches(p.Size, p.Name, wantSize) {
			continue
		}
		if targetColor != "" && !fieldOrNameMatches(p.Color, p.Name, targetColor) {
			continue
		}
		if source.SeasonID == nil || (p.SeasonID != nil && *p.SeasonID == *source.SeasonID) {
			return p
		}
		if offSeason == nil {
			offSeason = p
		}
	}
	return offSeason
}

// fieldOrNameMatches compares against the structured field when it was
// populated, falling back to a case-insensitive substring hit on the full
// name for records where color/size was never split out.
func fieldOrNameMatches(field, name, want string) bool {
	field = strings.TrimSpace(field)
	if field != "" {
		return strings.EqualFold(field, strings.TrimSpace(want))
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(want))
}

// CopyOrder duplicates an order as a new draft for another location. Lines
// whose product was discontinued get a same-size substitute from the same
// family when one exists; lines with no substitute are skipped and reported.
func (s *variantService) CopyOrder(orderID, targetLocationID uint) (*model.Order, []LineResult, error) {
	source, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}

	location, err := s.locationRepo.FindByID(targetLocationID)
	if err != nil {
		return nil, nil, err
	}
	brand, err := s.brandRepo.FindByID(source.BrandID)
	if err != nil {
		return nil, nil, err
	}

	prefix, err := orderNumberPrefix(source.ShipMonth, brand.Code, location.Code)
	if err != nil {
		// Ship month may be absent on legacy orders; fall back to the source number
		prefix = source.OrderNumber + "-" + location.Code
	}
	number, err := uniqueOrderNumber(s.orderRepo, prefix)
	if err != nil {
		return nil, nil, err
	}

	siblings, err := s.productRepo.FindActiveByBrand(source.BrandID)
	if err != nil {
		return nil, nil, err
	}

	target := &model.Order{
		OrderNumber: number,
		BrandID:     source.BrandID,
		LocationID:  targetLocationID,
		SeasonID:    source.SeasonID,
		ShipMonth:   source.ShipMonth,
		Status:      model.OrderStatusDraft,
	}

	var results []LineResult
	for _, item := range source.OrderItems {
		product := item.Product
		result := LineResult{
			OrderItemID: item.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
		}

		if product.Active {
			target.OrderItems = append(target.OrderItems, model.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitCost:  item.UnitCost,
				LineTotal: item.LineTotal,
			})
			result.Status = "copied"
			results = append(results, result)
			continue
		}

		substitute := findVariant(siblings, product, "", product.Size)
		if substitute == nil {
			result.Status = "skipped"
			result.Reason = "product discontinued and no substitute in family"
			results = append(results, result)
			continue
		}

		target.OrderItems = append(target.OrderItems, model.OrderItem{
			ProductID: substitute.ID,
			Quantity:  item.Quantity,
			UnitCost:  substitute.Wholesale,
			LineTotal: substitute.Wholesale.Mul(decimalFromInt(item.Quantity)),
		})
		result.Status = "substituted"
		result.Reason = "replaced with " + substitute.Name + " " + substitute.Color
		results = append(results, result)
	}

	if err := s.orderRepo.Create(target); err != nil {
		return nil, nil, err
	}
	if err := s.orderRepo.RecomputeTotals(target.ID); err != nil {
		return nil, nil, err
	}

	created, err := s.orderRepo.FindByID(target.ID)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Order copied", map[string]interface{}{
		"source":   source.OrderNumber,
		"target":   created.OrderNumber,
		"location": location.Code,
		"lines":    len(results),
	})
	return created, results, nil
}

// BulkColorChange swaps every line matching fromColor to the same style and
// size in toColor. Lines with no matching variant are left untouched and
// reported; the rest of the order still changes.
func (s *variantService) BulkColorChange(orderID uint, fromColor, toColor string) ([]LineResult, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.Status != model.OrderStatusDraft {
		return nil, ErrOrderNotDraft
	}

	siblings, err := s.productRepo.FindActiveByBrand(order.BrandID)
	if err != nil {
		return nil, err
	}

	var results []LineResult
	changed := false
	for i := range order.OrderItems {
		item := &order.OrderItems[i]
		product := item.Product

		if !fieldOrNameMatches(product.Color, product.Name, fromColor) {
			continue
		}

		result := LineResult{
			OrderItemID: item.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
		}

		variant := findVariant(siblings, product, toColor, product.Size)
		if variant == nil {
			result.Status = "skipped"
			result.Reason = "no " + toColor + " variant in this size"
			results = append(results, result)
			continue
		}

		item.ProductID = variant.ID
		item.UnitCost = variant.Wholesale
		item.LineTotal = variant.Wholesale.Mul(decimalFromInt(item.Quantity))
		if err := s.orderRepo.UpdateItem(item); err != nil {
			return nil, err
		}
		changed = true

		result.Status = "replaced"
		result.Reason = "now " + variant.Name + " " + variant.Color
		results = append(results, result)
	}

	if changed {
		if err := s.orderRepo.RecomputeTotals(orderID); err != nil {
			return nil, err
		}
	}
	return results, nil
}
