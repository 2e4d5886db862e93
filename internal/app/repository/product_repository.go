package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

type ProductFilter struct {
	BrandID    *uint
	SeasonID   *uint
	Gender     string
	Category   string
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindByUPC(upc string) (*model.Product, error)
	FindByBrandAndSKU(brandID uint, sku string) (*model.Product, error)
	FindByBrandAndName(brandID uint, name string) (*model.Product, error)
	FindByUPCs(upcs []string) ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindActiveByBrand(brandID uint) ([]model.Product, error)
	BatchUpsert(products []model.Product, batchSize int) error
	DeactivateBrand(brandID uint) (int64, error)
	Update(product *model.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"upc":  product.UPC,
			"name": product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Brand").Preload("Season").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByUPC(upc string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Where("upc = ?", upc).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByBrandAndSKU(brandID uint, sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("brand_id = ? AND sku = ?", brandID, sku).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByBrandAndName(brandID uint, name string) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("brand_id = ? AND LOWER(name) = ?", brandID, strings.ToLower(name)).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByUPCs loads the products matching any of the given UPCs. Chunked so
// the IN list stays within driver placeholder limits.
func (r *productRepository) FindByUPCs(upcs []string) ([]model.Product, error) {
	const chunkSize = 500

	var products []model.Product
	for start := 0; start < len(upcs); start += chunkSize {
		end := start + chunkSize
		if end > len(upcs) {
			end = len(upcs)
		}

		var chunk []model.Product
		if err := r.db.Where("upc IN ?", upcs[start:end]).Find(&chunk).Error; err != nil {
			logger.Error("Failed to fetch products by UPC", err, map[string]interface{}{
				"count": len(upcs),
			})
			return nil, err
		}
		products = append(products, chunk...)
	}
	return products, nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.Model(&model.Product{})

	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.SeasonID != nil {
		query = query.Where("season_id = ?", *filter.SeasonID)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ? OR upc LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Preload("Brand").Order("name ASC, size ASC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) FindActiveByBrand(brandID uint) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("brand_id = ? AND active = ?", brandID, true).
		Order("name ASC, color ASC, size ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// BatchUpsert inserts or updates products keyed on UPC. Catalog columns are
// overwritten by the incoming row; season_id and case_qty keep their old
// value when the incoming row carries none, and base_name keeps its old
// value when the incoming one is empty.
func (r *productRepository) BatchUpsert(products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	assignments := clause.AssignmentColumns([]string{
		"brand_id", "sku", "name", "category", "subcategory",
		"gender", "size", "color", "inseam",
		"wholesale", "msrp", "active", "updated_at",
	})
	assignments = append(assignments,
		clause.Assignment{
			Column: clause.Column{Name: "season_id"},
			Value:  gorm.Expr("COALESCE(excluded.season_id, products.season_id)"),
		},
		clause.Assignment{
			Column: clause.Column{Name: "case_qty"},
			Value:  gorm.Expr("COALESCE(excluded.case_qty, products.case_qty)"),
		},
		clause.Assignment{
			Column: clause.Column{Name: "base_name"},
			Value:  gorm.Expr("COALESCE(NULLIF(excluded.base_name, ''), products.base_name)"),
		},
	)

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "upc"}},
		DoUpdates: assignments,
	}).CreateInBatches(products, batchSize).Error
	if err != nil {
		logger.Error("Failed to upsert products", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}

// DeactivateBrand marks every active product of the brand inactive.
// Run before the upsert batches of an import: products present in the new
// catalog are re-activated by the upsert, so anything absent from the file
// ends the run discontinued without being deleted.
func (r *productRepository) DeactivateBrand(brandID uint) (int64, error) {
	result := r.db.Model(&model.Product{}).
		Where("brand_id = ? AND active = ?", brandID, true).
		Update("active", false)
	if result.Error != nil {
		logger.Error("Failed to deactivate brand catalog", result.Error, map[string]interface{}{
			"brand_id": brandID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *productRepository) Update(product *model.Product) error {
	return r.db.Save(product).Error
}
