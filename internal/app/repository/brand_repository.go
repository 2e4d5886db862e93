package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

type BrandRepository interface {
	Create(brand *model.Brand) error
	FindAll(activeOnly bool) ([]model.Brand, error)
	FindByID(id uint) (*model.Brand, error)
	FindByName(name string) (*model.Brand, error)
	Update(brand *model.Brand) error
}

type brandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(brand *model.Brand) error {
	if err := r.db.Create(brand).Error; err != nil {
		logger.Error("Failed to create brand", err, map[string]interface{}{
			"name": brand.Name,
		})
		return err
	}
	return nil
}

func (r *brandRepository) FindAll(activeOnly bool) ([]model.Brand, error) {
	var brands []model.Brand
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&brands).Error; err != nil {
		logger.Error("Failed to fetch brands", err)
		return nil, err
	}
	return brands, nil
}

func (r *brandRepository) FindByID(id uint) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.First(&brand, id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// FindByName matches case-insensitively so vendor spellings like
// "PRANA" or "prana" resolve to the same brand.
func (r *brandRepository) FindByName(name string) (*model.Brand, error) {
	var brand model.Brand
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) Update(brand *model.Brand) error {
	return r.db.Save(brand).Error
}
