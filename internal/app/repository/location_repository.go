package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
)

type LocationRepository interface {
	Create(location *model.Location) error
	FindAll(activeOnly bool) ([]model.Location, error)
	FindByID(id uint) (*model.Location, error)
	FindByCode(code string) (*model.Location, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(location *model.Location) error {
	return r.db.Create(location).Error
}

func (r *locationRepository) FindAll(activeOnly bool) ([]model.Location, error) {
	var locations []model.Location
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepository) FindByID(id uint) (*model.Location, error) {
	var location model.Location
	if err := r.db.First(&location, id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) FindByCode(code string) (*model.Location, error) {
	var location model.Location
	err := r.db.Where("UPPER(code) = ?", strings.ToUpper(code)).First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}
