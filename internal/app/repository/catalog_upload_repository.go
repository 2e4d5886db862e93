package repository

import (
	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
)

type CatalogUploadRepository interface {
	Create(upload *model.CatalogUpload) error
	FindByID(id uint) (*model.CatalogUpload, error)
	FindRecent(brandID *uint, limit int) ([]model.CatalogUpload, error)
	Update(upload *model.CatalogUpload) error
	Delete(id uint) error
}

type catalogUploadRepository struct {
	db *gorm.DB
}

func NewCatalogUploadRepository(db *gorm.DB) CatalogUploadRepository {
	return &catalogUploadRepository{db: db}
}

func (r *catalogUploadRepository) Create(upload *model.CatalogUpload) error {
	return r.db.Create(upload).Error
}

func (r *catalogUploadRepository) FindByID(id uint) (*model.CatalogUpload, error) {
	var upload model.CatalogUpload
	err := r.db.Preload("Brand").Preload("Season").First(&upload, id).Error
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *catalogUploadRepository) FindRecent(brandID *uint, limit int) ([]model.CatalogUpload, error) {
	if limit <= 0 {
		limit = 20
	}
	query := r.db.Preload("Brand").Preload("Season").Order("created_at DESC").Limit(limit)
	if brandID != nil {
		query = query.Where("brand_id = ?", *brandID)
	}

	var uploads []model.CatalogUpload
	if err := query.Find(&uploads).Error; err != nil {
		return nil, err
	}
	return uploads, nil
}

func (r *catalogUploadRepository) Update(upload *model.CatalogUpload) error {
	return r.db.Save(upload).Error
}

func (r *catalogUploadRepository) Delete(id uint) error {
	result := r.db.Delete(&model.CatalogUpload{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
