package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/summitretail/preseason-backend/internal/app/model"
)

type CaseMappingRepository interface {
	Upsert(mappings []model.CaseMapping) error
	FindByCaseProduct(caseProductID uint) (*model.CaseMapping, error)
	FindByUnitProduct(unitProductID uint) ([]model.CaseMapping, error)
}

type caseMappingRepository struct {
	db *gorm.DB
}

func NewCaseMappingRepository(db *gorm.DB) CaseMappingRepository {
	return &caseMappingRepository{db: db}
}

func (r *caseMappingRepository) Upsert(mappings []model.CaseMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "case_product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"unit_product_id", "units_per_case", "updated_at"}),
	}).Create(&mappings).Error
}

func (r *caseMappingRepository) FindByCaseProduct(caseProductID uint) (*model.CaseMapping, error) {
	var mapping model.CaseMapping
	err := r.db.Where("case_product_id = ?", caseProductID).
		Preload("UnitProduct").
		First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *caseMappingRepository) FindByUnitProduct(unitProductID uint) ([]model.CaseMapping, error) {
	var mappings []model.CaseMapping
	err := r.db.Where("unit_product_id = ?", unitProductID).Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}
