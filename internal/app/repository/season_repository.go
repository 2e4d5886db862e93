package repository

import (
	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

type SeasonRepository interface {
	Create(season *model.Season) error
	FindAll() ([]model.Season, error)
	FindByID(id uint) (*model.Season, error)
	FindByCode(code string) (*model.Season, error)
	FindCurrent() (*model.Season, error)
	SetCurrent(id uint) error
	Update(season *model.Season) error
}

type seasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) SeasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) Create(season *model.Season) error {
	if err := r.db.Create(season).Error; err != nil {
		logger.Error("Failed to create season", err, map[string]interface{}{
			"name": season.Name,
		})
		return err
	}
	return nil
}

func (r *seasonRepository) FindAll() ([]model.Season, error) {
	var seasons []model.Season
	if err := r.db.Order("id DESC").Find(&seasons).Error; err != nil {
		return nil, err
	}
	return seasons, nil
}

func (r *seasonRepository) FindByID(id uint) (*model.Season, error) {
	var season model.Season
	if err := r.db.First(&season, id).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

func (r *seasonRepository) FindByCode(code string) (*model.Season, error) {
	var season model.Season
	if err := r.db.Where("code = ?", code).First(&season).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

func (r *seasonRepository) FindCurrent() (*model.Season, error) {
	var season model.Season
	if err := r.db.Where("current = ?", true).First(&season).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

// SetCurrent marks one season current and clears the flag everywhere else
func (r *seasonRepository) SetCurrent(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Season{}).Where("current = ?", true).Update("current", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Season{}).Where("id = ?", id).Update("current", true).Error
	})
}

func (r *seasonRepository) Update(season *model.Season) error {
	return r.db.Save(season).Error
}
