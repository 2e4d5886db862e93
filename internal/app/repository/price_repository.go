package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

type PriceRepository interface {
	UpsertSeasonPrices(prices []model.SeasonPrice, batchSize int) error
	FindSeasonPrices(productID uint) ([]model.SeasonPrice, error)
	FindSeasonPrice(productID, seasonID uint) (*model.SeasonPrice, error)
	AppendHistory(entries []model.PriceHistory) error
	FindHistory(productID uint, limit int) ([]model.PriceHistory, error)
}

type priceRepository struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

// UpsertSeasonPrices records prices keyed on (product, season). A re-import
// within the same season replaces that season's record; records from other
// seasons are untouched.
func (r *priceRepository) UpsertSeasonPrices(prices []model.SeasonPrice, batchSize int) error {
	if len(prices) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "season_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"wholesale", "msrp", "updated_at"}),
	}).CreateInBatches(prices, batchSize).Error
	if err != nil {
		logger.Error("Failed to upsert season prices", err, map[string]interface{}{
			"count": len(prices),
		})
		return err
	}
	return nil
}

func (r *priceRepository) FindSeasonPrices(productID uint) ([]model.SeasonPrice, error) {
	var prices []model.SeasonPrice
	err := r.db.Where("product_id = ?", productID).
		Preload("Season").
		Order("season_id DESC").
		Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *priceRepository) FindSeasonPrice(productID, seasonID uint) (*model.SeasonPrice, error) {
	var price model.SeasonPrice
	err := r.db.Where("product_id = ? AND season_id = ?", productID, seasonID).
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// AppendHistory adds audit rows. History is append-only; there is no update
// or delete path.
func (r *priceRepository) AppendHistory(entries []model.PriceHistory) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.Create(&entries).Error; err != nil {
		logger.Error("Failed to append price history", err, map[string]interface{}{
			"count": len(entries),
		})
		return err
	}
	return nil
}

func (r *priceRepository) FindHistory(productID uint, limit int) ([]model.PriceHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []model.PriceHistory
	err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
