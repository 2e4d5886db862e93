package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeasonPrice records what a product cost within a specific season. Prices
// from a later season never overwrite an earlier season's record.
type SeasonPrice struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_season_prices_product_season" json:"product_id"`
	SeasonID  uint            `gorm:"not null;uniqueIndex:idx_season_prices_product_season" json:"season_id"`
	Wholesale decimal.Decimal `gorm:"type:decimal(12,2)" json:"wholesale"`
	MSRP      decimal.Decimal `gorm:"type:decimal(12,2)" json:"msrp"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
	Season  Season  `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
}

func (SeasonPrice) TableName() string {
	return "season_prices"
}
