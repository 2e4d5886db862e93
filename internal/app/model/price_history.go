package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceChangeReason string

const (
	PriceReasonImport     PriceChangeReason = "import"      // changed by a catalog import
	PriceReasonManual     PriceChangeReason = "manual"      // changed by an operator
	PriceReasonSeasonRoll PriceChangeReason = "season_roll" // first price recorded for a new season
)

// PriceHistory is an append-only audit trail of price changes. Rows are
// never updated or deleted.
type PriceHistory struct {
	ID           uint              `gorm:"primarykey" json:"id"`
	ProductID    uint              `gorm:"not null;index" json:"product_id"`
	SeasonID     *uint             `gorm:"index" json:"season_id,omitempty"`
	UploadID     *uint             `gorm:"index" json:"upload_id,omitempty"` // import that caused the change, when applicable
	OldWholesale decimal.Decimal   `gorm:"type:decimal(12,2)" json:"old_wholesale"`
	NewWholesale decimal.Decimal   `gorm:"type:decimal(12,2)" json:"new_wholesale"`
	OldMSRP      decimal.Decimal   `gorm:"type:decimal(12,2)" json:"old_msrp"`
	NewMSRP      decimal.Decimal   `gorm:"type:decimal(12,2)" json:"new_msrp"`
	Reason       PriceChangeReason `gorm:"type:varchar(20);not null" json:"reason"`
	CreatedAt    time.Time         `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}
