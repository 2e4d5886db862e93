package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	BrandID     uint            `gorm:"not null;index" json:"brand_id"`
	SeasonID    *uint           `gorm:"index" json:"season_id,omitempty"` // season the product last appeared in
	UPC         string          `gorm:"type:varchar(14);not null;uniqueIndex" json:"upc"`
	SKU         string          `gorm:"type:varchar(100);index" json:"sku"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	BaseName    string          `gorm:"type:varchar(255)" json:"base_name"` // unit name with case/pack wording stripped
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Subcategory string          `gorm:"type:varchar(100)" json:"subcategory"`
	Gender      string          `gorm:"type:varchar(20)" json:"gender"`
	Size        string          `gorm:"type:varchar(50)" json:"size"`
	Color       string          `gorm:"type:varchar(100)" json:"color"`
	Inseam      string          `gorm:"type:varchar(20)" json:"inseam"`
	CaseQty     *int            `json:"case_qty,omitempty"` // units per case when the row sells a case
	Wholesale   decimal.Decimal `gorm:"type:decimal(12,2)" json:"wholesale"`
	MSRP        decimal.Decimal `gorm:"type:decimal(12,2)" json:"msrp"`
	// No gorm default tag: a default:true column makes gorm drop the zero
	// value on insert, so a product could never be created inactive.
	Active      bool            `gorm:"index" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Brand        Brand         `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Season       *Season       `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
	SeasonPrices []SeasonPrice `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems   []OrderItem   `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
