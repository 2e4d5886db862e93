package model

import (
	"time"
)

// CaseMapping links a case-level product row to the unit product it contains.
// UnitProductID is nil when the unit has not been seen in any catalog yet.
type CaseMapping struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CaseProductID uint      `gorm:"not null;uniqueIndex" json:"case_product_id"`
	UnitProductID *uint     `gorm:"index" json:"unit_product_id,omitempty"`
	UnitsPerCase  int       `gorm:"not null" json:"units_per_case"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	CaseProduct Product  `gorm:"foreignKey:CaseProductID" json:"-"`
	UnitProduct *Product `gorm:"foreignKey:UnitProductID" json:"unit_product,omitempty"`
}

func (CaseMapping) TableName() string {
	return "case_mappings"
}
