package model

import (
	"time"

	"gorm.io/gorm"
)

type Location struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Code      string         `gorm:"type:varchar(10);not null;uniqueIndex" json:"code"` // short code used in order numbers (e.g. SLC, OGD)
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Orders []Order `gorm:"foreignKey:LocationID" json:"-"`
}

func (Location) TableName() string {
	return "locations"
}
