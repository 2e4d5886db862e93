package model

import (
	"time"

	"gorm.io/gorm"
)

type Season struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"` // e.g. "Spring 2026"
	Code      string         `gorm:"type:varchar(10);not null;uniqueIndex" json:"code"` // e.g. "S26"
	StartDate *time.Time     `json:"start_date,omitempty"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
	Current   bool           `gorm:"default:false" json:"current"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	SeasonPrices []SeasonPrice `gorm:"foreignKey:SeasonID" json:"-"`
}

func (Season) TableName() string {
	return "seasons"
}
