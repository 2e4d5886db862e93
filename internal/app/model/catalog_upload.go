package model

import (
	"time"

	"gorm.io/gorm"
)

type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusRunning   UploadStatus = "running"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusFailed    UploadStatus = "failed"
)

// CatalogUpload records a single catalog import run and its outcome counts.
type CatalogUpload struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	BrandID     uint           `gorm:"not null;index" json:"brand_id"`
	SeasonID    *uint          `gorm:"index" json:"season_id,omitempty"`
	FileName    string         `gorm:"type:varchar(255);not null" json:"file_name"`
	FileURL     string         `gorm:"type:varchar(500)" json:"file_url"` // archived copy in object storage
	Status      UploadStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	RowsTotal   int            `gorm:"default:0" json:"rows_total"`
	Added       int            `gorm:"default:0" json:"added"`
	Updated     int            `gorm:"default:0" json:"updated"`
	Deactivated int            `gorm:"default:0" json:"deactivated"`
	ErrorCount  int            `gorm:"default:0" json:"error_count"`
	ErrorDetail string         `gorm:"type:text" json:"error_detail,omitempty"` // JSON-encoded row errors
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	FinishedAt  *time.Time     `json:"finished_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Brand  Brand   `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Season *Season `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
}

func (CatalogUpload) TableName() string {
	return "catalog_uploads"
}
