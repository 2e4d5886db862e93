package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"     // being assembled by a buyer
	OrderStatusSubmitted OrderStatus = "submitted" // sent to the vendor
	OrderStatusReceived  OrderStatus = "received"  // goods arrived
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a preseason purchase order for one brand shipping to one location.
type Order struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	OrderNumber   string          `gorm:"type:varchar(30);not null;uniqueIndex" json:"order_number"` // e.g. JAN26-PRA-SLC
	BrandID       uint            `gorm:"not null;index" json:"brand_id"`
	LocationID    uint            `gorm:"not null;index" json:"location_id"`
	SeasonID      uint            `gorm:"not null;index" json:"season_id"`
	ShipMonth     string          `gorm:"type:varchar(10)" json:"ship_month"` // e.g. "2026-01"
	Status        OrderStatus     `gorm:"type:varchar(20);default:'draft'" json:"status"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	TotalQuantity int             `gorm:"default:0" json:"total_quantity"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Brand      Brand       `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Location   Location    `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Season     Season      `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_cost"` // wholesale at time of ordering
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2)" json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
