package repository

import (
	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

type OrderFilter struct {
	BrandID    *uint
	LocationID *uint
	SeasonID   *uint
	Status     *model.OrderStatus
	Limit      int
	Offset     int
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByOrderNumber(orderNumber string) (*model.Order, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, int64, error)
	CountByOrderNumberPrefix(prefix string) (int64, error)
	Update(order *model.Order) error
	Delete(id uint) error
	AddItem(item *model.OrderItem) error
	UpdateItem(item *model.OrderItem) error
	DeleteItem(id uint) error
	FindItem(id uint) (*model.OrderItem, error)
	RecomputeTotals(orderID uint) error
	AllOrderIDs() ([]uint, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"order_number": order.OrderNumber,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Brand").
		Preload("Location").
		Preload("Season").
		Preload("OrderItems").
		Preload("OrderItems.Product").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByOrderNumber(orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.db.Where("order_number = ?", orderNumber).
		Preload("OrderItems").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{})

	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.SeasonID != nil {
		query = query.Where("season_id = ?", *filter.SeasonID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []model.Order
	err := query.
		Preload("Brand").
		Preload("Location").
		Preload("Season").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CountByOrderNumberPrefix counts orders whose number starts with the given
// prefix. Used to suffix a counter onto colliding order numbers.
func (r *orderRepository) CountByOrderNumberPrefix(prefix string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

func (r *orderRepository) Update(order *model.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) Delete(id uint) error {
	return r.db.Delete(&model.Order{}, id).Error
}

func (r *orderRepository) AddItem(item *model.OrderItem) error {
	return r.db.Create(item).Error
}

func (r *orderRepository) UpdateItem(item *model.OrderItem) error {
	return r.db.Save(item).Error
}

func (r *orderRepository) DeleteItem(id uint) error {
	return r.db.Delete(&model.OrderItem{}, id).Error
}

func (r *orderRepository) FindItem(id uint) (*model.OrderItem, error) {
	var item model.OrderItem
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RecomputeTotals rebuilds an order's subtotal and quantity from its items
func (r *orderRepository) RecomputeTotals(orderID uint) error {
	err := r.db.Exec(`
		UPDATE orders SET
			subtotal = COALESCE((
				SELECT SUM(line_total) FROM order_items
				WHERE order_id = ? AND deleted_at IS NULL
			), 0),
			total_quantity = COALESCE((
				SELECT SUM(quantity) FROM order_items
				WHERE order_id = ? AND deleted_at IS NULL
			), 0)
		WHERE id = ?`, orderID, orderID, orderID).Error
	if err != nil {
		logger.Error("Failed to recompute order totals", err, map[string]interface{}{
			"order_id": orderID,
		})
	}
	return err
}

func (r *orderRepository) AllOrderIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.Order{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
