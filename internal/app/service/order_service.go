package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotDraft      = errors.New("only draft orders can be modified")
	ErrOrderEmpty         = errors.New("order has no items")
	ErrOrderItemNotFound  = errors.New("order item not found")
	ErrInvalidShipMonth   = errors.New("invalid ship month")
	ErrProductUnavailable = errors.New("product is not available for ordering")
)

type CreateOrderInput struct {
	BrandID    uint
	LocationID uint
	SeasonID   uint
	ShipMonth  string // "2026-01"
	Notes      string
}

type OrderService interface {
	CreateOrder(input CreateOrderInput) (*model.Order, error)
	GetOrder(id uint) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	AddItem(orderID, productID uint, quantity int) (*model.OrderItem, error)
	UpdateItemQuantity(orderID, itemID uint, quantity int) error
	RemoveItem(orderID, itemID uint) error
	SubmitOrder(id uint) error
	DeleteOrder(id uint) error
	RecomputeAllTotals() (int, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	brandRepo    repository.BrandRepository
	locationRepo repository.LocationRepository
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	brandRepo repository.BrandRepository,
	locationRepo repository.LocationRepository,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		brandRepo:    brandRepo,
		locationRepo: locationRepo,
	}
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// orderNumberPrefix builds the human-readable order number base, e.g.
// "JAN26-PRA-SLC" for a January 2026 Prana order shipping to Salt Lake.
func orderNumberPrefix(shipMonth, brandCode, locationCode string) (string, error) {
	t, err := time.Parse("2006-01", shipMonth)
	if err != nil {
		return "", ErrInvalidShipMonth
	}
	monthAbbr := strings.ToUpper(t.Format("Jan"))
	year := t.Format("06")
	return fmt.Sprintf("%s%s-%s-%s", monthAbbr, year, brandCode, locationCode), nil
}

// uniqueOrderNumber suffixes a counter when the base number is already taken
func uniqueOrderNumber(orderRepo repository.OrderRepository, prefix string) (string, error) {
	count, err := orderRepo.CountByOrderNumberPrefix(prefix)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return prefix, nil
	}
	return fmt.Sprintf("%s-%d", prefix, count+1), nil
}

func (s *orderService) CreateOrder(input CreateOrderInput) (*model.Order, error) {
	brand, err := s.brandRepo.FindByID(input.BrandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}
	location, err := s.locationRepo.FindByID(input.LocationID)
	if err != nil {
		return nil, err
	}

	prefix, err := orderNumberPrefix(input.ShipMonth, brand.Code, location.Code)
	if err != nil {
		return nil, err
	}
	number, err := uniqueOrderNumber(s.orderRepo, prefix)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderNumber: number,
		BrandID:     input.BrandID,
		LocationID:  input.LocationID,
		SeasonID:    input.SeasonID,
		ShipMonth:   input.ShipMonth,
		Status:      model.OrderStatusDraft,
		Notes:       input.Notes,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_number": order.OrderNumber,
		"brand":        brand.Name,
		"location":     location.Code,
	})
	return order, nil
}

func (s *orderService) GetOrder(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	return s.orderRepo.FindWithFilter(filter)
}

func (s *orderService) AddItem(orderID, productID uint, quantity int) (*model.OrderItem, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusDraft {
		return nil, ErrOrderNotDraft
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	// Discontinued products stay queryable for history but cannot be added
	if !product.Active {
		return nil, ErrProductUnavailable
	}

	item := &model.OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		UnitCost:  product.Wholesale,
		LineTotal: product.Wholesale.Mul(decimalFromInt(quantity)),
	}
	if err := s.orderRepo.AddItem(item); err != nil {
		return nil, err
	}
	if err := s.orderRepo.RecomputeTotals(orderID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *orderService) UpdateItemQuantity(orderID, itemID uint, quantity int) error {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusDraft {
		return ErrOrderNotDraft
	}

	item, err := s.orderRepo.FindItem(itemID)
	if err != nil || item.OrderID != orderID {
		return ErrOrderItemNotFound
	}

	item.Quantity = quantity
	item.LineTotal = item.UnitCost.Mul(decimalFromInt(quantity))
	if err := s.orderRepo.UpdateItem(item); err != nil {
		return err
	}
	return s.orderRepo.RecomputeTotals(orderID)
}

func (s *orderService) RemoveItem(orderID, itemID uint) error {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusDraft {
		return ErrOrderNotDraft
	}

	item, err := s.orderRepo.FindItem(itemID)
	if err != nil || item.OrderID != orderID {
		return ErrOrderItemNotFound
	}

	if err := s.orderRepo.DeleteItem(itemID); err != nil {
		return err
	}
	return s.orderRepo.RecomputeTotals(orderID)
}

func (s *orderService) SubmitOrder(id uint) error {
	order, err := s.GetOrder(id)
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusDraft {
		return ErrOrderNotDraft
	}
	if len(order.OrderItems) == 0 {
		return ErrOrderEmpty
	}

	order.Status = model.OrderStatusSubmitted
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}

	logger.Info("Order submitted", map[string]interface{}{
		"order_number": order.OrderNumber,
		"subtotal":     order.Subtotal.String(),
		"quantity":     order.TotalQuantity,
	})
	return nil
}

func (s *orderService) DeleteOrder(id uint) error {
	order, err := s.GetOrder(id)
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusDraft {
		return ErrOrderNotDraft
	}
	return s.orderRepo.Delete(id)
}

// RecomputeAllTotals rebuilds every order's totals from its line items.
// Run nightly; catches drift from manual database edits.
func (s *orderService) RecomputeAllTotals() (int, error) {
	ids, err := s.orderRepo.AllOrderIDs()
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := s.orderRepo.RecomputeTotals(id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}
