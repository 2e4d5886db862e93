package controller

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/internal/app/service"
	apperrors "github.com/summitretail/preseason-backend/internal/errors"
	"github.com/summitretail/preseason-backend/internal/middleware"
)

type OrderController struct {
	orderService       service.OrderService
	variantService     service.VariantService
	orderImportService service.OrderImportService
}

func NewOrderController(
	orderService service.OrderService,
	variantService service.VariantService,
	orderImportService service.OrderImportService,
) *OrderController {
	return &OrderController{
		orderService:       orderService,
		variantService:     variantService,
		orderImportService: orderImportService,
	}
}

type CreateOrderRequest struct {
	BrandID    uint   `json:"brand_id" binding:"required"`
	LocationID uint   `json:"location_id" binding:"required"`
	SeasonID   uint   `json:"season_id" binding:"required"`
	ShipMonth  string `json:"ship_month" binding:"required"`
	Notes      string `json:"notes"`
}

type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type CopyOrderRequest struct {
	TargetLocationID uint `json:"target_location_id" binding:"required"`
}

type ColorChangeRequest struct {
	FromColor string `json:"from_color" binding:"required"`
	ToColor   string `json:"to_color" binding:"required"`
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return 0, false
	}
	return uint(id), true
}

// respondOrderError maps the order service sentinels onto HTTP responses
func respondOrderError(c *gin.Context, err error, orderID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
	case errors.Is(err, service.ErrOrderNotDraft):
		apperrors.Conflict(c, apperrors.OrderNotDraft, "Only draft orders can be modified")
	case errors.Is(err, service.ErrOrderEmpty):
		apperrors.BadRequest(c, apperrors.OrderEmpty, "Order has no items")
	case errors.Is(err, service.ErrOrderItemNotFound):
		apperrors.NotFound(c, apperrors.OrderItemNotFound, "Order item not found")
	case errors.Is(err, service.ErrInvalidShipMonth):
		apperrors.BadRequest(c, apperrors.OrderInvalidShipMonth, "Ship month must look like 2026-01")
	case errors.Is(err, service.ErrProductUnavailable):
		apperrors.Conflict(c, apperrors.ProductNotFound, "Product is discontinued and cannot be ordered")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrBrandNotFound):
		apperrors.NotFound(c, apperrors.CatalogBrandNotFound, "Brand not found")
	default:
		log.Error("Order operation failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.InternalError(c, "Order operation failed")
	}
}

// CreateOrder opens a new draft order
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, err := ctrl.orderService.CreateOrder(service.CreateOrderInput{
		BrandID:    req.BrandID,
		LocationID: req.LocationID,
		SeasonID:   req.SeasonID,
		ShipMonth:  req.ShipMonth,
		Notes:      req.Notes,
	})
	if err != nil {
		respondOrderError(c, err, 0)
		return
	}

	log.Info("Order created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// ListOrders returns orders with filters
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	brandID, ok := parseUintQuery(c, "brand_id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid brand ID")
		return
	}
	locationID, ok := parseUintQuery(c, "location_id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid location ID")
		return
	}
	seasonID, ok := parseUintQuery(c, "season_id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid season ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := repository.OrderFilter{
		BrandID:    brandID,
		LocationID: locationID,
		SeasonID:   seasonID,
		Limit:      limit,
		Offset:     offset,
	}
	if raw := c.Query("status"); raw != "" {
		status := model.OrderStatus(raw)
		filter.Status = &status
	}

	orders, total, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		log.Error("Failed to fetch orders", err, nil)
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
		"total":  total,
	})
}

// GetOrder returns one order with its items
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(id)
	if err != nil {
		respondOrderError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// DeleteOrder removes a draft order
// DELETE /api/v1/orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrder(id); err != nil {
		respondOrderError(c, err, id)
		return
	}

	log.Info("Order deleted", map[string]interface{}{
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted successfully",
	})
}

// AddItem adds a product line to a draft order
// POST /api/v1/orders/:id/items
func (ctrl *OrderController) AddItem(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	item, err := ctrl.orderService.AddItem(id, req.ProductID, req.Quantity)
	if err != nil {
		respondOrderError(c, err, id)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"item": item,
	})
}

// UpdateItem changes the quantity on an order line
// PUT /api/v1/orders/:id/items/:item_id
func (ctrl *OrderController) UpdateItem(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.orderService.UpdateItemQuantity(id, uint(itemID), req.Quantity); err != nil {
		respondOrderError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item updated successfully",
	})
}

// RemoveItem deletes an order line
// DELETE /api/v1/orders/:id/items/:item_id
func (ctrl *OrderController) RemoveItem(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid item ID")
		return
	}

	if err := ctrl.orderService.RemoveItem(id, uint(itemID)); err != nil {
		respondOrderError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed successfully",
	})
}

// SubmitOrder finalizes a draft order
// POST /api/v1/orders/:id/submit
func (ctrl *OrderController) SubmitOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.orderService.SubmitOrder(id); err != nil {
		respondOrderError(c, err, id)
		return
	}

	log.Info("Order submitted", map[string]interface{}{
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order submitted successfully",
	})
}

// CopyOrder duplicates an order at another location, substituting
// discontinued products with in-family variants where possible
// POST /api/v1/orders/:id/copy
func (ctrl *OrderController) CopyOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req CopyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, results, err := ctrl.variantService.CopyOrder(id, req.TargetLocationID)
	if err != nil {
		respondOrderError(c, err, id)
		return
	}

	log.Info("Order copied", map[string]interface{}{
		"source_order_id": id,
		"new_order_id":    order.ID,
		"new_order":       order.OrderNumber,
		"lines":           len(results),
	})

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
		"lines": results,
	})
}

// BulkColorChange swaps every line in one color for its variant in another
// POST /api/v1/orders/:id/color-change
func (ctrl *OrderController) BulkColorChange(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req ColorChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	results, err := ctrl.variantService.BulkColorChange(id, req.FromColor, req.ToColor)
	if err != nil {
		respondOrderError(c, err, id)
		return
	}

	log.Info("Bulk color change applied", map[string]interface{}{
		"order_id":   id,
		"from_color": req.FromColor,
		"to_color":   req.ToColor,
		"lines":      len(results),
	})

	c.JSON(http.StatusOK, gin.H{
		"lines": results,
	})
}

// ImportOrders ingests a consolidated preseason order sheet
// POST /api/v1/orders/import
func (ctrl *OrderController) ImportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	seasonID, err := strconv.ParseUint(c.PostForm("season_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid season ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A spreadsheet file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		apperrors.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		apperrors.InternalError(c, "Failed to read uploaded file")
		return
	}

	summary, err := ctrl.orderImportService.ImportOrders(c.Request.Context(), bytes.NewReader(data), c.PostForm("sheet"), uint(seasonID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSeasonNotFound):
			apperrors.NotFound(c, apperrors.CatalogSeasonNotFound, "Season not found")
		case errors.Is(err, service.ErrSheetNotFound):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Sheet not found in workbook")
		case errors.Is(err, service.ErrNoUsableRows):
			apperrors.BadRequest(c, apperrors.CatalogNoUsableRows, "No usable rows found in sheet")
		default:
			log.Error("Order import failed", err, map[string]interface{}{
				"file_name": fileHeader.Filename,
			})
			apperrors.InternalError(c, "Order import failed")
		}
		return
	}

	log.Info("Order import completed", map[string]interface{}{
		"season_id":      seasonID,
		"orders_created": summary.OrdersCreated,
		"items_added":    summary.ItemsAdded,
		"skipped":        len(summary.Skipped),
	})

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
	})
}
