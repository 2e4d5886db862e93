package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/internal/app/service"
	apperrors "github.com/summitretail/preseason-backend/internal/errors"
	"github.com/summitretail/preseason-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	variantService service.VariantService
}

func NewProductController(productService service.ProductService, variantService service.VariantService) *ProductController {
	return &ProductController{
		productService: productService,
		variantService: variantService,
	}
}

func parseUintQuery(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// ListProducts returns catalog products with filters
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	brandID, ok := parseUintQuery(c, "brand_id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid brand ID")
		return
	}
	seasonID, ok := parseUintQuery(c, "season_id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid season ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := repository.ProductFilter{
		BrandID:    brandID,
		SeasonID:   seasonID,
		Gender:     c.Query("gender"),
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		ActiveOnly: c.DefaultQuery("active", "true") != "false",
		Limit:      limit,
		Offset:     offset,
	}

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"total":    total,
	})
}

// GetProduct returns a single product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProduct(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetSeasonPrices returns per-season pricing for a product
// GET /api/v1/products/:id/prices
func (ctrl *ProductController) GetSeasonPrices(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	prices, err := ctrl.productService.GetSeasonPrices(uint(id))
	if err != nil {
		log.Error("Failed to fetch season prices", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch season prices")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prices": prices,
		"count":  len(prices),
	})
}

// GetPriceHistory returns the append-only price change log for a product
// GET /api/v1/products/:id/price-history
func (ctrl *ProductController) GetPriceHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	history, err := ctrl.productService.GetPriceHistory(uint(id), limit)
	if err != nil {
		log.Error("Failed to fetch price history", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch price history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"count":   len(history),
	})
}

// GetCaseMapping returns the case-to-unit link for a case product, if any
// GET /api/v1/products/:id/case-mapping
func (ctrl *ProductController) GetCaseMapping(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	mapping, err := ctrl.productService.GetCaseMapping(uint(id))
	if err != nil {
		log.Error("Failed to fetch case mapping", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch case mapping")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"case_mapping": mapping,
	})
}

// ListFamilies groups a brand's active products into style families
// GET /api/v1/products/families?brand_id=N
func (ctrl *ProductController) ListFamilies(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	brandID, ok := parseUintQuery(c, "brand_id")
	if !ok || brandID == nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "A brand ID is required")
		return
	}

	families, err := ctrl.variantService.ListFamilies(*brandID)
	if err != nil {
		log.Error("Failed to list product families", err, map[string]interface{}{
			"brand_id": *brandID,
		})
		apperrors.InternalError(c, "Failed to list product families")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"families": families,
		"count":    len(families),
	})
}

// MatchVariant finds a same-family product in another color or size
// GET /api/v1/products/variants/match?source=N&color=Red&size=42
func (ctrl *ProductController) MatchVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sourceID, ok := parseUintQuery(c, "source")
	if !ok || sourceID == nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "A source product ID is required")
		return
	}

	variant, err := ctrl.variantService.FindMatchingVariant(*sourceID, c.Query("color"), c.Query("size"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Source product not found")
			return
		}
		if errors.Is(err, service.ErrNoMatchingVariant) {
			apperrors.NotFound(c, apperrors.ProductNoVariant, "No matching variant found")
			return
		}
		log.Error("Failed to match variant", err, map[string]interface{}{
			"source_id": *sourceID,
		})
		apperrors.InternalError(c, "Failed to match variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variant": variant,
	})
}
