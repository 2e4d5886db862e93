package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/service"
	apperrors "github.com/summitretail/preseason-backend/internal/errors"
	"github.com/summitretail/preseason-backend/internal/middleware"
)

// ReferenceController serves the lookup data: brands, seasons, locations
type ReferenceController struct {
	referenceService service.ReferenceService
}

func NewReferenceController(referenceService service.ReferenceService) *ReferenceController {
	return &ReferenceController{
		referenceService: referenceService,
	}
}

type CreateBrandRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required,len=3"`
}

type UpdateBrandRequest struct {
	Name   string `json:"name" binding:"required"`
	Code   string `json:"code" binding:"required,len=3"`
	Active *bool  `json:"active"`
}

type CreateSeasonRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// ListBrands returns all brands
// GET /api/v1/brands
func (ctrl *ReferenceController) ListBrands(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	activeOnly := c.DefaultQuery("active", "true") != "false"

	brands, err := ctrl.referenceService.ListBrands(activeOnly)
	if err != nil {
		log.Error("Failed to fetch brands", err, nil)
		apperrors.InternalError(c, "Failed to fetch brands")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
		"count":  len(brands),
	})
}

// CreateBrand registers a new vendor brand (admin only)
// POST /api/v1/brands
func (ctrl *ReferenceController) CreateBrand(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Brand name and a 3-letter code are required")
		return
	}

	brand := &model.Brand{
		Name:   req.Name,
		Code:   req.Code,
		Active: true,
	}
	if err := ctrl.referenceService.CreateBrand(brand); err != nil {
		info := apperrors.ParseError(err, "brand")
		if info.Code == apperrors.ResourceAlreadyExists {
			apperrors.Conflict(c, info.Code, info.Message)
			return
		}
		log.Error("Failed to create brand", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "Failed to create brand")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"brand": brand,
	})
}

// UpdateBrand renames or deactivates a brand (admin only)
// PUT /api/v1/brands/:id
func (ctrl *ReferenceController) UpdateBrand(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid brand ID")
		return
	}

	var req UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	brand := &model.Brand{
		ID:   uint(id),
		Name: req.Name,
		Code: req.Code,
	}
	if req.Active != nil {
		brand.Active = *req.Active
	} else {
		brand.Active = true
	}

	if err := ctrl.referenceService.UpdateBrand(brand); err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			apperrors.NotFound(c, apperrors.CatalogBrandNotFound, "Brand not found")
			return
		}
		log.Error("Failed to update brand", err, map[string]interface{}{
			"brand_id": id,
		})
		apperrors.InternalError(c, "Failed to update brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand": brand,
	})
}

// ListSeasons returns all seasons
// GET /api/v1/seasons
func (ctrl *ReferenceController) ListSeasons(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	seasons, err := ctrl.referenceService.ListSeasons()
	if err != nil {
		log.Error("Failed to fetch seasons", err, nil)
		apperrors.InternalError(c, "Failed to fetch seasons")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"seasons": seasons,
		"count":   len(seasons),
	})
}

// CreateSeason registers a buying season (admin only)
// POST /api/v1/seasons
func (ctrl *ReferenceController) CreateSeason(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Season name and code are required")
		return
	}

	season := &model.Season{
		Name: req.Name,
		Code: req.Code,
	}
	if err := ctrl.referenceService.CreateSeason(season); err != nil {
		info := apperrors.ParseError(err, "season")
		if info.Code == apperrors.ResourceAlreadyExists {
			apperrors.Conflict(c, info.Code, info.Message)
			return
		}
		log.Error("Failed to create season", err, map[string]interface{}{
			"code": req.Code,
		})
		apperrors.InternalError(c, "Failed to create season")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"season": season,
	})
}

// GetCurrentSeason returns the season new imports default to
// GET /api/v1/seasons/current
func (ctrl *ReferenceController) GetCurrentSeason(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	season, err := ctrl.referenceService.GetCurrentSeason()
	if err != nil {
		if errors.Is(err, service.ErrSeasonNotFound) {
			apperrors.NotFound(c, apperrors.CatalogSeasonNotFound, "No current season is set")
			return
		}
		log.Error("Failed to fetch current season", err, nil)
		apperrors.InternalError(c, "Failed to fetch current season")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"season": season,
	})
}

// SetCurrentSeason marks a season as current (admin only)
// PUT /api/v1/seasons/:id/current
func (ctrl *ReferenceController) SetCurrentSeason(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid season ID")
		return
	}

	if err := ctrl.referenceService.SetCurrentSeason(uint(id)); err != nil {
		if errors.Is(err, service.ErrSeasonNotFound) {
			apperrors.NotFound(c, apperrors.CatalogSeasonNotFound, "Season not found")
			return
		}
		log.Error("Failed to set current season", err, map[string]interface{}{
			"season_id": id,
		})
		apperrors.InternalError(c, "Failed to set current season")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Current season updated",
	})
}

// ListLocations returns the gym locations orders ship to
// GET /api/v1/locations
func (ctrl *ReferenceController) ListLocations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	activeOnly := c.DefaultQuery("active", "true") != "false"

	locations, err := ctrl.referenceService.ListLocations(activeOnly)
	if err != nil {
		log.Error("Failed to fetch locations", err, nil)
		apperrors.InternalError(c, "Failed to fetch locations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}
