package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/service"
	apperrors "github.com/summitretail/preseason-backend/internal/errors"
	"github.com/summitretail/preseason-backend/internal/middleware"
	"github.com/summitretail/preseason-backend/internal/storage"
)

type CatalogController struct {
	importService service.CatalogImportService
	storage       *storage.S3Storage
	maxFileBytes  int64
}

// NewCatalogController wires the import endpoints. storage may be nil when
// file archiving is disabled (local development).
func NewCatalogController(importService service.CatalogImportService, storage *storage.S3Storage, maxFileBytes int64) *CatalogController {
	return &CatalogController{
		importService: importService,
		storage:       storage,
		maxFileBytes:  maxFileBytes,
	}
}

// readUploadedFile pulls the workbook out of the multipart form. The file is
// buffered because it is read twice: once for archiving, once for parsing.
func (ctrl *CatalogController) readUploadedFile(c *gin.Context) (string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A spreadsheet file is required")
		return "", nil, false
	}

	if ctrl.storage != nil {
		if err := ctrl.storage.ValidateFileExtension(fileHeader.Filename); err != nil {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
			return "", nil, false
		}
		if err := ctrl.storage.ValidateFileSize(fileHeader.Size, ctrl.maxFileBytes); err != nil {
			apperrors.RespondWithError(c, http.StatusRequestEntityTooLarge, apperrors.UploadFileTooLarge, err.Error())
			return "", nil, false
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		apperrors.InternalError(c, "Failed to read uploaded file")
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		apperrors.InternalError(c, "Failed to read uploaded file")
		return "", nil, false
	}
	return fileHeader.Filename, data, true
}

// PreviewHeader detects the header row of an uploaded workbook
// POST /api/v1/catalog/header-preview
func (ctrl *CatalogController) PreviewHeader(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filename, data, ok := ctrl.readUploadedFile(c)
	if !ok {
		return
	}

	preview, err := ctrl.importService.Preview(bytes.NewReader(data), c.PostForm("sheet"))
	if err != nil {
		if errors.Is(err, service.ErrSheetNotFound) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Sheet not found in workbook")
			return
		}
		if errors.Is(err, service.ErrNoUsableRows) {
			apperrors.BadRequest(c, apperrors.CatalogNoUsableRows, "No usable rows found in sheet")
			return
		}
		log.Error("Failed to preview workbook", err, map[string]interface{}{
			"file_name": filename,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Could not read the workbook")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preview": preview,
	})
}

// ImportCatalog ingests a vendor catalog workbook
// POST /api/v1/catalog/import
func (ctrl *CatalogController) ImportCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	brandID, err := strconv.ParseUint(c.PostForm("brand_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid brand ID")
		return
	}

	var seasonID *uint
	if raw := c.PostForm("season_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid season ID")
			return
		}
		sid := uint(id)
		seasonID = &sid
	}

	var mapping service.ColumnMapping
	if raw := c.PostForm("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Column mapping is not valid JSON")
			return
		}
	}

	headerRow := 0
	if raw := c.PostForm("header_row"); raw != "" {
		headerRow, err = strconv.Atoi(raw)
		if err != nil || headerRow < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid header row")
			return
		}
	}

	filename, data, ok := ctrl.readUploadedFile(c)
	if !ok {
		return
	}

	var fileURL string
	if ctrl.storage != nil {
		_, url, err := ctrl.storage.ArchiveFile(c.Request.Context(), "catalogs", filename, bytes.NewReader(data))
		if err != nil {
			// The archive is an audit convenience; the import still runs
			log.Warn("Failed to archive catalog file", map[string]interface{}{
				"file_name": filename,
				"error":     err.Error(),
			})
		} else {
			fileURL = url
		}
	}

	summary, err := ctrl.importService.Import(c.Request.Context(), bytes.NewReader(data), service.ImportRequest{
		BrandID:   uint(brandID),
		SeasonID:  seasonID,
		SheetName: c.PostForm("sheet"),
		HeaderRow: headerRow,
		Mapping:   mapping,
		FileName:  filename,
		FileURL:   fileURL,
	})
	if err != nil {
		ctrl.respondImportError(c, err, filename)
		return
	}

	log.Info("Catalog import completed", map[string]interface{}{
		"brand_id":    brandID,
		"file_name":   filename,
		"added":       summary.Added,
		"updated":     summary.Updated,
		"deactivated": summary.Deactivated,
		"errors":      len(summary.Errors),
	})

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
	})
}

func (ctrl *CatalogController) respondImportError(c *gin.Context, err error, filename string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrBrandNotFound):
		apperrors.NotFound(c, apperrors.CatalogBrandNotFound, "Brand not found")
	case errors.Is(err, service.ErrSeasonNotFound):
		apperrors.NotFound(c, apperrors.CatalogSeasonNotFound, "Season not found")
	case errors.Is(err, service.ErrImportInProgress):
		apperrors.Conflict(c, apperrors.CatalogImportInProgress, "An import for this brand is already running")
	case errors.Is(err, service.ErrSheetNotFound):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Sheet not found in workbook")
	case errors.Is(err, service.ErrNoUsableRows):
		apperrors.BadRequest(c, apperrors.CatalogNoUsableRows, "No usable rows found in sheet")
	case errors.Is(err, service.ErrTooManyErrors):
		apperrors.BadRequest(c, apperrors.CatalogTooManyErrors, "Too many invalid rows; check the header row and column mapping")
	default:
		log.Error("Catalog import failed", err, map[string]interface{}{
			"file_name": filename,
		})
		apperrors.InternalError(c, "Catalog import failed")
	}
}

// ListUploads returns recent import runs
// GET /api/v1/catalog/uploads
func (ctrl *CatalogController) ListUploads(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var brandID *uint
	if raw := c.Query("brand_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid brand ID")
			return
		}
		bid := uint(id)
		brandID = &bid
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	uploads, err := ctrl.importService.ListUploads(brandID, limit)
	if err != nil {
		log.Error("Failed to list uploads", err, nil)
		apperrors.InternalError(c, "Failed to list uploads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploads": uploads,
		"count":   len(uploads),
	})
}

// GetUpload returns one import run with its row errors
// GET /api/v1/catalog/uploads/:id
func (ctrl *CatalogController) GetUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid upload ID")
		return
	}

	upload, err := ctrl.importService.GetUpload(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.CatalogUploadNotFound, "Upload not found")
			return
		}
		log.Error("Failed to fetch upload", err, map[string]interface{}{
			"upload_id": id,
		})
		info := apperrors.ParseError(err, "upload")
		apperrors.InternalError(c, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload": upload,
	})
}

// DeleteUpload removes an import audit record
// DELETE /api/v1/catalog/uploads/:id
func (ctrl *CatalogController) DeleteUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid upload ID")
		return
	}

	if err := ctrl.importService.DeleteUpload(uint(id)); err != nil {
		if errors.Is(err, service.ErrUploadNotFound) {
			apperrors.NotFound(c, apperrors.CatalogUploadNotFound, "Upload not found")
			return
		}
		log.Error("Failed to delete upload", err, map[string]interface{}{
			"upload_id": id,
		})
		apperrors.InternalError(c, "Failed to delete upload")
		return
	}

	log.Info("Upload deleted", map[string]interface{}{
		"upload_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Upload deleted successfully",
	})
}
