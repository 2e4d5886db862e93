package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/config"
	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/internal/app/service"
	"github.com/summitretail/preseason-backend/internal/db"
	"github.com/summitretail/preseason-backend/pkg/spreadsheet"
)

func setupCatalogControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, model.Brand) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	brand := model.Brand{Name: "Prana", Code: "PRA"}
	require.NoError(t, testDB.Create(&brand).Error)

	importService := service.NewCatalogImportService(
		testDB,
		repository.NewBrandRepository(testDB),
		repository.NewSeasonRepository(testDB),
		repository.NewCatalogUploadRepository(testDB),
		config.ImportConfig{BatchSize: 100, MaxErrors: 50},
		nil,
	)
	catalogController := NewCatalogController(importService, nil, 0)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/catalog/header-preview", catalogController.PreviewHeader)
	router.POST("/api/v1/catalog/import", catalogController.ImportCatalog)
	router.GET("/api/v1/catalog/uploads", catalogController.ListUploads)
	router.DELETE("/api/v1/catalog/uploads/:id", catalogController.DeleteUpload)

	return router, testDB, brand
}

func catalogWorkbook(t *testing.T) []byte {
	wb := spreadsheet.New()
	require.NoError(t, wb.AddSheet("Catalog"))
	rows := [][]interface{}{
		{"UPC", "SKU", "Name", "Color", "Size", "Gender", "Wholesale", "MSRP"},
		{"100000000001", "PZ-001", "Stretch Zion Pant", "Charcoal", "32", "Men's", "42.50", "85.00"},
		{"100000000002", "PZ-002", "Stretch Zion Pant", "Charcoal", "34", "Men's", "42.50", "85.00"},
	}
	for i, row := range rows {
		require.NoError(t, wb.SetRow("Catalog", i+1, row))
	}

	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, wb.Close())
	return buf.Bytes()
}

func multipartImportRequest(t *testing.T, url string, fields map[string]string, file []byte) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("file", "catalog.xlsx")
	require.NoError(t, err)
	_, err = part.Write(file)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func standardMappingJSON(t *testing.T) string {
	mapping := service.ColumnMapping{Columns: map[string]string{
		service.FieldUPC:       "UPC",
		service.FieldSKU:       "SKU",
		service.FieldName:      "Name",
		service.FieldColor:     "Color",
		service.FieldSize:      "Size",
		service.FieldGender:    "Gender",
		service.FieldWholesale: "Wholesale",
		service.FieldMSRP:      "MSRP",
	}}
	data, err := json.Marshal(mapping)
	require.NoError(t, err)
	return string(data)
}

func TestCatalogController_PreviewHeader(t *testing.T) {
	router, _, _ := setupCatalogControllerTest(t)

	req := multipartImportRequest(t, "/api/v1/catalog/header-preview", map[string]string{
		"sheet": "Catalog",
	}, catalogWorkbook(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Preview service.SheetPreview `json:"preview"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Preview.DetectedHeaderRow)
	assert.Contains(t, resp.Preview.Headers, "UPC")
}

func TestCatalogController_ImportCatalog(t *testing.T) {
	router, testDB, brand := setupCatalogControllerTest(t)

	req := multipartImportRequest(t, "/api/v1/catalog/import", map[string]string{
		"brand_id": fmt.Sprintf("%d", brand.ID),
		"sheet":    "Catalog",
		"mapping":  standardMappingJSON(t),
	}, catalogWorkbook(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary service.ImportSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Summary.Added)
	assert.Equal(t, 0, resp.Summary.Updated)

	var count int64
	require.NoError(t, testDB.Model(&model.Product{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCatalogController_ImportCatalog_UnknownBrand(t *testing.T) {
	router, _, _ := setupCatalogControllerTest(t)

	req := multipartImportRequest(t, "/api/v1/catalog/import", map[string]string{
		"brand_id": "9999",
		"sheet":    "Catalog",
		"mapping":  standardMappingJSON(t),
	}, catalogWorkbook(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CATALOG_BRAND_NOT_FOUND")
}

func TestCatalogController_ListAndDeleteUploads(t *testing.T) {
	router, _, brand := setupCatalogControllerTest(t)

	req := multipartImportRequest(t, "/api/v1/catalog/import", map[string]string{
		"brand_id": fmt.Sprintf("%d", brand.ID),
		"sheet":    "Catalog",
		"mapping":  standardMappingJSON(t),
	}, catalogWorkbook(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/catalog/uploads", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Uploads []model.CatalogUpload `json:"uploads"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Uploads, 1)

	req = httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/catalog/uploads/%d", resp.Uploads[0].ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("DELETE", "/api/v1/catalog/uploads/9999", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
