package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/config"
	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/pkg/logger"
	redispkg "github.com/summitretail/preseason-backend/pkg/redis"
	"github.com/summitretail/preseason-backend/pkg/sheet"
	"github.com/summitretail/preseason-backend/pkg/spreadsheet"
)

var (
	ErrBrandNotFound    = errors.New("brand not found")
	ErrSeasonNotFound   = errors.New("season not found")
	ErrImportInProgress = errors.New("an import for this brand is already running")
	ErrNoUsableRows     = errors.New("no usable rows found in sheet")
	ErrTooManyErrors    = errors.New("too many invalid rows; check the header row and column mapping")
	ErrSheetNotFound    = errors.New("sheet not found in workbook")
	ErrUploadNotFound   = errors.New("upload not found")
)

// RowError reports validation failures for a single spreadsheet row
type RowError struct {
	RowNumber int      `json:"row_number"`
	Messages  []string `json:"messages"`
}

// ImportSummary is the outcome of one catalog import run
type ImportSummary struct {
	UploadID    uint       `json:"upload_id"`
	RowsTotal   int        `json:"rows_total"`
	Added       int        `json:"added"`
	Updated     int        `json:"updated"`
	Deactivated int        `json:"deactivated"`
	Errors      []RowError `json:"errors,omitempty"`
}

// ImportRequest describes one catalog import run
type ImportRequest struct {
	BrandID   uint
	SeasonID  *uint
	SheetName string        // empty means first sheet
	HeaderRow int           // 1-indexed; 0 means auto-detect
	Mapping   ColumnMapping
	FileName  string
	FileURL   string // archived copy, set by the caller after upload
}

// SheetPreview helps an operator confirm the header row and column mapping
// before committing an import.
type SheetPreview struct {
	SheetNames        []string   `json:"sheet_names"`
	Sheet             string     `json:"sheet"`
	DetectedHeaderRow int        `json:"detected_header_row"`
	Headers           []string   `json:"headers"`
	SampleRows        [][]string `json:"sample_rows"`
	GenderFallback    string     `json:"gender_fallback,omitempty"`
}

// ImportProgressNotifier receives progress events during a run. Implemented
// by the websocket hub; a nil notifier disables progress reporting.
type ImportProgressNotifier interface {
	NotifyProgress(brandID uint, stage string, processed, total int)
}

type CatalogImportService interface {
	Preview(r io.Reader, sheetName string) (*SheetPreview, error)
	Import(ctx context.Context, r io.Reader, req ImportRequest) (*ImportSummary, error)
	GetUpload(id uint) (*model.CatalogUpload, error)
	ListUploads(brandID *uint, limit int) ([]model.CatalogUpload, error)
	DeleteUpload(id uint) error
}

type catalogImportService struct {
	db         *gorm.DB
	brandRepo  repository.BrandRepository
	seasonRepo repository.SeasonRepository
	uploadRepo repository.CatalogUploadRepository
	cfg        config.ImportConfig
	notifier   ImportProgressNotifier
	locks      brandLocks
	useRedis   bool
}

func NewCatalogImportService(
	db *gorm.DB,
	brandRepo repository.BrandRepository,
	seasonRepo repository.SeasonRepository,
	uploadRepo repository.CatalogUploadRepository,
	cfg config.ImportConfig,
	notifier ImportProgressNotifier,
) CatalogImportService {
	return &catalogImportService{
		db:         db,
		brandRepo:  brandRepo,
		seasonRepo: seasonRepo,
		uploadRepo: uploadRepo,
		cfg:        cfg,
		notifier:   notifier,
		locks:      brandLocks{held: make(map[uint]bool)},
		useRedis:   redispkg.GetClient() != nil,
	}
}

// brandLocks serializes imports per brand within this process. When Redis is
// configured it additionally guards against imports started on another node.
type brandLocks struct {
	mu   sync.Mutex
	held map[uint]bool
}

func (l *brandLocks) tryAcquire(brandID uint) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[brandID] {
		return false
	}
	l.held[brandID] = true
	return true
}

func (l *brandLocks) release(brandID uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, brandID)
}

func (s *catalogImportService) acquireLock(ctx context.Context, brandID uint) error {
	if !s.locks.tryAcquire(brandID) {
		return ErrImportInProgress
	}
	if s.useRedis {
		ok, err := redispkg.AcquireRunLock(ctx, brandID, s.cfg.LockTimeout)
		if err != nil {
			s.locks.release(brandID)
			return err
		}
		if !ok {
			s.locks.release(brandID)
			return ErrImportInProgress
		}
	}
	return nil
}

func (s *catalogImportService) releaseLock(ctx context.Context, brandID uint) {
	if s.useRedis {
		if err := redispkg.ReleaseRunLock(ctx, brandID); err != nil {
			logger.Warn("Failed to release distributed import lock", map[string]interface{}{
				"brand_id": brandID,
			})
		}
	}
	s.locks.release(brandID)
}

func (s *catalogImportService) Preview(r io.Reader, sheetName string) (*SheetPreview, error) {
	wb, err := spreadsheet.Open(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, ErrNoUsableRows
	}
	if sheetName == "" {
		sheetName = names[0]
	}

	grid, err := wb.Grid(sheetName)
	if err != nil {
		return nil, ErrSheetNotFound
	}
	if len(grid) == 0 {
		return nil, ErrNoUsableRows
	}

	headerRow := sheet.DetectHeaderRow(grid)
	preview := &SheetPreview{
		SheetNames:        names,
		Sheet:             sheetName,
		DetectedHeaderRow: headerRow,
		Headers:           grid[headerRow-1],
	}
	if gender, ok := sheet.InferGenderFromSheetName(sheetName); ok {
		preview.GenderFallback = gender
	}

	for i := headerRow; i < len(grid) && len(preview.SampleRows) < 5; i++ {
		if !isEmptyRow(grid[i]) {
			preview.SampleRows = append(preview.SampleRows, grid[i])
		}
	}
	return preview, nil
}

func (s *catalogImportService) Import(ctx context.Context, r io.Reader, req ImportRequest) (*ImportSummary, error) {
	brand, err := s.brandRepo.FindByID(req.BrandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}

	if req.SeasonID != nil {
		if _, err := s.seasonRepo.FindByID(*req.SeasonID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSeasonNotFound
			}
			return nil, err
		}
	}

	if err := s.acquireLock(ctx, req.BrandID); err != nil {
		return nil, err
	}
	defer s.releaseLock(ctx, req.BrandID)

	logger.Info("Starting catalog import", map[string]interface{}{
		"brand":     brand.Name,
		"season_id": req.SeasonID,
		"file":      req.FileName,
	})

	candidates, rowErrors, rowsTotal, err := s.readCatalog(r, req)
	if err != nil {
		s.recordFailedUpload(req, rowsTotal, err)
		return nil, err
	}

	summary := &ImportSummary{RowsTotal: rowsTotal, Errors: rowErrors}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.applyRun(tx, req, candidates, summary)
	})
	if err != nil {
		logger.Error("Catalog import failed, rolled back", err, map[string]interface{}{
			"brand": brand.Name,
		})
		s.recordFailedUpload(req, rowsTotal, err)
		return nil, err
	}

	upload, err := s.recordUpload(req, summary)
	if err != nil {
		return nil, err
	}
	summary.UploadID = upload.ID

	logger.Info("Catalog import completed", map[string]interface{}{
		"brand":       brand.Name,
		"added":       summary.Added,
		"updated":     summary.Updated,
		"deactivated": summary.Deactivated,
		"errors":      len(summary.Errors),
	})
	return summary, nil
}

// readCatalog opens the workbook and normalizes rows into candidates. No
// database writes happen here; a structural failure aborts before anything
// is committed.
func (s *catalogImportService) readCatalog(r io.Reader, req ImportRequest) ([]candidate, []RowError, int, error) {
	wb, err := spreadsheet.Open(r)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, nil, 0, ErrNoUsableRows
	}
	sheetName := req.SheetName
	if sheetName == "" {
		sheetName = names[0]
	}

	grid, err := wb.Grid(sheetName)
	if err != nil {
		return nil, nil, 0, ErrSheetNotFound
	}
	if len(grid) == 0 {
		return nil, nil, 0, ErrNoUsableRows
	}

	headerRow := req.HeaderRow
	if headerRow <= 0 {
		headerRow = sheet.DetectHeaderRow(grid)
	}
	if headerRow > len(grid) {
		return nil, nil, 0, ErrNoUsableRows
	}

	index, missing := buildColumnIndex(grid[headerRow-1], req.Mapping)
	if len(missing) > 0 {
		return nil, nil, 0, fmt.Errorf("mapped columns not found in header row: %v", missing)
	}

	genderFallback := ""
	if g, ok := sheet.InferGenderFromSheetName(sheetName); ok {
		genderFallback = g
	}

	var (
		candidates []candidate
		rowErrors  []RowError
		rowsTotal  int
	)
	for i := headerRow; i < len(grid); i++ {
		row := grid[i]
		if isEmptyRow(row) {
			continue
		}
		rowsTotal++
		rowNumber := i + 1 // 1-indexed, as seen in the spreadsheet

		c, messages := normalizeRow(row, index, req.Mapping, req.BrandID, req.SeasonID, genderFallback)
		if len(messages) > 0 {
			if len(rowErrors) >= s.cfg.MaxErrors {
				return nil, nil, rowsTotal, ErrTooManyErrors
			}
			rowErrors = append(rowErrors, RowError{RowNumber: rowNumber, Messages: messages})
			continue
		}
		c.rowNumber = rowNumber
		candidates = append(candidates, *c)
	}

	if len(candidates) == 0 {
		return nil, rowErrors, rowsTotal, ErrNoUsableRows
	}
	return dedupeLastWins(candidates), rowErrors, rowsTotal, nil
}

// applyRun executes the write phase of an import inside one transaction:
// deactivate the brand's catalog, upsert in batches, record season prices,
// price history, and case mappings.
func (s *catalogImportService) applyRun(tx *gorm.DB, req ImportRequest, candidates []candidate, summary *ImportSummary) error {
	products := repository.NewProductRepository(tx)
	prices := repository.NewPriceRepository(tx)
	caseMappings := repository.NewCaseMappingRepository(tx)

	upcs := make([]string, 0, len(candidates))
	records := make([]model.Product, 0, len(candidates))
	for _, c := range candidates {
		upcs = append(upcs, c.product.UPC)
		records = append(records, c.product)
	}

	existing, err := products.FindByUPCs(upcs)
	if err != nil {
		return err
	}
	existingByUPC := make(map[string]model.Product, len(existing))
	for _, p := range existing {
		existingByUPC[p.UPC] = p
	}

	priorActive, err := products.FindActiveByBrand(req.BrandID)
	if err != nil {
		return err
	}

	if _, err := products.DeactivateBrand(req.BrandID); err != nil {
		return err
	}
	s.notify(req.BrandID, "deactivated", 0, len(records))

	batchSize := s.cfg.BatchSize
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := products.BatchUpsert(records[start:end], batchSize); err != nil {
			return err
		}
		s.notify(req.BrandID, "upserting", end, len(records))
	}

	seen := make(map[string]bool, len(upcs))
	for _, upc := range upcs {
		seen[upc] = true
	}
	for _, p := range priorActive {
		if !seen[p.UPC] {
			summary.Deactivated++
		}
	}
	for _, upc := range upcs {
		if _, ok := existingByUPC[upc]; ok {
			summary.Updated++
		} else {
			summary.Added++
		}
	}

	// Re-read to resolve database IDs for the follow-up writes
	final, err := products.FindByUPCs(upcs)
	if err != nil {
		return err
	}
	finalByUPC := make(map[string]model.Product, len(final))
	finalBySKU := make(map[string]model.Product, len(final))
	for _, p := range final {
		finalByUPC[p.UPC] = p
		if p.SKU != "" {
			finalBySKU[p.SKU] = p
		}
	}

	if req.SeasonID != nil {
		if err := s.recordPrices(prices, req, candidates, existingByUPC, finalByUPC); err != nil {
			return err
		}
		s.notify(req.BrandID, "pricing", len(records), len(records))
	}

	return s.recordCaseMappings(products, caseMappings, req.BrandID, candidates, finalByUPC, finalBySKU)
}

// recordPrices upserts the season-scoped price per product and appends an
// audit entry for every price that changed or was recorded for the first time.
func (s *catalogImportService) recordPrices(
	prices repository.PriceRepository,
	req ImportRequest,
	candidates []candidate,
	existingByUPC map[string]model.Product,
	finalByUPC map[string]model.Product,
) error {
	seasonPrices := make([]model.SeasonPrice, 0, len(candidates))
	var history []model.PriceHistory

	for _, c := range candidates {
		stored, ok := finalByUPC[c.product.UPC]
		if !ok {
			continue
		}
		seasonPrices = append(seasonPrices, model.SeasonPrice{
			ProductID: stored.ID,
			SeasonID:  *req.SeasonID,
			Wholesale: c.product.Wholesale,
			MSRP:      c.product.MSRP,
		})

		prev, existed := existingByUPC[c.product.UPC]
		oldWholesale, oldMSRP := decimal.Zero, decimal.Zero
		reason := model.PriceReasonSeasonRoll
		if existed {
			oldWholesale, oldMSRP = prev.Wholesale, prev.MSRP
			reason = model.PriceReasonImport
			if oldWholesale.Equal(c.product.Wholesale) && oldMSRP.Equal(c.product.MSRP) {
				continue
			}
		}
		history = append(history, model.PriceHistory{
			ProductID:    stored.ID,
			SeasonID:     req.SeasonID,
			OldWholesale: oldWholesale,
			NewWholesale: c.product.Wholesale,
			OldMSRP:      oldMSRP,
			NewMSRP:      c.product.MSRP,
			Reason:       reason,
		})
	}

	if err := prices.UpsertSeasonPrices(seasonPrices, s.cfg.BatchSize); err != nil {
		return err
	}
	return prices.AppendHistory(history)
}

// recordCaseMappings links case rows to their single-unit product when one
// can be found, by base SKU first and base name second.
func (s *catalogImportService) recordCaseMappings(
	products repository.ProductRepository,
	caseMappings repository.CaseMappingRepository,
	brandID uint,
	candidates []candidate,
	finalByUPC map[string]model.Product,
	finalBySKU map[string]model.Product,
) error {
	var mappings []model.CaseMapping
	for _, c := range candidates {
		if !c.caseInfo.IsCase || c.caseInfo.UnitsPerCase == nil {
			continue
		}
		caseProduct, ok := finalByUPC[c.product.UPC]
		if !ok {
			continue
		}

		var unitID *uint
		if c.caseInfo.BaseSKU != "" {
			if unit, ok := finalBySKU[c.caseInfo.BaseSKU]; ok && unit.ID != caseProduct.ID {
				unitID = &unit.ID
			} else if unit, err := products.FindByBrandAndSKU(brandID, c.caseInfo.BaseSKU); err == nil && unit.ID != caseProduct.ID {
				unitID = &unit.ID
			}
		}
		if unitID == nil && c.caseInfo.BaseName != "" {
			if unit, err := products.FindByBrandAndName(brandID, c.caseInfo.BaseName); err == nil && unit.ID != caseProduct.ID {
				unitID = &unit.ID
			}
		}

		mappings = append(mappings, model.CaseMapping{
			CaseProductID: caseProduct.ID,
			UnitProductID: unitID,
			UnitsPerCase:  *c.caseInfo.UnitsPerCase,
		})
	}
	return caseMappings.Upsert(mappings)
}

func (s *catalogImportService) recordUpload(req ImportRequest, summary *ImportSummary) (*model.CatalogUpload, error) {
	now := time.Now()
	upload := &model.CatalogUpload{
		BrandID:     req.BrandID,
		FileName:    req.FileName,
		FileURL:     req.FileURL,
		Status:      model.UploadStatusCompleted,
		RowsTotal:   summary.RowsTotal,
		Added:       summary.Added,
		Updated:     summary.Updated,
		Deactivated: summary.Deactivated,
		ErrorCount:  len(summary.Errors),
		FinishedAt:  &now,
		SeasonID:    req.SeasonID,
	}
	if len(summary.Errors) > 0 {
		detail, err := json.Marshal(summary.Errors)
		if err == nil {
			upload.ErrorDetail = string(detail)
		}
	}
	if err := s.uploadRepo.Create(upload); err != nil {
		logger.Error("Failed to record catalog upload", err, map[string]interface{}{
			"brand_id": req.BrandID,
		})
		return nil, err
	}
	return upload, nil
}

func (s *catalogImportService) recordFailedUpload(req ImportRequest, rowsTotal int, cause error) {
	now := time.Now()
	upload := &model.CatalogUpload{
		BrandID:     req.BrandID,
		FileName:    req.FileName,
		Status:      model.UploadStatusFailed,
		RowsTotal:   rowsTotal,
		ErrorDetail: cause.Error(),
		FinishedAt:  &now,
		SeasonID:    req.SeasonID,
	}
	if err := s.uploadRepo.Create(upload); err != nil {
		logger.Error("Failed to record failed catalog upload", err, map[string]interface{}{
			"brand_id": req.BrandID,
		})
	}
}

func (s *catalogImportService) notify(brandID uint, stage string, processed, total int) {
	if s.notifier != nil {
		s.notifier.NotifyProgress(brandID, stage, processed, total)
	}
}

func (s *catalogImportService) GetUpload(id uint) (*model.CatalogUpload, error) {
	return s.uploadRepo.FindByID(id)
}

func (s *catalogImportService) ListUploads(brandID *uint, limit int) ([]model.CatalogUpload, error) {
	return s.uploadRepo.FindRecent(brandID, limit)
}

// DeleteUpload removes an upload record. The catalog rows it produced stay;
// only the audit entry is dropped.
func (s *catalogImportService) DeleteUpload(id uint) error {
	if err := s.uploadRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUploadNotFound
		}
		return err
	}
	return nil
}
