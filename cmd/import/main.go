package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/summitretail/preseason-backend/config"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/internal/app/service"
	"github.com/summitretail/preseason-backend/internal/db"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

// Imports a vendor catalog workbook from disk, same pipeline as the HTTP
// endpoint but without archiving.
//
//	go run ./cmd/import -brand "La Sportiva" -season S26 -mapping mapping.json catalog.xlsx
func main() {
	brandName := flag.String("brand", "", "brand name (required)")
	seasonCode := flag.String("season", "", "season code, e.g. S26")
	sheetName := flag.String("sheet", "", "sheet name (default: first sheet)")
	headerRow := flag.Int("header-row", 0, "1-indexed header row (default: auto-detect)")
	mappingPath := flag.String("mapping", "", "path to a column mapping JSON file (required)")
	flag.Parse()

	if flag.NArg() < 1 || *brandName == "" || *mappingPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: import -brand <name> [-season <code>] [-sheet <name>] [-header-row N] -mapping <file> <xlsx_file>")
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	brandRepo := repository.NewBrandRepository(db.GetDB())
	seasonRepo := repository.NewSeasonRepository(db.GetDB())
	uploadRepo := repository.NewCatalogUploadRepository(db.GetDB())

	brand, err := brandRepo.FindByName(*brandName)
	if err != nil {
		log.Fatalf("Unknown brand %q", *brandName)
	}

	var seasonID *uint
	if *seasonCode != "" {
		season, err := seasonRepo.FindByCode(*seasonCode)
		if err != nil {
			log.Fatalf("Unknown season %q", *seasonCode)
		}
		seasonID = &season.ID
	}

	mappingData, err := os.ReadFile(*mappingPath)
	if err != nil {
		log.Fatal("Failed to read mapping file:", err)
	}
	var mapping service.ColumnMapping
	if err := json.Unmarshal(mappingData, &mapping); err != nil {
		log.Fatal("Mapping file is not valid JSON:", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open workbook:", err)
	}
	defer f.Close()

	importService := service.NewCatalogImportService(
		db.GetDB(),
		brandRepo,
		seasonRepo,
		uploadRepo,
		cfg.Import,
		nil,
	)

	fmt.Printf("Importing %s for %s...\n", filePath, brand.Name)

	summary, err := importService.Import(context.Background(), f, service.ImportRequest{
		BrandID:   brand.ID,
		SeasonID:  seasonID,
		SheetName: *sheetName,
		HeaderRow: *headerRow,
		Mapping:   mapping,
		FileName:  filePath,
	})
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	fmt.Printf("Done. rows=%d added=%d updated=%d deactivated=%d errors=%d (upload #%d)\n",
		summary.RowsTotal, summary.Added, summary.Updated, summary.Deactivated, len(summary.Errors), summary.UploadID)

	for _, rowErr := range summary.Errors {
		fmt.Printf("  row %d: %v\n", rowErr.RowNumber, rowErr.Messages)
	}
}
