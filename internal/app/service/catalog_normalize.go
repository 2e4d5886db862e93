package service

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/pkg/sheet"
)

// Canonical field names accepted in a column mapping
const (
	FieldUPC         = "upc"
	FieldSKU         = "sku"
	FieldName        = "name"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldGender      = "gender"
	FieldSize        = "size"
	FieldColor       = "color"
	FieldInseam      = "inseam"
	FieldCaseQty     = "case_qty"
	FieldWholesale   = "wholesale"
	FieldMSRP        = "msrp"
)

// ColumnMapping maps canonical fields to source column headers. Fields listed
// in NotAvailable are excluded from population and from validation, for files
// that genuinely lack them.
type ColumnMapping struct {
	Columns      map[string]string `json:"columns"`
	NotAvailable []string          `json:"not_available,omitempty"`
}

func (m ColumnMapping) isNotAvailable(field string) bool {
	for _, f := range m.NotAvailable {
		if f == field {
			return true
		}
	}
	return false
}

// buildColumnIndex resolves each mapped source header to its position in the
// header row. Header comparison is case-insensitive and whitespace-trimmed.
// Returns the fields whose mapped column could not be found.
func buildColumnIndex(headers []string, mapping ColumnMapping) (map[string]int, []string) {
	positions := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, taken := positions[key]; !taken {
			positions[key] = i
		}
	}

	index := make(map[string]int, len(mapping.Columns))
	var missing []string
	for field, column := range mapping.Columns {
		if mapping.isNotAvailable(field) {
			continue
		}
		pos, ok := positions[strings.ToLower(strings.TrimSpace(column))]
		if !ok {
			missing = append(missing, field)
			continue
		}
		index[field] = pos
	}
	return index, missing
}

// candidate is one spreadsheet row normalized into a product plus its case
// classification, carried through dedupe and upsert.
type candidate struct {
	rowNumber int
	product   model.Product
	caseInfo  sheet.CaseInfo
}

// normalizeRow turns one raw data row into a candidate. The returned messages
// are per-row validation failures; a non-empty list means the row is rejected.
func normalizeRow(row []string, index map[string]int, mapping ColumnMapping, brandID uint, seasonID *uint, genderFallback string) (*candidate, []string) {
	value := func(field string) string {
		pos, ok := index[field]
		if !ok || pos >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[pos])
	}

	var messages []string

	upc := value(FieldUPC)
	if upc == "" && !mapping.isNotAvailable(FieldUPC) {
		messages = append(messages, "missing UPC")
	}

	wholesale, err := sheet.ParseMoney(value(FieldWholesale))
	if err != nil {
		messages = append(messages, fmt.Sprintf("invalid wholesale value %q", value(FieldWholesale)))
	}
	msrp, err := sheet.ParseMoney(value(FieldMSRP))
	if err != nil {
		messages = append(messages, fmt.Sprintf("invalid MSRP value %q", value(FieldMSRP)))
	}
	explicitQty, err := sheet.ParseQuantity(value(FieldCaseQty))
	if err != nil {
		messages = append(messages, fmt.Sprintf("invalid case quantity %q", value(FieldCaseQty)))
	}

	if len(messages) > 0 {
		return nil, messages
	}

	gender := value(FieldGender)
	if gender == "" && genderFallback != "" {
		gender = genderFallback
	}

	name := value(FieldName)
	skuValue := value(FieldSKU)
	caseInfo := sheet.ClassifyCase(name, skuValue, explicitQty)

	product := model.Product{
		BrandID:     brandID,
		SeasonID:    seasonID,
		UPC:         upc,
		SKU:         skuValue,
		Name:        name,
		BaseName:    caseInfo.BaseName,
		Category:    value(FieldCategory),
		Subcategory: value(FieldSubcategory),
		Gender:      gender,
		Size:        value(FieldSize),
		Color:       value(FieldColor),
		Inseam:      value(FieldInseam),
		Active:      true,
	}
	if caseInfo.IsCase {
		product.CaseQty = caseInfo.UnitsPerCase
	}
	if wholesale != nil {
		product.Wholesale = *wholesale
	} else {
		product.Wholesale = decimal.Zero
	}
	if msrp != nil {
		product.MSRP = *msrp
	} else {
		product.MSRP = decimal.Zero
	}

	if product.UPC == "" {
		product.UPC = syntheticUPC(brandID, product)
	}

	return &candidate{product: product, caseInfo: caseInfo}, nil
}

// syntheticUPC builds a stable stand-in identifier for files with no UPC
// column, so the merge key stays deterministic across re-imports.
func syntheticUPC(brandID uint, p model.Product) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d|%s|%s|%s|%s", brandID, p.SKU, p.Name, p.Color, p.Size)
	return fmt.Sprintf("G%08X", h.Sum32())
}

// isEmptyRow reports whether every cell in the row is blank
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// dedupeLastWins collapses candidates sharing a UPC, keeping the values of
// the last occurrence. Relative order of first appearance is preserved.
func dedupeLastWins(candidates []candidate) []candidate {
	seen := make(map[string]int, len(candidates))
	var out []candidate
	for _, c := range candidates {
		if pos, ok := seen[c.product.UPC]; ok {
			out[pos] = c
			continue
		}
		seen[c.product.UPC] = len(out)
		out = append(out, c)
	}
	return out
}
