package sheet

import (
	"regexp"
	"strings"
)

// Vendor price lists bury the header row anywhere in the first few rows,
// under logos, contact blocks and season banners. DetectHeaderRow scores
// each candidate row and picks the most header-looking one. The result is
// advisory; callers may override it.

const maxHeaderScanRows = 10

// headerKeywords is the vocabulary matched against normalized cell text.
// A cell counts as a keyword cell when it equals, contains, or is
// contained by any entry.
var headerKeywords = []string{
	"upc", "ean", "barcode", "sku", "style", "item", "article",
	"product", "name", "description", "desc",
	"size", "color", "colour", "gender", "inseam",
	"category", "subcategory", "type",
	"wholesale", "cost", "whlsl", "msrp", "retail", "price",
	"qty", "quantity", "case", "pack", "units",
	"season", "brand", "vendor",
	"men", "women", "unisex", "kids",
}

// cellRule is a per-cell penalty evaluated in order; the first matching
// rule wins for a given cell.
type cellRule struct {
	pattern *regexp.Regexp
	weight  int
}

var cellRules = []cellRule{
	// 12-14 digit barcode: near-certain data row
	{pattern: regexp.MustCompile(`^\d{12,14}$`), weight: -10},
	// currency / plain numeric
	{pattern: regexp.MustCompile(`^[$€£¥]?\s*-?[\d,]+(?:\.\d+)?%?$`), weight: -3},
}

// rowBonus is a whole-row adjustment applied after cell scoring.
type rowBonus struct {
	applies func(s rowStats) bool
	weight  int
}

var rowBonuses = []rowBonus{
	{func(s rowStats) bool { return s.keywordCells >= 5 }, 20},
	{func(s rowStats) bool { return s.keywordCells >= 3 && s.keywordCells < 5 }, 15},
	{func(s rowStats) bool { return s.nonEmpty >= 3 && s.nonEmpty <= 20 }, 5},
	{func(s rowStats) bool { return s.nonEmpty > 0 && s.numericCells*2 > s.nonEmpty }, -10},
	{func(s rowStats) bool { return s.nextMoreNumeric }, 8},
}

type rowStats struct {
	nonEmpty        int
	keywordCells    int
	numericCells    int
	cellScore       int
	nextMoreNumeric bool
}

// DetectHeaderRow returns the 1-indexed row judged most likely to be the
// column-header row of the grid. Ties favor the earliest row; when no row
// scores above zero the first row is assumed.
func DetectHeaderRow(rows [][]string) int {
	scores := HeaderScores(rows)

	best, bestScore := 1, 0
	for i, score := range scores {
		if score > bestScore {
			best, bestScore = i+1, score
		}
	}
	return best
}

// HeaderScores returns the heuristic score of each of the first rows of
// the grid (up to ten), in row order.
func HeaderScores(rows [][]string) []int {
	limit := len(rows)
	if limit > maxHeaderScanRows {
		limit = maxHeaderScanRows
	}

	scores := make([]int, limit)
	for i := 0; i < limit; i++ {
		stats := scoreRow(rows[i])
		if i+1 < len(rows) {
			stats.nextMoreNumeric = numericRatio(rows[i+1]) > numericRatio(rows[i])
		}

		score := stats.cellScore
		for _, bonus := range rowBonuses {
			if bonus.applies(stats) {
				score += bonus.weight
			}
		}
		scores[i] = score
	}
	return scores
}

func scoreRow(row []string) rowStats {
	var stats rowStats
	for _, cell := range row {
		text := normalizeCell(cell)
		if text == "" {
			continue
		}
		stats.nonEmpty++

		if matchesKeyword(text) {
			stats.keywordCells++
			stats.cellScore += 10
			continue
		}

		for _, rule := range cellRules {
			if rule.pattern.MatchString(text) {
				stats.numericCells++
				stats.cellScore += rule.weight
				break
			}
		}
	}
	return stats
}

func matchesKeyword(text string) bool {
	for _, kw := range headerKeywords {
		if text == kw || strings.Contains(text, kw) || strings.Contains(kw, text) {
			return true
		}
	}
	return false
}

func numericRatio(row []string) float64 {
	nonEmpty, numeric := 0, 0
	for _, cell := range row {
		text := normalizeCell(cell)
		if text == "" {
			continue
		}
		nonEmpty++
		for _, rule := range cellRules {
			if rule.pattern.MatchString(text) {
				numeric++
				break
			}
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	return float64(numeric) / float64(nonEmpty)
}

func normalizeCell(cell string) string {
	return strings.ToLower(strings.TrimSpace(cell))
}
