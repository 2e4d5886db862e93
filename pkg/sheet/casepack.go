package sheet

import (
	"regexp"
	"strconv"
	"strings"
)

// Vendors list case packs as their own rows ("Chalk Ball - 12-Pack",
// SKU "CB100-CS12") priced per case. Classification decides whether a
// row is a multi-unit case and recovers the single-unit identifiers so
// the case can be linked back to its per-unit product.

// CaseInfo is the result of classifying one candidate record.
type CaseInfo struct {
	IsCase       bool
	UnitsPerCase *int
	CaseSKU      string
	// BaseSKU/BaseName are the single-unit identifiers recovered by
	// stripping the case phrasing; empty when stripping changed nothing.
	BaseSKU  string
	BaseName string
}

// casePattern captures the unit count in group 1.
type casePattern struct {
	re *regexp.Regexp
}

var namePatterns = []casePattern{
	{regexp.MustCompile(`(?i)[\s-]*\bcase\s+of\s+(\d+)\b`)},
	{regexp.MustCompile(`(?i)[\s-]*\bpack\s+of\s+(\d+)\b`)},
	{regexp.MustCompile(`(?i)[\s-]*\bcarton\s+of\s+(\d+)\b`)},
	{regexp.MustCompile(`(?i)[\s-]*\bbox\s+of\s+(\d+)\b`)},
	{regexp.MustCompile(`(?i)[\s-]*\b(\d+)[\s-]?pack\b`)},
	{regexp.MustCompile(`(?i)[\s-]*\b(\d+)[\s-]?case\b`)},
	{regexp.MustCompile(`(?i)\s*\(\s*(\d+)\s*(?:pk|pc|ct)\s*\)`)},
}

var skuPatterns = []casePattern{
	{regexp.MustCompile(`(?i)-CS(\d+)$`)},
	{regexp.MustCompile(`(?i)-CASE(\d+)$`)},
	{regexp.MustCompile(`(?i)-(\d+)PK$`)},
	{regexp.MustCompile(`(?i)-(\d+)CT$`)},
	{regexp.MustCompile(`(?i)-BX(\d+)$`)},
}

// ClassifyCase decides whether a record represents a multi-unit case.
// Decision order: an explicit pack-size field greater than one, then name
// phrasing, then SKU suffix. Base SKU and base name are derived from the
// SKU and name independently of which signal matched first.
func ClassifyCase(name, sku string, explicitQty *int) CaseInfo {
	info := CaseInfo{CaseSKU: sku}

	if explicitQty != nil && *explicitQty > 1 {
		info.IsCase = true
		info.UnitsPerCase = explicitQty
	}

	if units, ok := matchUnits(namePatterns, name); ok && !info.IsCase {
		info.IsCase = true
		info.UnitsPerCase = &units
	}
	if units, ok := matchUnits(skuPatterns, sku); ok && !info.IsCase {
		info.IsCase = true
		info.UnitsPerCase = &units
	}

	if !info.IsCase {
		return info
	}

	info.BaseSKU = stripPatterns(skuPatterns, sku)
	info.BaseName = stripPatterns(namePatterns, name)
	return info
}

func matchUnits(patterns []casePattern, text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			if units, err := strconv.Atoi(m[1]); err == nil && units > 0 {
				return units, true
			}
		}
	}
	return 0, false
}

// stripPatterns removes the first matching case phrase. Returns "" when
// stripping is a no-op, meaning no base value could be derived.
func stripPatterns(patterns []casePattern, text string) string {
	if text == "" {
		return ""
	}
	for _, p := range patterns {
		if p.re.MatchString(text) {
			stripped := strings.Trim(p.re.ReplaceAllString(text, ""), " -–—")
			if stripped != "" && stripped != text {
				return stripped
			}
			return ""
		}
	}
	return ""
}
