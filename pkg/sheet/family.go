package sheet

import (
	"regexp"
	"strings"
)

// The family key groups color/size variants of one style. It is derived
// from the full product name, never from the stored base name: stripping
// a name down to the bare style historically collapsed color variants
// ("Instinct VS Black/Orange" and "Instinct VS Red" must stay distinct
// families). Only trailing size tokens are removed.

// letter and one-size tokens stripped when they terminate the name
var sizeWordTokens = map[string]bool{
	"xxs": true, "xs": true, "s": true, "m": true, "l": true,
	"xl": true, "xxl": true, "xxxl": true,
	"2xl": true, "3xl": true, "4xl": true,
	"sm": true, "md": true, "lg": true,
	"os": true, "osfa": true, "onesize": true,
}

// numeric size shapes: "42", "10.5", "1/2", "42.5"
var sizeNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,3}(?:\.\d)?$`),
	regexp.MustCompile(`^\d+/\d+$`),
}

// trailing multi-word size phrases checked before tokenizing
var sizePhrases = []string{"one size fits all", "one size"}

// FamilyKey derives the style-family grouping key from a full product
// name by stripping trailing size tokens. Two products of one brand with
// equal family keys are variants of the same style.
func FamilyKey(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}

	remainder := trimmed
	for {
		next, stripped := stripTrailingSize(remainder)
		if !stripped {
			break
		}
		remainder = next
	}

	if remainder == "" {
		// the name was nothing but a size; keep it as its own family
		return trimmed
	}
	return remainder
}

// SameFamily reports whether two product names derive the same family
// key, ignoring case.
func SameFamily(a, b string) bool {
	return strings.EqualFold(FamilyKey(a), FamilyKey(b))
}

func stripTrailingSize(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, phrase := range sizePhrases {
		if strings.HasSuffix(lower, phrase) {
			return strings.TrimRight(strings.TrimSpace(name[:len(name)-len(phrase)]), "-–/ "), true
		}
	}

	idx := strings.LastIndexAny(name, " \t")
	if idx < 0 {
		return name, false
	}
	last := strings.ToLower(strings.Trim(name[idx+1:], "()"))
	if last == "" {
		return strings.TrimSpace(name[:idx]), true
	}

	if sizeWordTokens[last] {
		return strings.TrimSpace(name[:idx]), true
	}
	for _, p := range sizeNumberPatterns {
		if p.MatchString(last) {
			return strings.TrimSpace(name[:idx]), true
		}
	}
	return name, false
}
