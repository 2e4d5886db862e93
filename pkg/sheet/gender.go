package sheet

import "strings"

// Canonical gender values stored on products.
const (
	GenderMens   = "Men's"
	GenderWomens = "Women's"
	GenderUnisex = "Unisex"
	GenderKids   = "Kids'"
)

// genderGroup maps a gender to its sheet-name synonyms. Groups are
// evaluated in order with Men last: "men" is a substring of "women" and
// "children", so a tab like "Women's Apparel" must never reach the Men
// group.
type genderGroup struct {
	gender   string
	patterns []string
}

var genderGroups = []genderGroup{
	{GenderWomens, []string{"women", "womens", "woman", "ladies", "lady", "female", "wmns", "wmn", "w's", "ws "}},
	{GenderUnisex, []string{"unisex", "uni "}},
	{GenderKids, []string{"kids", "kid", "youth", "junior", "jr", "children", "child", "boys", "girls"}},
	{GenderMens, []string{"men", "mens", "man", "male", "mns", "m's", "ms "}},
}

// InferGenderFromSheetName guesses a gender from a sheet/tab name such as
// "Women's Apparel" or "M Footwear". The bool reports whether any group
// matched.
func InferGenderFromSheetName(name string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "", false
	}

	for _, group := range genderGroups {
		for _, pattern := range group.patterns {
			if strings.Contains(normalized, pattern) {
				return group.gender, true
			}
		}
	}
	return "", false
}
