package model

import "strings"

// Category is the canonical issue category vocabulary. It matches the
// classifier's output set; the public UI slug vocabulary maps in and out
// through CategoryFromSlug and Category.Slug so the two never drift.
type Category string

const (
	CategoryRoad         Category = "Road"
	CategorySanitation   Category = "Sanitation"
	CategoryStreetlight  Category = "Streetlight"
	CategoryWaterSupply  Category = "Water Supply"
	CategoryElectricity  Category = "Electricity"
	CategoryDrainage     Category = "Drainage"
	CategoryPublicSafety Category = "Public Safety"
	CategoryOther        Category = "Other"
)

// Categories lists every canonical category in display order.
var Categories = []Category{
	CategoryRoad,
	CategorySanitation,
	CategoryStreetlight,
	CategoryWaterSupply,
	CategoryElectricity,
	CategoryDrainage,
	CategoryPublicSafety,
	CategoryOther,
}

// ValidCategory reports whether c is one of the canonical categories.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// slugToCategory maps the UI filter vocabulary onto the canonical set.
var slugToCategory = map[string]Category{
	"roads":        CategoryRoad,
	"lighting":     CategoryStreetlight,
	"water":        CategoryWaterSupply,
	"cleanliness":  CategorySanitation,
	"safety":       CategoryPublicSafety,
	"obstructions": CategoryOther,
}

// categoryToSlug is the reverse, total over the canonical set. Drainage and
// Electricity have no dedicated UI slug and collapse into the nearest one.
var categoryToSlug = map[Category]string{
	CategoryRoad:         "roads",
	CategorySanitation:   "cleanliness",
	CategoryStreetlight:  "lighting",
	CategoryWaterSupply:  "water",
	CategoryElectricity:  "lighting",
	CategoryDrainage:     "water",
	CategoryPublicSafety: "safety",
	CategoryOther:        "obstructions",
}

// CategoryFromSlug resolves a UI slug or canonical name to a canonical
// category. Unknown input resolves to CategoryOther with ok=false.
func CategoryFromSlug(s string) (Category, bool) {
	if c, ok := slugToCategory[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, true
	}
	for _, known := range Categories {
		if strings.EqualFold(string(known), strings.TrimSpace(s)) {
			return known, true
		}
	}
	return CategoryOther, false
}

// Slug returns the UI slug for a canonical category. Unknown values fall
// back to the Other slug so the mapping stays total.
func (c Category) Slug() string {
	if s, ok := categoryToSlug[c]; ok {
		return s
	}
	return categoryToSlug[CategoryOther]
}
