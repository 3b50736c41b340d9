package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/isphillips/keyframer"
)

// PropertyCategory buckets CSS properties for grouped display.
type PropertyCategory string

const (
	CategoryVisual     PropertyCategory = "Visual"
	CategoryLayout     PropertyCategory = "Layout"
	CategoryTypography PropertyCategory = "Typography"
	CategoryEffects    PropertyCategory = "Effects"
	CategoryInternal   PropertyCategory = "Internal"
)

// propertyCategories maps CSS property names to display categories.
var propertyCategories = map[string]PropertyCategory{
	// Visual
	"background":       CategoryVisual,
	"background-color": CategoryVisual,
	"background-image": CategoryVisual,
	"border":           CategoryVisual,
	"border-color":     CategoryVisual,
	"border-radius":    CategoryVisual,
	"box-shadow":       CategoryVisual,
	"color":            CategoryVisual,
	"fill":             CategoryVisual,
	"outline":          CategoryVisual,
	"stroke":           CategoryVisual,

	// Layout
	"bottom":          CategoryLayout,
	"display":         CategoryLayout,
	"flex":            CategoryLayout,
	"gap":             CategoryLayout,
	"grid":            CategoryLayout,
	"height":          CategoryLayout,
	"left":            CategoryLayout,
	"margin":          CategoryLayout,
	"max-height":      CategoryLayout,
	"max-width":       CategoryLayout,
	"min-height":      CategoryLayout,
	"min-width":       CategoryLayout,
	"overflow":        CategoryLayout,
	"padding":         CategoryLayout,
	"position":        CategoryLayout,
	"right":           CategoryLayout,
	"top":             CategoryLayout,
	"width":           CategoryLayout,
	"z-index":         CategoryLayout,

	// Typography
	"font":            CategoryTypography,
	"font-family":     CategoryTypography,
	"font-size":       CategoryTypography,
	"font-weight":     CategoryTypography,
	"letter-spacing":  CategoryTypography,
	"line-height":     CategoryTypography,
	"text-align":      CategoryTypography,
	"text-decoration": CategoryTypography,
	"white-space":     CategoryTypography,

	// Effects
	"animation":        CategoryEffects,
	"backdrop-filter":  CategoryEffects,
	"filter":           CategoryEffects,
	"opacity":          CategoryEffects,
	"perspective":      CategoryEffects,
	"transform":        CategoryEffects,
	"transform-origin": CategoryEffects,
	"transition":       CategoryEffects,
	"visibility":       CategoryEffects,
	"will-change":      CategoryEffects,
}

// CategorizeProperty determines the category of a CSS property,
// falling back to prefix heuristics for names not in the table.
func CategorizeProperty(name string) PropertyCategory {
	if cat, exists := propertyCategories[name]; exists {
		return cat
	}
	if strings.HasPrefix(name, "--") {
		return CategoryInternal
	}
	if strings.HasPrefix(name, "-webkit-") || strings.HasPrefix(name, "-moz-") ||
		strings.HasPrefix(name, "-ms-") || strings.HasPrefix(name, "-o-") {
		return CategoryInternal
	}
	switch {
	case strings.HasPrefix(name, "animation-"), strings.HasPrefix(name, "transition-"):
		return CategoryEffects
	case strings.HasPrefix(name, "font-"), strings.HasPrefix(name, "text-"):
		return CategoryTypography
	case strings.HasPrefix(name, "border-"), strings.HasPrefix(name, "background-"),
		strings.HasPrefix(name, "outline-"):
		return CategoryVisual
	case strings.HasPrefix(name, "flex-"), strings.HasPrefix(name, "grid-"),
		strings.HasPrefix(name, "margin-"), strings.HasPrefix(name, "padding-"),
		strings.HasPrefix(name, "inset-"):
		return CategoryLayout
	}
	return CategoryLayout
}

// CategorizedProperty is one scalar property with display metadata.
type CategorizedProperty struct {
	Name     string
	Value    string
	Category PropertyCategory
	IsVar    bool
}

// IsVarValue checks whether a value references a custom property.
func IsVarValue(value string) bool {
	return strings.Contains(value, "var(--")
}

// ScalarValues flattens a declaration's scalar entries to display
// strings, dropping nested sub-declarations.
func ScalarValues(decl keyframer.Declaration) map[string]string {
	out := make(map[string]string, len(decl))
	for name, value := range decl {
		if keyframer.IsNestedKey(name) {
			continue
		}
		out[name] = fmt.Sprintf("%v", value)
	}
	return out
}

// CategorizeDeclaration groups a declaration's scalar properties by
// category, sorted by name within each category.
func CategorizeDeclaration(decl keyframer.Declaration) map[PropertyCategory][]CategorizedProperty {
	result := make(map[PropertyCategory][]CategorizedProperty)
	for name, value := range ScalarValues(decl) {
		cat := CategorizeProperty(name)
		result[cat] = append(result[cat], CategorizedProperty{
			Name:     name,
			Value:    value,
			Category: cat,
			IsVar:    IsVarValue(value),
		})
	}
	for cat := range result {
		props := result[cat]
		sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
	}
	return result
}
