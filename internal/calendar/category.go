package calendar

import "strings"

// Category classifies an event.
type Category string

const (
	CategoryExercise Category = "exercise"
	CategoryEating   Category = "eating"
	CategoryWork     Category = "work"
	CategoryRelax    Category = "relax"
	CategoryFamily   Category = "family"
	CategorySocial   Category = "social"
)

// FallbackColor is shown for events whose category has no color.
const FallbackColor = "#dfe6e9"

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryExercise,
		CategoryEating,
		CategoryWork,
		CategoryRelax,
		CategoryFamily,
		CategorySocial,
	}
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// Valid returns true if the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryExercise, CategoryEating, CategoryWork, CategoryRelax, CategoryFamily, CategorySocial:
		return true
	default:
		return false
	}
}

// Color returns the display color for the category.
func (c Category) Color() string {
	switch c {
	case CategoryExercise:
		return "#ff7675"
	case CategoryEating:
		return "#74b9ff"
	case CategoryWork:
		return "#55efc4"
	case CategoryRelax:
		return "#a29bfe"
	case CategoryFamily:
		return "#ffeaa7"
	case CategorySocial:
		return "#fd79a8"
	default:
		return FallbackColor
	}
}

// Label returns the capitalized category name.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}
