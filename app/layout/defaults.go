package layout

import "gridline/app/interfaces"

// categoryDefaultRem holds the default column width per type category,
// in rem, applied to auto and missing widths without a flex weight.
var categoryDefaultRem = map[interfaces.Category]float64{
	interfaces.CategoryText:       12,
	interfaces.CategoryNumeric:    7,
	interfaces.CategoryTemporal:   13,
	interfaces.CategoryBoolean:    5,
	interfaces.CategoryBinary:     10,
	interfaces.CategoryComplex:    16,
	interfaces.CategoryIdentifier: 20,
	interfaces.CategoryEnum:       8,
	interfaces.CategoryGeo:        14,
	interfaces.CategoryUnknown:    10,
}

// DefaultWidth returns the category default width in pixels.
func DefaultWidth(cat interfaces.Category, ctx Context) float64 {
	rem, ok := categoryDefaultRem[cat]
	if !ok {
		rem = categoryDefaultRem[interfaces.CategoryUnknown]
	}
	return rem * ctx.RootFontSize
}
