package propdiff

import "github.com/agenthands/parity/internal/core/model"

// TrackedProperties is the ordered set of style properties the differ
// inspects on every matched pair, beyond the synthetic width/height/
// text/src comparisons. Order here is report order.
var TrackedProperties = []string{
	"fontSize",
	"fontFamily",
	"fontWeight",
	"lineHeight",
	"color",
	"backgroundColor",
	"marginTop",
	"marginRight",
	"marginBottom",
	"marginLeft",
	"paddingTop",
	"paddingRight",
	"paddingBottom",
	"paddingLeft",
	"gap",
	"display",
	"flexDirection",
	"justifyContent",
	"borderRadius",
	"boxShadow",
}

// propertyCategory is the static property -> category table. Anything
// absent falls through to CategoryOther.
var propertyCategory = map[string]model.Category{
	"fontSize":        model.CategoryTypography,
	"fontFamily":      model.CategoryTypography,
	"fontWeight":      model.CategoryTypography,
	"lineHeight":      model.CategoryTypography,
	"color":           model.CategoryColor,
	"backgroundColor": model.CategoryColor,
	"marginTop":       model.CategorySpacing,
	"marginRight":     model.CategorySpacing,
	"marginBottom":    model.CategorySpacing,
	"marginLeft":      model.CategorySpacing,
	"paddingTop":      model.CategorySpacing,
	"paddingRight":    model.CategorySpacing,
	"paddingBottom":   model.CategorySpacing,
	"paddingLeft":     model.CategorySpacing,
	"gap":             model.CategorySpacing,
	"width":           model.CategoryLayout,
	"height":          model.CategoryLayout,
	"display":         model.CategoryLayout,
	"flexDirection":   model.CategoryLayout,
	"justifyContent":  model.CategoryLayout,
	"src":             model.CategoryImage,
	"text":            model.CategoryContent,
	"borderRadius":    model.CategoryOther,
	"boxShadow":       model.CategoryOther,
}

// colorProperties are compared by perceptual RGB distance, not string
// equality.
var colorProperties = map[string]bool{
	"color":           true,
	"backgroundColor": true,
}

// CategoryOf looks up the category for a property.
func CategoryOf(property string) model.Category {
	if c, ok := propertyCategory[property]; ok {
		return c
	}
	return model.CategoryOther
}

// SeverityOf is the pure severity decision: layout differences break
// page structure and are critical; font size, color and asset swaps
// are visible but not structural; the rest is cosmetic.
func SeverityOf(property string, category model.Category) model.Severity {
	if category == model.CategoryLayout {
		return model.SeverityCritical
	}
	switch property {
	case "fontSize", "color", "src":
		return model.SeverityMedium
	}
	return model.SeverityLow
}
