package propdiff

import (
	"fmt"
	"strconv"

	"github.com/agenthands/parity/internal/config"
	"github.com/agenthands/parity/internal/core/model"
)

// Differ compares the tracked properties of one matched pair under the
// configured per-class tolerances and emits categorized differences.
type Differ struct {
	Thresholds config.Thresholds
}

func NewDiffer(thresholds config.Thresholds) *Differ {
	return &Differ{Thresholds: thresholds}
}

// Diff returns zero or more differences for the pair. Identical raw
// values never produce output; values that differ are then filtered by
// the tolerance class of their property.
func (d *Differ) Diff(pair model.MatchedPair) []model.PropertyDifference {
	var diffs []model.PropertyDifference

	record := func(property, liveVal, stageVal string) {
		diffs = append(diffs, d.newDifference(pair, property, liveVal, stageVal))
	}

	// Geometry first: width/height come from the rect, not the style
	// map, and carry the layout tolerance.
	if dw := delta(pair.Live.Rect.W, pair.Stage.Rect.W); dw > 0 && dw > d.Thresholds.LayoutThreshold {
		record("width", px(pair.Live.Rect.W), px(pair.Stage.Rect.W))
	}
	if dh := delta(pair.Live.Rect.H, pair.Stage.Rect.H); dh > 0 && dh > d.Thresholds.LayoutThreshold {
		record("height", px(pair.Live.Rect.H), px(pair.Stage.Rect.H))
	}

	for _, property := range TrackedProperties {
		liveVal := pair.Live.Style(property)
		stageVal := pair.Stage.Style(property)
		if liveVal == stageVal {
			continue
		}
		if d.withinTolerance(property, liveVal, stageVal) {
			continue
		}
		record(property, liveVal, stageVal)
	}

	// Content and asset checks are exact.
	if pair.Live.Text != pair.Stage.Text {
		record("text", pair.Live.Text, pair.Stage.Text)
	}
	if pair.Live.ImageSrc != pair.Stage.ImageSrc {
		record("src", pair.Live.ImageSrc, pair.Stage.ImageSrc)
	}

	return diffs
}

// withinTolerance reports whether a raw value change is small enough to
// ignore for the property's tolerance class. The boundary is inclusive:
// a delta exactly at the threshold is still tolerated. Values we cannot
// parse are never within tolerance: one bad capture value must surface
// as a difference, not abort the comparison.
func (d *Differ) withinTolerance(property, liveVal, stageVal string) bool {
	if colorProperties[property] {
		lc, lok := ParseColor(liveVal)
		sc, sok := ParseColor(stageVal)
		if !lok || !sok {
			return false
		}
		return ColorDistance(lc, sc) <= d.Thresholds.ColorThreshold
	}

	if property == "fontSize" {
		ln, lok := LeadingNumber(liveVal)
		sn, sok := LeadingNumber(stageVal)
		if !lok || !sok {
			return false
		}
		return delta(ln, sn) <= d.Thresholds.FontSizeThreshold
	}

	// Any other property with leading numeric values (margins, padding,
	// gap, lineHeight, borderRadius, ...) gets the generic pixel
	// tolerance. Everything else is exact string comparison, and the
	// caller already knows the strings differ.
	ln, lok := LeadingNumber(liveVal)
	sn, sok := LeadingNumber(stageVal)
	if lok && sok {
		return delta(ln, sn) <= d.Thresholds.PixelThreshold
	}
	return false
}

func (d *Differ) newDifference(pair model.MatchedPair, property, liveVal, stageVal string) model.PropertyDifference {
	category := CategoryOf(property)
	return model.PropertyDifference{
		Selector:       pair.Live.Selector,
		Category:       category,
		Property:       property,
		LiveValue:      liveVal,
		StageValue:     stageVal,
		LiveRect:       pair.Live.Rect,
		StageRect:      pair.Stage.Rect,
		Section:        pair.Live.Section,
		Severity:       SeverityOf(property, category),
		Recommendation: recommend(property, liveVal, stageVal),
	}
}

func recommend(property, liveVal, stageVal string) string {
	switch property {
	case "src":
		return fmt.Sprintf("Image source changed from %q to %q. Confirm this asset swap is intentional before release.", liveVal, stageVal)
	case "text":
		return "Text content differs between environments. Verify the copy change was deployed on purpose."
	}
	return fmt.Sprintf("Staging renders %s as %q but live has %q. Align the staging value with live unless the change is intentional.", property, stageVal, liveVal)
}

func delta(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
