package systemic

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agenthands/parity/internal/core/model"
	"github.com/agenthands/parity/internal/core/propdiff"
)

const (
	// spacingBaseUnit is the grid step a consistent design system snaps
	// margins and paddings to.
	spacingBaseUnit = 4.0
	// spacingViolationRatio: above this share of off-grid elements the
	// page gets flagged.
	spacingViolationRatio = 0.2
	// colorDriftThreshold: two distinct colors closer than this are
	// near-duplicates, usually one drifted copy of a brand color.
	colorDriftThreshold = 10.0
)

// textTags are the tags the typography-scale heuristic groups by.
var textTags = map[string]bool{
	"h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true,
	"p": true,
}

// Auditor runs cross-element design-consistency heuristics over a
// single snapshot, independent of any live/stage pairing. Its findings
// are review candidates, not hard failures.
type Auditor struct{}

func NewAuditor() *Auditor {
	return &Auditor{}
}

// Audit runs every heuristic and collects their issues. Each heuristic
// is isolated: one blowing up on a malformed capture value is dropped
// from the output and must never take down the whole report.
func (a *Auditor) Audit(elements []model.ElementSnapshot) []model.SystemicIssue {
	issues := make([]model.SystemicIssue, 0)

	for _, h := range []func([]model.ElementSnapshot) []model.SystemicIssue{
		a.typographyScale,
		a.spacingGrid,
		a.colorDrift,
	} {
		issues = append(issues, runSafely(h, elements)...)
	}

	return issues
}

func runSafely(h func([]model.ElementSnapshot) []model.SystemicIssue, elements []model.ElementSnapshot) (out []model.SystemicIssue) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
		}
	}()
	return h(elements)
}

// typographyScale flags any heading/paragraph tag rendered at more than
// one font size. One issue per offending tag, naming the full size set.
func (a *Auditor) typographyScale(elements []model.ElementSnapshot) []model.SystemicIssue {
	sizesByTag := make(map[string]map[string]bool)
	for _, e := range elements {
		tag := strings.ToLower(e.Tag)
		if !textTags[tag] {
			continue
		}
		size := e.Style("fontSize")
		if size == "" {
			continue
		}
		if sizesByTag[tag] == nil {
			sizesByTag[tag] = make(map[string]bool)
		}
		sizesByTag[tag][size] = true
	}

	tags := make([]string, 0, len(sizesByTag))
	for tag := range sizesByTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var issues []model.SystemicIssue
	for _, tag := range tags {
		if len(sizesByTag[tag]) < 2 {
			continue
		}
		sizes := make([]string, 0, len(sizesByTag[tag]))
		for s := range sizesByTag[tag] {
			sizes = append(sizes, s)
		}
		sort.Strings(sizes)

		issues = append(issues, model.SystemicIssue{
			Type:           "typography_scale",
			Severity:       model.SeverityMedium,
			Description:    fmt.Sprintf("<%s> elements use %d different font sizes: %s", tag, len(sizes), strings.Join(sizes, ", ")),
			Recommendation: fmt.Sprintf("Pick one size for <%s> from the type scale and apply it everywhere.", tag),
		})
	}
	return issues
}

// spacingGrid checks top margins/paddings against the base grid unit.
// Scattered one-off violations are normal; past the ratio the page has
// no spacing system and gets one aggregate issue.
func (a *Auditor) spacingGrid(elements []model.ElementSnapshot) []model.SystemicIssue {
	checked := 0
	violations := 0

	for _, e := range elements {
		offGrid := false
		seen := false
		for _, property := range []string{"marginTop", "paddingTop"} {
			v, ok := propdiff.LeadingNumber(e.Style(property))
			if !ok || v == 0 {
				continue
			}
			seen = true
			if math.Mod(v, spacingBaseUnit) != 0 {
				offGrid = true
			}
		}
		if !seen {
			continue
		}
		checked++
		if offGrid {
			violations++
		}
	}

	if checked == 0 {
		return nil
	}
	ratio := float64(violations) / float64(checked)
	if ratio <= spacingViolationRatio {
		return nil
	}

	return []model.SystemicIssue{{
		Type:           "spacing_system",
		Severity:       model.SeverityLow,
		Description:    fmt.Sprintf("%d of %d spaced elements (%.0f%%) have top margin/padding off the %.0fpx grid", violations, checked, ratio*100, spacingBaseUnit),
		Recommendation: fmt.Sprintf("Round vertical spacing to multiples of %.0fpx.", spacingBaseUnit),
	}}
}

// colorDrift flags pairs of distinct non-transparent text colors that
// sit within a near-duplicate perceptual distance of each other. Only
// the first near-duplicate per color is reported; further matches for
// the same color are deliberately not enumerated.
func (a *Auditor) colorDrift(elements []model.ElementSnapshot) []model.SystemicIssue {
	seen := make(map[string]bool)
	var colors []string
	for _, e := range elements {
		c := e.Style("color")
		if c == "" || seen[c] {
			continue
		}
		parsed, ok := propdiff.ParseColor(c)
		if !ok || parsed.A == 0 {
			continue
		}
		seen[c] = true
		colors = append(colors, c)
	}

	var issues []model.SystemicIssue
	for i := 0; i < len(colors); i++ {
		ci, _ := propdiff.ParseColor(colors[i])
		for j := i + 1; j < len(colors); j++ {
			cj, _ := propdiff.ParseColor(colors[j])
			d := propdiff.ColorDistance(ci, cj)
			if d > 0 && d < colorDriftThreshold {
				issues = append(issues, model.SystemicIssue{
					Type:           "color_drift",
					Severity:       model.SeverityLow,
					Description:    fmt.Sprintf("Text colors %s and %s are nearly identical (distance %.1f)", colors[i], colors[j], d),
					Recommendation: fmt.Sprintf("Consolidate %s and %s into a single palette token.", colors[i], colors[j]),
				})
				break
			}
		}
	}
	return issues
}
