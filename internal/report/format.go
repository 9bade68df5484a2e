package report

import "fmt"

// Section is one extra block in the report email. The audit pipeline
// can attach results from external accessibility/performance engines;
// this package only formats them, it never runs the engines.
type Section struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// AccessibilityViolation is the subset of an external accessibility
// engine's finding we care to surface.
type AccessibilityViolation struct {
	RuleID      string `json:"rule_id"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
	Nodes       int    `json:"nodes"`
}

// AccessibilityResult is what the external engine hands the caller.
type AccessibilityResult struct {
	Violations []AccessibilityViolation `json:"violations"`
}

// PerformanceResult carries the headline metrics from an external
// performance engine, in milliseconds unless noted.
type PerformanceResult struct {
	Score                  float64 `json:"score"` // 0..1
	FirstContentfulPaint   float64 `json:"first_contentful_paint"`
	LargestContentfulPaint float64 `json:"largest_contentful_paint"`
	TotalBlockingTime      float64 `json:"total_blocking_time"`
	CumulativeLayoutShift  float64 `json:"cumulative_layout_shift"` // unitless
}

// FormatAccessibility turns engine output into an email section.
func FormatAccessibility(result AccessibilityResult) Section {
	s := Section{Title: "Accessibility"}
	if len(result.Violations) == 0 {
		s.Lines = []string{"No violations reported."}
		return s
	}
	for _, v := range result.Violations {
		s.Lines = append(s.Lines, fmt.Sprintf("%s (%s): %s — %d elements", v.RuleID, v.Impact, v.Description, v.Nodes))
	}
	return s
}

// FormatPerformance turns engine metrics into an email section.
func FormatPerformance(result PerformanceResult) Section {
	return Section{
		Title: "Performance",
		Lines: []string{
			fmt.Sprintf("Score: %.0f/100", result.Score*100),
			fmt.Sprintf("First contentful paint: %.0fms", result.FirstContentfulPaint),
			fmt.Sprintf("Largest contentful paint: %.0fms", result.LargestContentfulPaint),
			fmt.Sprintf("Total blocking time: %.0fms", result.TotalBlockingTime),
			fmt.Sprintf("Cumulative layout shift: %.3f", result.CumulativeLayoutShift),
		},
	}
}
