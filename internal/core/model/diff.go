package model

// MatchType records how a live/stage pair was established.
type MatchType string

const (
	MatchSelector MatchType = "selector"
	MatchIndex    MatchType = "index"
)

// MatchedPair is a live/stage element pairing believed to represent the
// same UI element across environments. Built by the matcher only.
type MatchedPair struct {
	Live      ElementSnapshot `json:"live"`
	Stage     ElementSnapshot `json:"stage"`
	MatchType MatchType       `json:"match_type"`
}

// Severity levels for reported findings.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Category buckets for property differences.
type Category string

const (
	CategoryTypography Category = "typography"
	CategoryColor      Category = "color"
	CategorySpacing    Category = "spacing"
	CategoryLayout     Category = "layout"
	CategoryImage      Category = "image"
	CategoryContent    Category = "content"
	CategoryOther      Category = "other"
)

// PropertyDifference is one tracked property that differs beyond its
// tolerance for one matched pair.
type PropertyDifference struct {
	Selector       string   `json:"selector"`
	Category       Category `json:"category"`
	Property       string   `json:"property"`
	LiveValue      string   `json:"live_value"`
	StageValue     string   `json:"stage_value"`
	LiveRect       Rect     `json:"live_rect"`
	StageRect      Rect     `json:"stage_rect"`
	Section        string   `json:"section"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation"`
}

// SystemicIssue is a design-consistency finding computed over a whole
// snapshot, independent of any pairing.
type SystemicIssue struct {
	Type           string   `json:"type"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
}
