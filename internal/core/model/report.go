package model

import "time"

// RasterDiff is the pixel-level comparison of the two page rasters
// after dimension normalization. Dimensions are the max of the two
// inputs; DiffImage is an RGBA overlay highlighting changed pixels.
type RasterDiff struct {
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	DiffImage      []byte `json:"diff_image,omitempty"`
	DiffPixelCount int    `json:"diff_pixel_count"`
}

// Status classifies a comparison run.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
)

// Summary holds the aggregate counts for a run.
type Summary struct {
	TotalDifferences int              `json:"total_differences"`
	BySeverity       map[Severity]int `json:"by_severity"`
	ByCategory       map[Category]int `json:"by_category"`
	SystemicCount    int              `json:"systemic_count"`
	AffectedSections []string         `json:"affected_sections"`
	Status           Status           `json:"status"`
}

// Meta describes the run itself rather than its findings.
type Meta struct {
	RunID         string    `json:"run_id,omitempty"`
	PageURL       string    `json:"page_url,omitempty"`
	ComparedAt    time.Time `json:"compared_at"`
	LiveElements  int       `json:"live_elements"`
	StageElements int       `json:"stage_elements"`
	MatchedPairs  int       `json:"matched_pairs"`
}

// ComparisonReport is the full output of one comparator run.
type ComparisonReport struct {
	Summary        Summary              `json:"summary"`
	Differences    []PropertyDifference `json:"differences"`
	SystemicIssues []SystemicIssue      `json:"systemic_issues"`
	VisualDiff     RasterDiff           `json:"visual_diff"`
	Meta           Meta                 `json:"meta"`
}
