package core

import (
	"sort"

	"github.com/agenthands/parity/internal/core/model"
)

// warningDifferenceBound: more reported differences than this, without
// anything critical, still downgrades a run from pass to warning.
const warningDifferenceBound = 3

// Assemble merges property differences, systemic issues and the raster
// summary into one report with aggregate counts and a classification.
func Assemble(differences []model.PropertyDifference, issues []model.SystemicIssue, visual model.RasterDiff, meta model.Meta) model.ComparisonReport {
	bySeverity := make(map[model.Severity]int)
	byCategory := make(map[model.Category]int)
	sections := make(map[string]bool)

	for _, d := range differences {
		bySeverity[d.Severity]++
		byCategory[d.Category]++
		if d.Section != "" {
			sections[d.Section] = true
		}
	}

	affected := make([]string, 0, len(sections))
	for s := range sections {
		affected = append(affected, s)
	}
	sort.Strings(affected)

	summary := model.Summary{
		TotalDifferences: len(differences),
		BySeverity:       bySeverity,
		ByCategory:       byCategory,
		SystemicCount:    len(issues),
		AffectedSections: affected,
		Status:           classify(bySeverity[model.SeverityCritical], len(differences), len(issues)),
	}

	return model.ComparisonReport{
		Summary:        summary,
		Differences:    differences,
		SystemicIssues: issues,
		VisualDiff:     visual,
		Meta:           meta,
	}
}

// classify turns the counts into a pass/warning/fail verdict. Critical
// structural differences and systemic design issues fail the run;
// a pile of smaller differences is a warning; otherwise it passes.
func classify(criticalCount, totalDifferences, systemicCount int) model.Status {
	if criticalCount > 0 || systemicCount > 0 {
		return model.StatusFail
	}
	if totalDifferences > warningDifferenceBound {
		return model.StatusWarning
	}
	return model.StatusPass
}
