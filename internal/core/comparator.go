package core

import (
	"time"

	"github.com/agenthands/parity/internal/config"
	"github.com/agenthands/parity/internal/core/match"
	"github.com/agenthands/parity/internal/core/model"
	"github.com/agenthands/parity/internal/core/propdiff"
	"github.com/agenthands/parity/internal/core/raster"
	"github.com/agenthands/parity/internal/core/systemic"
)

// Comparator is the visual & layout comparison engine: it matches
// elements across two captures, diffs matched pairs property by
// property, diffs the page rasters pixel by pixel, audits the stage
// snapshot for systemic design issues and assembles one report.
//
// It holds no per-run state, so one Comparator can serve concurrent
// comparisons. Both captures must be fully materialized before Compare
// is called; coordinating concurrent capture is the caller's job.
type Comparator struct {
	MaxElements int
	Matcher     *match.Matcher
	Differ      *propdiff.Differ
	Raster      *raster.Differ
	Auditor     *systemic.Auditor
}

func NewComparator(cfg config.ComparatorConfig) *Comparator {
	return &Comparator{
		MaxElements: cfg.MaxElements,
		Matcher:     match.NewMatcher(),
		Differ:      propdiff.NewDiffer(cfg.Thresholds),
		Raster:      raster.NewDiffer(),
		Auditor:     systemic.NewAuditor(),
	}
}

// Compare runs the full pipeline: match, property diff, raster diff,
// systemic audit, assemble. Synchronous and CPU-bound; it never fails,
// per-value parse problems surface as differences instead.
func (c *Comparator) Compare(pageURL string, live, stage model.Capture) model.ComparisonReport {
	liveElements := c.cap(live.Elements)
	stageElements := c.cap(stage.Elements)

	pairs := c.Matcher.Match(liveElements, stageElements)

	differences := make([]model.PropertyDifference, 0)
	for _, pair := range pairs {
		differences = append(differences, c.Differ.Diff(pair)...)
	}

	visual := c.Raster.Diff(live.Raster, stage.Raster)

	// Systemic heuristics look at what is about to ship, so they run
	// on the stage snapshot, unmatched elements included.
	issues := c.Auditor.Audit(stageElements)

	meta := model.Meta{
		PageURL:       pageURL,
		ComparedAt:    time.Now().UTC(),
		LiveElements:  len(liveElements),
		StageElements: len(stageElements),
		MatchedPairs:  len(pairs),
	}

	return Assemble(differences, issues, visual, meta)
}

// cap enforces the configured element limit. Matching is O(n*m), so
// unbounded captures would make worst-case cost unpredictable.
func (c *Comparator) cap(elements []model.ElementSnapshot) []model.ElementSnapshot {
	if c.MaxElements > 0 && len(elements) > c.MaxElements {
		return elements[:c.MaxElements]
	}
	return elements
}
