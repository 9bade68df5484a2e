package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/parity/internal/core/model"
	"github.com/agenthands/parity/internal/driver"
)

// RunRecord is the stored summary of one comparison run.
type RunRecord struct {
	RunID            string    `json:"run_id"`
	PageURL          string    `json:"page_url"`
	Status           string    `json:"status"`
	ComparedAt       time.Time `json:"compared_at"`
	TotalDifferences int       `json:"total_differences"`
	SystemicCount    int       `json:"systemic_count"`
}

// Store persists audit runs and their findings to the graph:
// (:Page)-[:HAS_RUN]->(:AuditRun)-[:FOUND]->(:Issue). The full report
// is kept as JSON on the run node so the email and explanation
// endpoints can rehydrate it without re-running the comparison.
type Store struct {
	Driver driver.GraphDriver
}

func NewStore(d driver.GraphDriver) *Store {
	return &Store{Driver: d}
}

// SaveReport writes the run, its page and every finding. The raster
// overlay is stripped before serialization; pixel blobs do not belong
// in graph properties.
func (s *Store) SaveReport(ctx context.Context, report model.ComparisonReport) error {
	stored := report
	stored.VisualDiff.DiffImage = nil

	reportJSON, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	runParams := map[string]interface{}{
		"uuid":              report.Meta.RunID,
		"page_url":          report.Meta.PageURL,
		"status":            string(report.Summary.Status),
		"compared_at":       report.Meta.ComparedAt,
		"total_differences": report.Summary.TotalDifferences,
		"systemic_count":    report.Summary.SystemicCount,
		"diff_pixel_count":  report.VisualDiff.DiffPixelCount,
		"report_json":       string(reportJSON),
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.SaveAuditRunQuery, runParams); err != nil {
		return fmt.Errorf("failed to save audit run: %w", err)
	}

	for _, d := range report.Differences {
		params := map[string]interface{}{
			"run_uuid":       report.Meta.RunID,
			"kind":           "difference",
			"type":           d.Property,
			"selector":       d.Selector,
			"severity":       string(d.Severity),
			"description":    fmt.Sprintf("%s: live=%q stage=%q", d.Property, d.LiveValue, d.StageValue),
			"recommendation": d.Recommendation,
		}
		if _, err := s.Driver.ExecuteQuery(ctx, driver.SaveIssueQuery, params); err != nil {
			return fmt.Errorf("failed to save difference issue: %w", err)
		}
	}

	for _, is := range report.SystemicIssues {
		params := map[string]interface{}{
			"run_uuid":       report.Meta.RunID,
			"kind":           "systemic",
			"type":           is.Type,
			"selector":       "",
			"severity":       string(is.Severity),
			"description":    is.Description,
			"recommendation": is.Recommendation,
		}
		if _, err := s.Driver.ExecuteQuery(ctx, driver.SaveIssueQuery, params); err != nil {
			return fmt.Errorf("failed to save systemic issue: %w", err)
		}
	}

	return nil
}

// GetReport loads the full stored report for a run.
func (s *Store) GetReport(ctx context.Context, runID string) (model.ComparisonReport, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.GetAuditRunQuery, map[string]interface{}{"uuid": runID})
	if err != nil {
		return model.ComparisonReport{}, err
	}
	if len(result.Records) == 0 {
		return model.ComparisonReport{}, fmt.Errorf("audit run %s not found", runID)
	}

	raw, _ := result.Records[0].Get("report_json")
	jsonStr, ok := raw.(string)
	if !ok || jsonStr == "" {
		return model.ComparisonReport{}, fmt.Errorf("audit run %s has no stored report", runID)
	}

	var report model.ComparisonReport
	if err := json.Unmarshal([]byte(jsonStr), &report); err != nil {
		return model.ComparisonReport{}, fmt.Errorf("failed to decode stored report: %w", err)
	}
	return report, nil
}

// RecentRuns lists the latest run summaries for a page, newest first.
func (s *Store) RecentRuns(ctx context.Context, pageURL string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	result, err := s.Driver.ExecuteQuery(ctx, driver.RecentAuditRunsQuery, map[string]interface{}{
		"page_url": pageURL,
		"limit":    limit,
	})
	if err != nil {
		return nil, err
	}

	runs := make([]RunRecord, 0, len(result.Records))
	for _, rec := range result.Records {
		runs = append(runs, recordToRun(rec))
	}
	return runs, nil
}

func recordToRun(rec *neo4j.Record) RunRecord {
	run := RunRecord{
		RunID:            getString(rec, "uuid"),
		PageURL:          getString(rec, "page_url"),
		Status:           getString(rec, "status"),
		TotalDifferences: getInt(rec, "total_differences"),
		SystemicCount:    getInt(rec, "systemic_count"),
	}
	if v, ok := rec.Get("compared_at"); ok {
		if ts, ok := v.(time.Time); ok {
			run.ComparedAt = ts
		}
	}
	return run
}

func getString(rec *neo4j.Record, key string) string {
	if v, ok := rec.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(rec *neo4j.Record, key string) int {
	if v, ok := rec.Get(key); ok {
		if n, ok := v.(int64); ok {
			return int(n)
		}
	}
	return 0
}
