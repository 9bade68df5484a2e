package history

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/parity/internal/core/model"
	"github.com/agenthands/parity/internal/driver"
)

// mockDriver records executed queries and replays canned results.
type mockDriver struct {
	queries []string
	params  []map[string]interface{}
	result  neo4j.EagerResult
	err     error
}

func (m *mockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.queries = append(m.queries, query)
	m.params = append(m.params, params)
	return m.result, m.err
}

func (m *mockDriver) BuildIndices(ctx context.Context) error { return nil }
func (m *mockDriver) Close(ctx context.Context) error        { return nil }

func sampleReport() model.ComparisonReport {
	return model.ComparisonReport{
		Summary: model.Summary{Status: model.StatusWarning, TotalDifferences: 1},
		Differences: []model.PropertyDifference{
			{Selector: "h1", Property: "fontSize", Severity: model.SeverityMedium,
				LiveValue: "32px", StageValue: "30px", Recommendation: "align"},
		},
		SystemicIssues: []model.SystemicIssue{
			{Type: "color_drift", Severity: model.SeverityLow, Description: "close colors"},
		},
		VisualDiff: model.RasterDiff{Width: 2, Height: 2, DiffImage: []byte{1, 2, 3, 4}, DiffPixelCount: 1},
		Meta:       model.Meta{RunID: "run-1", PageURL: "https://example.com", ComparedAt: time.Now().UTC()},
	}
}

func TestSaveReport_WritesRunAndIssues(t *testing.T) {
	d := &mockDriver{}
	store := NewStore(d)

	err := store.SaveReport(context.Background(), sampleReport())
	require.NoError(t, err)

	// One run write plus one issue per difference and systemic issue.
	require.Len(t, d.queries, 3)
	assert.Equal(t, driver.SaveAuditRunQuery, d.queries[0])
	assert.Equal(t, driver.SaveIssueQuery, d.queries[1])
	assert.Equal(t, driver.SaveIssueQuery, d.queries[2])

	assert.Equal(t, "run-1", d.params[0]["uuid"])
	assert.Equal(t, "warning", d.params[0]["status"])
	assert.Equal(t, "difference", d.params[1]["kind"])
	assert.Equal(t, "systemic", d.params[2]["kind"])
}

func TestSaveReport_StripsOverlayFromJSON(t *testing.T) {
	d := &mockDriver{}
	store := NewStore(d)

	require.NoError(t, store.SaveReport(context.Background(), sampleReport()))

	reportJSON := d.params[0]["report_json"].(string)
	assert.NotContains(t, reportJSON, "diff_image")
	// The count survives even though the pixels do not.
	assert.Contains(t, reportJSON, "diff_pixel_count")
}

func TestGetReport_RoundTrip(t *testing.T) {
	// First capture what SaveReport stored, then replay it via Get.
	d := &mockDriver{}
	store := NewStore(d)
	require.NoError(t, store.SaveReport(context.Background(), sampleReport()))
	stored := d.params[0]["report_json"].(string)

	d.result = neo4j.EagerResult{Records: []*neo4j.Record{{
		Keys:   []string{"uuid", "report_json"},
		Values: []interface{}{"run-1", stored},
	}}}

	report, err := store.GetReport(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.Meta.RunID)
	assert.Equal(t, model.StatusWarning, report.Summary.Status)
	assert.Equal(t, 1, report.VisualDiff.DiffPixelCount)
}

func TestGetReport_NotFound(t *testing.T) {
	store := NewStore(&mockDriver{})

	_, err := store.GetReport(context.Background(), "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestRecentRuns(t *testing.T) {
	ts := time.Now().UTC()
	d := &mockDriver{result: neo4j.EagerResult{Records: []*neo4j.Record{{
		Keys: []string{"uuid", "page_url", "status", "compared_at", "total_differences", "systemic_count"},
		Values: []interface{}{
			"run-2", "https://example.com", "pass", ts, int64(0), int64(0),
		},
	}}}}
	store := NewStore(d)

	runs, err := store.RecentRuns(context.Background(), "https://example.com", 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, "pass", runs[0].Status)
	assert.Equal(t, ts, runs[0].ComparedAt)
	assert.Equal(t, 5, d.params[0]["limit"])
}
