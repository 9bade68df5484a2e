package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/parity/internal/config"
	"github.com/agenthands/parity/internal/core"
	"github.com/agenthands/parity/internal/core/model"
	"github.com/agenthands/parity/internal/report"
	"github.com/agenthands/parity/internal/screenshot"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	shots, err := screenshot.NewStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	return &Server{
		Config:      cfg,
		Comparator:  core.NewComparator(cfg.Comparator),
		Screenshots: shots,
		Email:       report.NewGenerator(cfg.Email, nil),
		captures:    make(map[string]model.Capture),
	}
}

func solidPNG(t *testing.T, w, h int, v byte) []byte {
	t.Helper()
	pix := make([]byte, w*h*4)
	for i := range pix {
		pix[i] = v
	}
	// Full alpha so PNG round-trips losslessly.
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
	data, err := screenshot.EncodePNG(model.Raster{Width: w, Height: h, Pixels: pix})
	require.NoError(t, err)
	return data
}

func TestHealth(t *testing.T) {
	r := testServer(t).SetupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCompareEndpoint(t *testing.T) {
	r := testServer(t).SetupRouter()

	body := CompareRequest{
		PageURL: "https://example.com",
		Live: model.Capture{Elements: []model.ElementSnapshot{
			{Selector: ".sidebar", Tag: "div", Styles: map[string]string{"display": "flex"}},
		}},
		Stage: model.Capture{Elements: []model.ElementSnapshot{
			{Selector: ".sidebar", Tag: "div", Styles: map[string]string{"display": "block"}},
		}},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result model.ComparisonReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, model.StatusFail, result.Summary.Status)
	assert.Equal(t, 1, result.Summary.TotalDifferences)
	assert.NotEmpty(t, result.Meta.RunID)
}

func TestCompareEndpoint_BadBody(t *testing.T) {
	r := testServer(t).SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func uploadCapture(t *testing.T, r http.Handler, env string, elements []model.ElementSnapshot, png []byte) string {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("environment", env))

	ef, err := mw.CreateFormFile("elements", "elements.json")
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(ef).Encode(elements))

	sf, err := mw.CreateFormFile("screenshot", "page.png")
	require.NoError(t, err)
	_, err = sf.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/captures", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		CaptureID string `json:"capture_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.CaptureID)
	return resp.CaptureID
}

func TestUploadAndCompareCaptures(t *testing.T) {
	srv := testServer(t)
	r := srv.SetupRouter()

	liveID := uploadCapture(t, r, "live",
		[]model.ElementSnapshot{{Selector: "h1", Tag: "h1", Styles: map[string]string{"fontSize": "32px"}}},
		solidPNG(t, 4, 4, 0))
	stageID := uploadCapture(t, r, "stage",
		[]model.ElementSnapshot{{Selector: "h1", Tag: "h1", Styles: map[string]string{"fontSize": "28px"}}},
		solidPNG(t, 4, 4, 200))

	raw, err := json.Marshal(CompareCapturesRequest{
		PageURL: "https://example.com",
		LiveID:  liveID,
		StageID: stageID,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/compare/captures", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result model.ComparisonReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Summary.TotalDifferences)
	assert.Equal(t, "fontSize", result.Differences[0].Property)
	assert.Equal(t, 16, result.VisualDiff.DiffPixelCount)

	// The uploaded screenshot is retrievable as a PNG.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/screenshots/"+liveID, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestCompareCaptures_UnknownID(t *testing.T) {
	r := testServer(t).SetupRouter()

	raw, _ := json.Marshal(CompareCapturesRequest{LiveID: "a", StageID: "b"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/compare/captures", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryEndpointsWithoutHistory(t *testing.T) {
	r := testServer(t).SetupRouter()

	for _, path := range []string{"/reports/some-id"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports?page_url=x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
