package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agenthands/parity/internal/core/model"
	"github.com/agenthands/parity/internal/report"
	"github.com/agenthands/parity/internal/screenshot"
)

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "history": s.History != nil})
}

type CompareRequest struct {
	PageURL string        `json:"page_url"`
	Live    model.Capture `json:"live"`
	Stage   model.Capture `json:"stage"`
}

func (s *Server) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result := s.Comparator.Compare(req.PageURL, req.Live, req.Stage)
	result.Meta.RunID = uuid.New().String()

	s.persistReport(c, result)

	c.JSON(http.StatusOK, result)
}

func (s *Server) UploadCapture(c *gin.Context) {
	elementsFile, err := c.FormFile("elements")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing elements part"})
		return
	}
	screenshotFile, err := c.FormFile("screenshot")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing screenshot part"})
		return
	}

	f, err := elementsFile.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read elements"})
		return
	}
	defer f.Close()

	elementsJSON, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read elements"})
		return
	}
	var elements []model.ElementSnapshot
	if err := json.Unmarshal(elementsJSON, &elements); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid elements JSON"})
		return
	}

	sf, err := screenshotFile.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read screenshot"})
		return
	}
	defer sf.Close()

	raster, err := screenshot.DecodePNG(sf)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid screenshot PNG"})
		return
	}

	id := uuid.New().String()
	if err := s.Screenshots.Save(id, raster); err != nil {
		log.Printf("Failed to persist screenshot %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store screenshot"})
		return
	}

	s.storeCapture(id, model.Capture{Elements: elements, Raster: raster})

	c.JSON(http.StatusOK, gin.H{
		"capture_id":  id,
		"environment": c.PostForm("environment"),
		"elements":    len(elements),
		"width":       raster.Width,
		"height":      raster.Height,
	})
}

type CompareCapturesRequest struct {
	PageURL string `json:"page_url"`
	LiveID  string `json:"live_id"`
	StageID string `json:"stage_id"`
}

func (s *Server) CompareCaptures(c *gin.Context) {
	var req CompareCapturesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	live, ok := s.getCapture(req.LiveID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown live capture"})
		return
	}
	stage, ok := s.getCapture(req.StageID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown stage capture"})
		return
	}

	result := s.Comparator.Compare(req.PageURL, live, stage)
	result.Meta.RunID = uuid.New().String()

	s.persistReport(c, result)

	c.JSON(http.StatusOK, result)
}

// persistReport is best effort: a history outage must not block the
// caller from getting their report.
func (s *Server) persistReport(c *gin.Context, result model.ComparisonReport) {
	if s.History == nil {
		return
	}
	if err := s.History.SaveReport(c.Request.Context(), result); err != nil {
		log.Printf("Failed to persist report %s: %v", result.Meta.RunID, err)
	}
}

func (s *Server) GetScreenshot(c *gin.Context) {
	raster, err := s.Screenshots.Load(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Screenshot not found"})
		return
	}
	data, err := screenshot.EncodePNG(raster)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode screenshot"})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) ListReports(c *gin.Context) {
	if s.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is disabled"})
		return
	}
	pageURL := c.Query("page_url")
	if pageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_url is required"})
		return
	}

	runs, err := s.History.RecentRuns(c.Request.Context(), pageURL, 10)
	if err != nil {
		log.Printf("Failed to list runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) GetReport(c *gin.Context) {
	if s.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is disabled"})
		return
	}

	result, err := s.History.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) ExplainReport(c *gin.Context) {
	if s.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is disabled"})
		return
	}

	result, err := s.History.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	explanation, err := s.Explainer.Explain(c.Request.Context(), result)
	if err != nil {
		log.Printf("Failed to explain report %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate explanation"})
		return
	}
	c.JSON(http.StatusOK, explanation)
}

type EmailRequest struct {
	Accessibility *report.AccessibilityResult `json:"accessibility,omitempty"`
	Performance   *report.PerformanceResult   `json:"performance,omitempty"`
}

func (s *Server) EmailReport(c *gin.Context) {
	if s.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is disabled"})
		return
	}

	result, err := s.History.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	// Optional external engine results ride along in the body.
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var sections []report.Section
	if req.Accessibility != nil {
		sections = append(sections, report.FormatAccessibility(*req.Accessibility))
	}
	if req.Performance != nil {
		sections = append(sections, report.FormatPerformance(*req.Performance))
	}

	email, err := s.Email.Render(c.Request.Context(), result, nil, sections)
	if err != nil {
		log.Printf("Failed to render email for %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render email"})
		return
	}
	c.JSON(http.StatusOK, email)
}
