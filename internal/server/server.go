package server

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/parity/internal/config"
	"github.com/agenthands/parity/internal/core"
	"github.com/agenthands/parity/internal/core/model"
	"github.com/agenthands/parity/internal/driver"
	"github.com/agenthands/parity/internal/explain"
	"github.com/agenthands/parity/internal/history"
	"github.com/agenthands/parity/internal/llm"
	"github.com/agenthands/parity/internal/report"
	"github.com/agenthands/parity/internal/screenshot"
)

type Server struct {
	Config      *config.Config
	Comparator  *core.Comparator
	History     *history.Store
	Screenshots *screenshot.Store
	Explainer   *explain.Explainer
	Email       *report.Generator

	// Uploaded captures waiting to be compared, keyed by capture id.
	// Screenshots are durable on disk; the element lists live here.
	mu       sync.RWMutex
	captures map[string]model.Capture
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Falling back to defaults.", cfgPath, err)
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	// Env overrides win over the file (simple override logic).
	if uri := os.Getenv("MEMGRAPH_URI"); uri != "" {
		cfg.Memgraph.URI = uri
	}
	if user := os.Getenv("MEMGRAPH_USER"); user != "" {
		cfg.Memgraph.User = user
	}
	if pass := os.Getenv("MEMGRAPH_PASSWORD"); pass != "" {
		cfg.Memgraph.Password = pass
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	// Default to Ollama if provider is empty
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = "gpt-oss:latest"
		}
	}

	var store *history.Store
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			log.Fatalf("Failed to connect to Memgraph: %v", err)
		}
		if err := d.BuildIndices(context.Background()); err != nil {
			log.Printf("Warning: failed to build history indices: %v", err)
		}
		store = history.NewStore(d)
	} else {
		log.Println("MEMGRAPH_URI not set; audit history disabled")
	}

	screenshots, err := screenshot.NewStore(cfg.Storage.ScreenshotDir)
	if err != nil {
		log.Fatalf("Failed to initialize screenshot storage: %v", err)
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	return &Server{
		Config:      cfg,
		Comparator:  core.NewComparator(cfg.Comparator),
		History:     store,
		Screenshots: screenshots,
		Explainer:   explain.NewExplainer(llmClient),
		Email:       report.NewGenerator(cfg.Email, llm.NewImpactRanker(llmClient)),
		captures:    make(map[string]model.Capture),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)

	r.POST("/compare", s.Compare)
	r.POST("/captures", s.UploadCapture)
	r.POST("/compare/captures", s.CompareCaptures)

	r.GET("/screenshots/:id", s.GetScreenshot)
	r.GET("/reports", s.ListReports)
	r.GET("/reports/:id", s.GetReport)
	r.POST("/reports/:id/explain", s.ExplainReport)
	r.POST("/reports/:id/email", s.EmailReport)

	return r
}

func (s *Server) storeCapture(id string, capture model.Capture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captures[id] = capture
}

func (s *Server) getCapture(id string) (model.Capture, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.captures[id]
	return c, ok
}
