package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port string `toml:"port"`
}

// Thresholds are the property-class tolerances for the differ. A zero
// threshold means "report any change"; there is deliberately no single
// global epsilon.
type Thresholds struct {
	PixelThreshold    float64 `toml:"pixel_threshold"`
	ColorThreshold    float64 `toml:"color_threshold"`
	FontSizeThreshold float64 `toml:"font_size_threshold"`
	LayoutThreshold   float64 `toml:"layout_threshold"`
}

// DefaultThresholds mirror what the capture UI ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PixelThreshold:    2,
		ColorThreshold:    10,
		FontSizeThreshold: 0.5,
		LayoutThreshold:   5,
	}
}

type ComparatorConfig struct {
	MaxElements int        `toml:"max_elements"`
	Thresholds  Thresholds `toml:"thresholds"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type EmailConfig struct {
	From    string `toml:"from"`
	Subject string `toml:"subject"`
}

type StorageConfig struct {
	ScreenshotDir string `toml:"screenshot_dir"`
}

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Comparator ComparatorConfig `toml:"comparator"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	LLM        LLMConfig        `toml:"llm"`
	Email      EmailConfig      `toml:"email"`
	Storage    StorageConfig    `toml:"storage"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in anything the file left at zero. The thresholds
// block is only defaulted wholesale when all four are unset, so setting
// one threshold explicitly to 0 alongside others keeps working.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Comparator.MaxElements == 0 {
		c.Comparator.MaxElements = 500
	}
	if c.Comparator.Thresholds == (Thresholds{}) {
		c.Comparator.Thresholds = DefaultThresholds()
	}
	if c.Storage.ScreenshotDir == "" {
		c.Storage.ScreenshotDir = "data/screenshots"
	}
	if c.Email.Subject == "" {
		c.Email.Subject = "Visual audit report"
	}
}
