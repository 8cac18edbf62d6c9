// ABOUTME: Client configuration
// ABOUTME: YAML file, .env and environment overrides with validation
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file
const (
	EnvServerURL   = "VOICECART_SERVER_URL"
	EnvCatalog     = "VOICECART_CATALOG"
	EnvMetricsAddr = "VOICECART_METRICS_ADDR"
)

// Config represents the complete client configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Audio     AudioConfig     `yaml:"audio"`
	Vision    VisionConfig    `yaml:"vision"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig describes the assistant channel
type ServerConfig struct {
	URL          string        `yaml:"url"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DiscoveryConfig controls mDNS lookup when no URL is set
type DiscoveryConfig struct {
	Enabled bool          `yaml:"enabled"`
	Service string        `yaml:"service"`
	Timeout time.Duration `yaml:"timeout"`
}

// AudioConfig contains device parameters
type AudioConfig struct {
	Backend     string `yaml:"backend"`      // malgo or oto
	BlockFrames int    `yaml:"block_frames"` // capture period in frames
	QueueDepth  int    `yaml:"queue_depth"`  // capture hand-off chunks

	// CaptureOnConnect starts the microphone whenever the session connects
	CaptureOnConnect bool `yaml:"capture_on_connect"`
}

// VisionConfig contains camera parameters
type VisionConfig struct {
	Dir      string        `yaml:"dir"`
	Interval time.Duration `yaml:"interval"`

	// CaptureOnConnect starts the camera loop whenever the session connects
	CaptureOnConnect bool `yaml:"capture_on_connect"`
}

// CatalogConfig locates the product inventory
type CatalogConfig struct {
	Path           string        `yaml:"path"`
	HighlightDelay time.Duration `yaml:"highlight_delay"`
}

// MetricsConfig contains the Prometheus listener
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			DialTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Discovery: DiscoveryConfig{
			Enabled: true,
			Service: "_voicecart-agent._tcp",
			Timeout: 3 * time.Second,
		},
		Audio: AudioConfig{
			Backend:     "malgo",
			BlockFrames: 4096,
			QueueDepth:  32,
		},
		Vision: VisionConfig{
			Interval: time.Second,
		},
		Catalog: CatalogConfig{
			Path:           "inventory.json",
			HighlightDelay: 5 * time.Second,
		},
	}
}

// Load reads the optional .env file and the config file at path, then
// applies environment overrides. An empty path uses defaults only.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.Metrics.Addr = v
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Discovery.Validate(); err != nil {
		return fmt.Errorf("discovery config: %w", err)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	if err := c.Vision.Validate(); err != nil {
		return fmt.Errorf("vision config: %w", err)
	}
	if err := c.Catalog.Validate(); err != nil {
		return fmt.Errorf("catalog config: %w", err)
	}
	return nil
}

// Validate validates server configuration. An empty URL is allowed when
// discovery will find one.
func (s *ServerConfig) Validate() error {
	if s.URL != "" {
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("url scheme must be ws or wss, got %q", u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("url has no host")
		}
	}
	if s.DialTimeout <= 0 {
		return fmt.Errorf("dial_timeout must be positive, got %v", s.DialTimeout)
	}
	if s.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive, got %v", s.WriteTimeout)
	}
	return nil
}

// Validate validates discovery configuration
func (d *DiscoveryConfig) Validate() error {
	if !d.Enabled {
		return nil
	}
	if d.Service == "" {
		return fmt.Errorf("service cannot be empty when discovery is enabled")
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", d.Timeout)
	}
	return nil
}

// Validate validates audio configuration
func (a *AudioConfig) Validate() error {
	switch a.Backend {
	case "malgo", "oto":
	default:
		return fmt.Errorf("backend must be malgo or oto, got %q", a.Backend)
	}
	if a.BlockFrames < 0 {
		return fmt.Errorf("block_frames cannot be negative, got %d", a.BlockFrames)
	}
	if a.QueueDepth < 1 {
		return fmt.Errorf("queue_depth must be at least 1, got %d", a.QueueDepth)
	}
	return nil
}

// Validate validates vision configuration
func (v *VisionConfig) Validate() error {
	if v.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", v.Interval)
	}
	if v.CaptureOnConnect && v.Dir == "" {
		return fmt.Errorf("capture_on_connect needs a frame dir")
	}
	return nil
}

// Validate validates catalog configuration
func (c *CatalogConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if c.HighlightDelay <= 0 {
		return fmt.Errorf("highlight_delay must be positive, got %v", c.HighlightDelay)
	}
	return nil
}
