package config

import (
	"fmt"
	"os"
	"time"

	"github.com/meur/iconforge/internal/compose"
	"github.com/meur/iconforge/internal/icons"
	"github.com/meur/iconforge/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultCDNURL is the icon host the service was built against
const DefaultCDNURL = "https://freefiremobile-a.akamaihd.net/common/Local/PK/FF_UI_Icon"

// Server holds all configuration for the icon server.
type Server struct {
	Port       string `yaml:"port"`
	AssetsFile string `yaml:"assets_file"`
	CatalogDB  string `yaml:"catalog_db"` // when set, the index is loaded from SQLite

	// CDN
	CDNURL       string        `yaml:"cdn_url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Rendering
	Backgrounds map[models.Rarity]string `yaml:"backgrounds"`
	Watermark   Watermark                `yaml:"watermark"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text or json

	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Watermark configures the stamped text
type Watermark struct {
	Text string  `yaml:"text"`
	Font string  `yaml:"font"` // empty selects the embedded Go Regular face
	Size float64 `yaml:"size"` // points at 72 DPI
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		Port:         "5019",
		AssetsFile:   "assets.txt",
		CDNURL:       DefaultCDNURL,
		FetchTimeout: icons.DefaultFetchTimeout,
		Backgrounds:  compose.DefaultBackgrounds(),
		Watermark: Watermark{
			Text: "Tanhung11231",
			Font: "arial.ttf",
			Size: 20,
		},
		LogLevel:       "info",
		LogFormat:      "text",
		AllowedOrigins: []string{"*"},
	}
}

// LoadServer loads server config from a YAML file on top of the defaults.
// An empty path or a missing file yields the defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	// backgrounds are decoded on their own so "blue" cannot sit next to the default "BLUE"
	cfg.Backgrounds = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		cfg.Backgrounds = compose.DefaultBackgrounds()
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Backgrounds = overlayBackgrounds(compose.DefaultBackgrounds(), cfg.Backgrounds)

	return cfg, nil
}

// overlayBackgrounds writes the normalized entries of overrides onto base
func overlayBackgrounds(base, overrides map[models.Rarity]string) map[models.Rarity]string {
	for rarity, path := range compose.NormalizeBackgrounds(overrides) {
		base[rarity] = path
	}
	return base
}

// ApplyEnv overrides fields from environment variables that are set and non-empty.
func (c *Server) ApplyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"PORT":           &c.Port,
		"ASSETS_FILE":    &c.AssetsFile,
		"CATALOG_DB":     &c.CatalogDB,
		"CDN_URL":        &c.CDNURL,
		"WATERMARK_TEXT": &c.Watermark.Text,
		"WATERMARK_FONT": &c.Watermark.Font,
		"LOG_LEVEL":      &c.LogLevel,
		"LOG_FORMAT":     &c.LogFormat,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	if v := getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FETCH_TIMEOUT: %w", err)
		}
		c.FetchTimeout = d
	}
	return nil
}
