// Package config handles venuerank configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds data locations, DBLP client settings and matching thresholds.
// Zero-valued fields in a config file keep their defaults except where noted.
type Config struct {
	CoreDir        string        `yaml:"core_dir,omitempty" json:"core_dir,omitempty"`
	SJRDir         string        `yaml:"sjr_dir,omitempty" json:"sjr_dir,omitempty"`
	PartitionsFile string        `yaml:"partitions_file,omitempty" json:"partitions_file,omitempty"`
	CacheDB        string        `yaml:"cache_db,omitempty" json:"cache_db,omitempty"`
	CacheMaxAge    time.Duration `yaml:"cache_max_age,omitempty" json:"cache_max_age,omitempty"`
	LogLevel       string        `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	LogFormat      string        `yaml:"log_format,omitempty" json:"log_format,omitempty"`
	DBLP           DBLPConfig    `yaml:"dblp,omitempty" json:"dblp,omitempty"`
	Thresholds     Thresholds    `yaml:"thresholds,omitempty" json:"thresholds,omitempty"`
	Denylist       []string      `yaml:"denylist,omitempty" json:"denylist,omitempty"` // replaces the built-in CORE denylist when set
}

// DBLPConfig configures the DBLP client.
type DBLPConfig struct {
	BaseURL     string  `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Rate        float64 `yaml:"rate,omitempty" json:"rate,omitempty"` // requests per second, 0 disables limiting
	UserAgent   string  `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	SearchLimit int     `yaml:"search_limit,omitempty" json:"search_limit,omitempty"`
}

// Thresholds tune the venue and author matchers.
type Thresholds struct {
	Fuzzy             float64 `yaml:"fuzzy,omitempty" json:"fuzzy,omitempty"`
	Ambiguity         float64 `yaml:"ambiguity,omitempty" json:"ambiguity,omitempty"`
	MinNameSimilarity float64 `yaml:"min_name_similarity,omitempty" json:"min_name_similarity,omitempty"`
	OverlapSimilarity float64 `yaml:"overlap_similarity,omitempty" json:"overlap_similarity,omitempty"`
	MinOverlap        int     `yaml:"min_overlap,omitempty" json:"min_overlap,omitempty"`
	MinScore          float64 `yaml:"min_score,omitempty" json:"min_score,omitempty"`
	HubThreshold      int     `yaml:"hub_threshold,omitempty" json:"hub_threshold,omitempty"`
	MaxVariants       int     `yaml:"max_variants,omitempty" json:"max_variants,omitempty"`
	MinPages          int     `yaml:"min_pages" json:"min_pages"` // 0 disables the short-paper rule
	Concurrency       int     `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
}

const (
	// AppDir is the directory name used under the XDG base directories.
	AppDir = "venuerank"
	// CacheFile is the default cache database name.
	CacheFile = "cache.db"
	// DefaultCacheMaxAge bounds how long cached DBLP lookups are trusted.
	DefaultCacheMaxAge = 30 * 24 * time.Hour
)

// Default returns the built-in configuration.
func Default() *Config {
	data := DataDir()
	return &Config{
		CoreDir:     filepath.Join(data, "core"),
		SJRDir:      filepath.Join(data, "sjr"),
		CacheDB:     filepath.Join(CacheDir(), CacheFile),
		CacheMaxAge: DefaultCacheMaxAge,
		LogLevel:    "warn",
		LogFormat:   "text",
		DBLP: DBLPConfig{
			BaseURL:     "https://dblp.org",
			Rate:        1.0,
			UserAgent:   "venuerank/1.0 (+https://github.com/matsen/venuerank)",
			SearchLimit: 30,
		},
		Thresholds: Thresholds{
			Fuzzy:             0.90,
			Ambiguity:         0.85,
			MinNameSimilarity: 0.65,
			OverlapSimilarity: 0.85,
			MinOverlap:        2,
			MinScore:          2.5,
			HubThreshold:      3,
			MaxVariants:       12,
			MinPages:          4,
		},
	}
}

// Validate checks that thresholds are in range.
func (c *Config) Validate() error {
	t := c.Thresholds
	for name, v := range map[string]float64{
		"fuzzy":               t.Fuzzy,
		"ambiguity":           t.Ambiguity,
		"min_name_similarity": t.MinNameSimilarity,
		"overlap_similarity":  t.OverlapSimilarity,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("thresholds.%s must be within [0, 1], got %g", name, v)
		}
	}
	if t.MinOverlap < 0 || t.HubThreshold < 0 || t.MaxVariants < 0 || t.MinPages < 0 || t.Concurrency < 0 {
		return fmt.Errorf("integer thresholds must not be negative")
	}
	if t.MinScore < 0 {
		return fmt.Errorf("thresholds.min_score must not be negative, got %g", t.MinScore)
	}
	if c.DBLP.Rate < 0 {
		return fmt.Errorf("dblp.rate must not be negative, got %g", c.DBLP.Rate)
	}
	return nil
}

// DataDir returns $XDG_DATA_HOME/venuerank, defaulting to ~/.local/share.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// CacheDir returns $XDG_CACHE_HOME/venuerank, defaulting to ~/.cache.
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env string, fallback ...string) string {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return AppDir
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	return filepath.Join(base, AppDir)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
