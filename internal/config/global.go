package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "VENUERANK_"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/venuerank/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppDir, GlobalConfigFile)
}

// Load reads the config file at path on top of the defaults and then applies
// VENUERANK_* environment overrides. A missing file is not an error. An
// empty path means GlobalConfigPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GlobalConfigPath()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.CoreDir = ExpandPath(cfg.CoreDir)
	cfg.SJRDir = ExpandPath(cfg.SJRDir)
	cfg.PartitionsFile = ExpandPath(cfg.PartitionsFile)
	cfg.CacheDB = ExpandPath(cfg.CacheDB)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from .env files without overriding the
// environment. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("CORE_DIR", &cfg.CoreDir)
	str("SJR_DIR", &cfg.SJRDir)
	str("PARTITIONS_FILE", &cfg.PartitionsFile)
	str("CACHE_DB", &cfg.CacheDB)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("DBLP_BASE_URL", &cfg.DBLP.BaseURL)
	str("DBLP_USER_AGENT", &cfg.DBLP.UserAgent)

	var errs []error
	float := func(name string, dst *float64) {
		v := os.Getenv(EnvPrefix + name)
		if v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		*dst = f
	}
	integer := func(name string, dst *int) {
		v := os.Getenv(EnvPrefix + name)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		*dst = n
	}

	float("DBLP_RATE", &cfg.DBLP.Rate)
	integer("DBLP_SEARCH_LIMIT", &cfg.DBLP.SearchLimit)
	float("FUZZY_THRESHOLD", &cfg.Thresholds.Fuzzy)
	float("AMBIGUITY_THRESHOLD", &cfg.Thresholds.Ambiguity)
	float("MIN_NAME_SIMILARITY", &cfg.Thresholds.MinNameSimilarity)
	float("OVERLAP_SIMILARITY", &cfg.Thresholds.OverlapSimilarity)
	integer("MIN_OVERLAP", &cfg.Thresholds.MinOverlap)
	float("MIN_SCORE", &cfg.Thresholds.MinScore)
	integer("HUB_THRESHOLD", &cfg.Thresholds.HubThreshold)
	integer("MAX_VARIANTS", &cfg.Thresholds.MaxVariants)
	integer("MIN_PAGES", &cfg.Thresholds.MinPages)
	integer("CONCURRENCY", &cfg.Thresholds.Concurrency)

	if v := os.Getenv(EnvPrefix + "CACHE_MAX_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCACHE_MAX_AGE: %w", EnvPrefix, err))
		} else {
			cfg.CacheMaxAge = d
		}
	}

	return errors.Join(errs...)
}
