package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/venuerank/internal/core"
	"github.com/matsen/venuerank/internal/dblp"
	"github.com/matsen/venuerank/internal/ranking"
	"github.com/matsen/venuerank/internal/refdata"
	"github.com/matsen/venuerank/internal/sjr"
	"github.com/matsen/venuerank/internal/storage"
)

// mappingSet returns the user's partitions file if configured, else the
// embedded one.
func mappingSet() (*refdata.MappingSet, error) {
	if cfg.PartitionsFile != "" {
		set, err := refdata.LoadMappings(cfg.PartitionsFile)
		if err != nil {
			return nil, withExit(ExitConfigError, err)
		}
		return set, nil
	}
	set, err := refdata.DefaultMappings()
	if err != nil {
		return nil, withExit(ExitConfigError, err)
	}
	return set, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// newPartitions wires the CORE tables under cfg.CoreDir. It returns nil when
// the directory does not exist.
func newPartitions() (*core.Partitions, error) {
	if !dirExists(cfg.CoreDir) {
		appLogger.Warn("CORE data directory not found; conference ranking disabled", "dir", cfg.CoreDir)
		return nil, nil
	}
	set, err := mappingSet()
	if err != nil {
		return nil, err
	}
	return core.NewPartitions(set.Editions(), refdata.CoreLoader(cfg.CoreDir, set)), nil
}

func newCoreResolver() *core.Resolver {
	opts := []core.Option{
		core.WithFuzzyThreshold(cfg.Thresholds.Fuzzy),
		core.WithAmbiguityThreshold(cfg.Thresholds.Ambiguity),
		core.WithLogger(appLogger),
	}
	if len(cfg.Denylist) > 0 {
		opts = append(opts, core.WithDenylist(cfg.Denylist))
	}
	return core.NewResolver(opts...)
}

// newSJRResolver wires the SJR tables under cfg.SJRDir. It returns nil when
// the directory does not exist.
func newSJRResolver() *sjr.Resolver {
	if !dirExists(cfg.SJRDir) {
		appLogger.Warn("SJR data directory not found; journal ranking disabled", "dir", cfg.SJRDir)
		return nil
	}
	return sjr.NewResolver(refdata.SJRLoader(cfg.SJRDir),
		sjr.WithFuzzyThreshold(cfg.Thresholds.Fuzzy),
		sjr.WithLogger(appLogger))
}

// newRanker builds a Ranker over whichever reference data is available.
func newRanker(concurrency int) (*ranking.Ranker, error) {
	parts, err := newPartitions()
	if err != nil {
		return nil, err
	}
	var coreResolver *core.Resolver
	if parts != nil {
		coreResolver = newCoreResolver()
	}
	if concurrency <= 0 {
		concurrency = cfg.Thresholds.Concurrency
	}
	return ranking.NewRanker(parts, coreResolver, newSJRResolver(),
		ranking.WithMinPages(cfg.Thresholds.MinPages),
		ranking.WithConcurrency(concurrency),
		ranking.WithLogger(appLogger),
	), nil
}

// openCache opens the cache database, creating its directory.
func openCache() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.CacheDB), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := storage.OpenDB(cfg.CacheDB)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", cfg.CacheDB, err)
	}
	return db, nil
}

// newIdentityResolver builds a DBLP identity resolver. Lookups go through the
// cache unless noCache is set or no cache path is configured. The returned
// func releases the cache.
func newIdentityResolver(noCache bool) (*dblp.IdentityResolver, func(), error) {
	client := dblp.NewClient(
		dblp.WithBaseURL(cfg.DBLP.BaseURL),
		dblp.WithRate(cfg.DBLP.Rate),
		dblp.WithUserAgent(cfg.DBLP.UserAgent),
	)

	var source dblp.Source = client
	release := func() {}
	if !noCache && cfg.CacheDB != "" {
		db, err := openCache()
		if err != nil {
			return nil, nil, err
		}
		source = dblp.NewCachedSource(client, db, cfg.CacheMaxAge, appLogger)
		release = func() { db.Close() }
	}

	opts := []dblp.ResolverOption{
		dblp.WithThresholds(dblp.Thresholds{
			MinNameSimilarity: cfg.Thresholds.MinNameSimilarity,
			OverlapSimilarity: cfg.Thresholds.OverlapSimilarity,
			MinOverlap:        cfg.Thresholds.MinOverlap,
			MinScore:          cfg.Thresholds.MinScore,
			HubThreshold:      cfg.Thresholds.HubThreshold,
			MaxVariants:       cfg.Thresholds.MaxVariants,
		}),
		dblp.WithLogger(appLogger),
	}
	if cfg.DBLP.SearchLimit > 0 {
		opts = append(opts, dblp.WithSearchLimit(cfg.DBLP.SearchLimit))
	}
	return dblp.NewIdentityResolver(source, opts...), release, nil
}
