package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/venuerank/internal/storage"
)

var cacheNamespace string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the DBLP response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entries per namespace",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cached DBLP responses",
	Long: `Delete cached DBLP responses.

Without --namespace every entry is removed. Namespaces:
  search  author search results
  person  per-author publication lists`,
	Args: cobra.NoArgs,
	RunE: runCachePurge,
}

func init() {
	cachePurgeCmd.Flags().StringVar(&cacheNamespace, "namespace", "", "Only purge this namespace (search, person)")
	cacheCmd.AddCommand(cacheStatsCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

// CacheStatsResponse is the JSON output for cache stats.
type CacheStatsResponse struct {
	Path       string                   `json:"path"`
	Namespaces []storage.NamespaceStats `json:"namespaces"`
}

// CachePurgeResponse is the JSON output for cache purge.
type CachePurgeResponse struct {
	Namespace string `json:"namespace,omitempty"`
	Deleted   int64  `json:"deleted"`
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	db, err := openCache()
	if err != nil {
		return withExit(ExitConfigError, err)
	}
	defer db.Close()

	stats, err := db.Stats()
	if err != nil {
		return err
	}
	if stats == nil {
		stats = []storage.NamespaceStats{}
	}

	if !humanOutput {
		return outputJSON(cmd.OutOrStdout(), CacheStatsResponse{Path: cfg.CacheDB, Namespaces: stats})
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Cache: %s\n", cfg.CacheDB)
	if len(stats) == 0 {
		fmt.Fprintln(w, "  (empty)")
	}
	for _, s := range stats {
		fmt.Fprintf(w, "  %-8s %6d entries, %s to %s\n", s.Namespace, s.Entries,
			s.Oldest.Format("2006-01-02"), s.Newest.Format("2006-01-02"))
	}
	return nil
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	switch cacheNamespace {
	case "", storage.NamespaceSearch, storage.NamespacePerson:
	default:
		return fmt.Errorf("unknown namespace %q (valid: %s, %s)", cacheNamespace, storage.NamespaceSearch, storage.NamespacePerson)
	}

	db, err := openCache()
	if err != nil {
		return withExit(ExitConfigError, err)
	}
	defer db.Close()

	n, err := db.Purge(cacheNamespace)
	if err != nil {
		return err
	}

	if humanOutput {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d cached entries\n", n)
		return nil
	}
	return outputJSON(cmd.OutOrStdout(), CachePurgeResponse{Namespace: cacheNamespace, Deleted: n})
}
