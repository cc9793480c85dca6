package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matsen/venuerank/internal/ranking"
	"github.com/matsen/venuerank/internal/storage"
)

var (
	rankConcurrency int
	rankSummary     bool
)

var rankCmd = &cobra.Command{
	Use:   "rank [file]",
	Short: "Rank a JSONL stream of publications",
	Long: `Rank every publication in a JSONL file (or stdin).

Each input line is a publication record:
  {"title": "...", "venue": "ICML", "acronym": "ICML", "year": 2019,
   "pages": 10, "key": "conf/icml/X19", "kind": "conference"}

Only title and venue are needed; kind is guessed from the venue when absent.
Conference papers get a CORE rank, journal articles an SJR quartile. A paper
that repeats an earlier ranked record (same key or same title) is reported
as a duplicate with rank N/A.

Output is one JSON result per line, or a rank summary with --summary.

Examples:
  venuerank rank papers.jsonl
  cat papers.jsonl | venuerank rank --summary --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRank,
}

func init() {
	rankCmd.Flags().IntVarP(&rankConcurrency, "concurrency", "j", 0, "Publications resolved in parallel (default: config or CPU count)")
	rankCmd.Flags().BoolVar(&rankSummary, "summary", false, "Print rank counts instead of per-publication results")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	pubs, err := storage.ReadPublications(path)
	if err != nil {
		return withExit(ExitDataError, err)
	}

	ranker, err := newRanker(rankConcurrency)
	if err != nil {
		return err
	}
	return rankAndWrite(cmd.Context(), cmd.OutOrStdout(), ranker, pubs, rankSummary)
}

// rankAndWrite ranks pubs and writes results or their summary in the
// selected output format.
func rankAndWrite(ctx context.Context, w io.Writer, ranker *ranking.Ranker, pubs []ranking.Publication, summaryOnly bool) error {
	results, err := ranker.RankAll(ctx, pubs)
	if err != nil {
		return withExit(ExitDataError, err)
	}
	appLogger.Info("ranked publications", "count", len(results))

	summary := ranking.Summarize(results)
	switch {
	case summaryOnly && humanOutput:
		printSummaryHuman(w, summary)
	case summaryOnly:
		return outputJSON(w, summary)
	case humanOutput:
		printResultsHuman(w, results)
		fmt.Fprintln(w)
		printSummaryHuman(w, summary)
	default:
		return storage.WriteJSONL(w, results)
	}
	return nil
}
