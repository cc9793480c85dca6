package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/venuerank/internal/dblp"
	"github.com/matsen/venuerank/internal/ranking"
)

var (
	profileSamples     []string
	profileSamplesFile string
	profileNoCache     bool
	profileFrom        int
	profileTo          int
)

var profileCmd = &cobra.Command{
	Use:   "profile <name>",
	Short: "Rank every publication of a DBLP author",
	Long: `Confirm an author's DBLP identity and rank their publication list.

Identity is resolved as in 'venuerank author'. The confirmed author's DBLP
records are mapped to publications (articles to journals, conference papers
to CORE with the acronym taken from the DBLP key) and ranked. Informal
records such as CoRR preprints are reported as UNKNOWN.

Examples:
  venuerank profile "Ada Lovelace" --samples known.jsonl
  venuerank profile "Wei Wang" --sample "Paper one" --sample "Paper two" --from 2018 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringArrayVar(&profileSamples, "sample", nil, "Title of a paper by the author (repeatable)")
	profileCmd.Flags().StringVar(&profileSamplesFile, "samples", "", "JSONL file of the author's publications (- for stdin)")
	profileCmd.Flags().BoolVar(&profileNoCache, "no-cache", false, "Bypass the DBLP response cache")
	profileCmd.Flags().IntVar(&profileFrom, "from", 0, "Only rank publications from this year on")
	profileCmd.Flags().IntVar(&profileTo, "to", 0, "Only rank publications up to this year")
	rootCmd.AddCommand(profileCmd)
}

// ProfileResult is the JSON output for the profile command.
type ProfileResult struct {
	Author  *dblp.Resolution `json:"author"`
	Results []ranking.Result `json:"results"`
	Summary ranking.Summary  `json:"summary"`
}

func runProfile(cmd *cobra.Command, args []string) error {
	samples, err := loadSamples(profileSamples, profileSamplesFile)
	if err != nil {
		return err
	}

	res, err := resolveAuthor(cmd.Context(), args[0], samples, profileNoCache)
	if err != nil {
		return err
	}
	if !res.Matched {
		if humanOutput {
			printResolutionHuman(cmd.OutOrStdout(), res)
		} else if err := outputJSON(cmd.OutOrStdout(), ProfileResult{Author: res, Results: []ranking.Result{}}); err != nil {
			return err
		}
		return withExit(ExitNotFound, fmt.Errorf("no DBLP author confirmed for %q", args[0]))
	}

	pubs := filterYears(dblp.MapRecords(res.Records), profileFrom, profileTo)
	res.Records = nil

	ranker, err := newRanker(0)
	if err != nil {
		return err
	}
	results, err := ranker.RankAll(cmd.Context(), pubs)
	if err != nil {
		return withExit(ExitDataError, err)
	}

	out := ProfileResult{Author: res, Results: results, Summary: ranking.Summarize(results)}
	if !humanOutput {
		return outputJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	printResolutionHuman(w, res)
	fmt.Fprintln(w)
	printResultsHuman(w, results)
	fmt.Fprintln(w)
	printSummaryHuman(w, out.Summary)
	return nil
}

// filterYears keeps publications within [from, to]; zero bounds are open.
// Publications without a year are kept only when no bound is set.
func filterYears(pubs []ranking.Publication, from, to int) []ranking.Publication {
	if from == 0 && to == 0 {
		return pubs
	}
	var out []ranking.Publication
	for _, p := range pubs {
		if p.Year == 0 {
			continue
		}
		if from > 0 && p.Year < from {
			continue
		}
		if to > 0 && p.Year > to {
			continue
		}
		out = append(out, p)
	}
	return out
}
