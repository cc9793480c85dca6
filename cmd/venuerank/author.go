package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/venuerank/internal/author"
	"github.com/matsen/venuerank/internal/dblp"
	"github.com/matsen/venuerank/internal/storage"
)

var (
	authorSamples     []string
	authorSamplesFile string
	authorNoCache     bool
	authorRecords     bool
)

var authorCmd = &cobra.Command{
	Use:   "author <name>",
	Short: "Find an author's DBLP record",
	Long: `Find the DBLP person matching an author name.

Candidates from the DBLP author search are checked against sample paper
titles the author is known to have written. A candidate is accepted only when
at least two samples appear among its publications. Homonym disambiguation
pages are expanded into their numbered variants.

The name may be given as "First Last" or "Last, First".

Samples come from repeated --sample flags or from a JSONL file of
publication records (the same format the rank command reads).

Examples:
  venuerank author "Wei Wang" --sample "Paper one" --sample "Paper two"
  venuerank author "Ada Lovelace" --samples papers.jsonl --human`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthor,
}

func init() {
	authorCmd.Flags().StringArrayVar(&authorSamples, "sample", nil, "Title of a paper by the author (repeatable)")
	authorCmd.Flags().StringVar(&authorSamplesFile, "samples", "", "JSONL file of the author's publications (- for stdin)")
	authorCmd.Flags().BoolVar(&authorNoCache, "no-cache", false, "Bypass the DBLP response cache")
	authorCmd.Flags().BoolVar(&authorRecords, "records", false, "Include the matched author's publication records")
	rootCmd.AddCommand(authorCmd)
}

func runAuthor(cmd *cobra.Command, args []string) error {
	samples, err := loadSamples(authorSamples, authorSamplesFile)
	if err != nil {
		return err
	}

	res, err := resolveAuthor(cmd.Context(), args[0], samples, authorNoCache)
	if err != nil {
		return err
	}
	if !authorRecords {
		res.Records = nil
	}

	if humanOutput {
		printResolutionHuman(cmd.OutOrStdout(), res)
	} else if err := outputJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if !res.Matched {
		return withExit(ExitNotFound, fmt.Errorf("no DBLP author confirmed for %q", args[0]))
	}
	return nil
}

// resolveAuthor runs identity resolution. A rate-limited run is an error;
// an unconfirmed author is not.
func resolveAuthor(ctx context.Context, name string, samples []dblp.Sample, noCache bool) (*dblp.Resolution, error) {
	name = author.ParseName(name).String()
	if name == "" {
		return nil, errors.New("author name is empty")
	}
	if len(samples) == 0 {
		return nil, errors.New("no sample titles: use --sample or --samples")
	}

	resolver, release, err := newIdentityResolver(noCache)
	if err != nil {
		return nil, withExit(ExitConfigError, err)
	}
	defer release()

	res, err := resolver.Resolve(ctx, name, samples)
	if err != nil {
		if dblp.IsRateLimited(err) {
			return nil, fmt.Errorf("DBLP rate limit reached, retry later: %w", err)
		}
		return nil, err
	}
	return res, nil
}

// loadSamples merges --sample titles with the records in path.
func loadSamples(titles []string, path string) ([]dblp.Sample, error) {
	var samples []dblp.Sample
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			samples = append(samples, dblp.Sample{Title: t})
		}
	}
	if path == "" {
		return samples, nil
	}

	pubs, err := storage.ReadPublications(path)
	if err != nil {
		return nil, withExit(ExitDataError, err)
	}
	for _, p := range pubs {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		samples = append(samples, dblp.Sample{Title: p.Title, Year: p.Year})
	}
	return samples, nil
}
