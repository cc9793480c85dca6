package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matsen/venuerank/internal/core"
)

var (
	coreYear  int
	coreTitle string
)

var coreCmd = &cobra.Command{
	Use:   "core <venue>",
	Short: "Look up the CORE rank of a conference",
	Long: `Look up the CORE rank of a conference venue.

The venue may be an acronym ("ICML"), a full name, or a raw venue string as
printed in a citation ("Proc. 36th ICML 2019"). When --title is given the
venue is treated as an acronym and the title disambiguates acronyms shared by
several conferences.

The CORE edition is chosen from --year; without it the newest edition is
used.

Examples:
  venuerank core ICML --year 2019
  venuerank core "Proceedings of NeurIPS 2021" --human
  venuerank core ECCV --title "European Conference on Computer Vision"`,
	Args: cobra.ExactArgs(1),
	RunE: runCore,
}

func init() {
	coreCmd.Flags().IntVar(&coreYear, "year", 0, "Publication year (selects the CORE edition)")
	coreCmd.Flags().StringVar(&coreTitle, "title", "", "Full conference title for disambiguation")
	rootCmd.AddCommand(coreCmd)
}

// CoreResult is the JSON output for the core command.
type CoreResult struct {
	Venue   string     `json:"venue"`
	Year    int        `json:"year,omitempty"`
	Edition int        `json:"edition"`
	Match   core.Match `json:"match"`
}

func runCore(cmd *cobra.Command, args []string) error {
	parts, err := newPartitions()
	if err != nil {
		return err
	}
	if parts == nil {
		return withExit(ExitConfigError, errors.New("no CORE data: set core_dir in the config file or VENUERANK_CORE_DIR"))
	}

	ds, err := parts.ForYear(cmd.Context(), coreYear)
	if err != nil {
		return withExit(ExitDataError, err)
	}

	r := newCoreResolver()
	var m core.Match
	if coreTitle != "" {
		m = r.Resolve(ds, args[0], coreTitle)
	} else {
		m = r.ResolveRaw(ds, args[0])
	}

	result := CoreResult{Venue: args[0], Year: coreYear, Edition: ds.Edition, Match: m}
	if humanOutput {
		printCoreHuman(cmd.OutOrStdout(), result)
		return nil
	}
	return outputJSON(cmd.OutOrStdout(), result)
}

func printCoreHuman(w io.Writer, r CoreResult) {
	if r.Match.Rank == core.RankNA {
		fmt.Fprintf(w, "%s: N/A in CORE %d (%s)\n", r.Venue, r.Edition, r.Match.Stage)
		return
	}
	fmt.Fprintf(w, "%s: %s in CORE %d\n", r.Venue, r.Match.Rank, r.Edition)
	fmt.Fprintf(w, "  matched %s (%s) by %s", r.Match.Title, r.Match.Acronym, r.Match.Stage)
	if r.Match.Score > 0 {
		fmt.Fprintf(w, ", similarity %.2f", r.Match.Score)
	}
	fmt.Fprintln(w)
}
