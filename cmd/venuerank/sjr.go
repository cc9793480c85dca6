package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/venuerank/internal/sjr"
)

var sjrYear int

var sjrCmd = &cobra.Command{
	Use:   "sjr <journal>",
	Short: "Look up the SJR quartile of a journal",
	Long: `Look up the SJR best quartile of a journal.

Journal names are matched after abbreviation expansion ("J." -> journal,
"Trans." -> transactions), so both full and abbreviated names work. The
quartile is taken from --year, or the nearest earlier year with data.

Examples:
  venuerank sjr "Bioinformatics" --year 2020
  venuerank sjr "IEEE Trans. Pattern Anal. Mach. Intell." --human`,
	Args: cobra.ExactArgs(1),
	RunE: runSJR,
}

func init() {
	sjrCmd.Flags().IntVar(&sjrYear, "year", 0, "Publication year (default: most recent year with data)")
	rootCmd.AddCommand(sjrCmd)
}

// SJRResult is the JSON output for the sjr command.
type SJRResult struct {
	Journal string     `json:"journal"`
	Year    int        `json:"year,omitempty"`
	Result  sjr.Result `json:"result"`
}

func runSJR(cmd *cobra.Command, args []string) error {
	r := newSJRResolver()
	if r == nil {
		return withExit(ExitConfigError, errors.New("no SJR data: set sjr_dir in the config file or VENUERANK_SJR_DIR"))
	}

	res, err := r.Resolve(cmd.Context(), args[0], sjrYear)
	if err != nil {
		return withExit(ExitDataError, err)
	}

	out := SJRResult{Journal: args[0], Year: sjrYear, Result: res}
	if !humanOutput {
		return outputJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	if res.Status != sjr.StatusSuccess {
		fmt.Fprintf(w, "%s: N/A (%s)\n", args[0], res.Status)
		return nil
	}
	fmt.Fprintf(w, "%s: %s (%d)\n", args[0], res.Quartile, res.Year)
	fmt.Fprintf(w, "  matched %s", res.Title)
	if res.Score > 0 && res.Score < 1 {
		fmt.Fprintf(w, ", similarity %.2f", res.Score)
	}
	fmt.Fprintln(w)
	return nil
}
