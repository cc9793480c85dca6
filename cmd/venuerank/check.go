package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/venuerank/internal/refdata"
)

var checkLoad bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which reference tables are available",
	Long: `Report which CORE editions and SJR years have table files.

With --load every table is parsed, which surfaces column mapping errors
before a long ranking run.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkLoad, "load", false, "Parse every table and count its rows")
	rootCmd.AddCommand(checkCmd)
}

// EditionStatus describes one CORE edition's table.
type EditionStatus struct {
	Edition int    `json:"edition"`
	Path    string `json:"path"`
	Present bool   `json:"present"`
	Entries int    `json:"entries,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SJRStatus describes one SJR table.
type SJRStatus struct {
	Path  string `json:"path"`
	Year  int    `json:"year,omitempty"`
	Rows  int    `json:"rows,omitempty"`
	Error string `json:"error,omitempty"`
}

// CheckResult is the JSON output for the check command.
type CheckResult struct {
	CoreDir  string          `json:"core_dir"`
	SJRDir   string          `json:"sjr_dir"`
	Editions []EditionStatus `json:"editions"`
	SJR      []SJRStatus     `json:"sjr"`
	OK       bool            `json:"ok"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	set, err := mappingSet()
	if err != nil {
		return err
	}
	result := checkData(set, cfg.CoreDir, cfg.SJRDir, checkLoad)

	if humanOutput {
		printCheckHuman(cmd.OutOrStdout(), result)
	} else if err := outputJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.OK {
		return withExit(ExitDataError, fmt.Errorf("reference data incomplete"))
	}
	return nil
}

// checkData inspects the table files. OK requires every present table to
// parse (when load is set) and at least one CORE or SJR table.
func checkData(set *refdata.MappingSet, coreDir, sjrDir string, load bool) CheckResult {
	result := CheckResult{CoreDir: coreDir, SJRDir: sjrDir, OK: true}
	found := 0

	for _, ed := range set.Editions() {
		m, _ := set.Get(ed)
		path := m.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(coreDir, path)
		}
		st := EditionStatus{Edition: ed, Path: path}
		if _, err := os.Stat(path); err == nil {
			st.Present = true
			found++
		}
		if st.Present && load {
			entries, err := refdata.ReadCoreEntries(path, m)
			if err != nil {
				st.Error = err.Error()
				result.OK = false
			}
			st.Entries = len(entries)
		}
		result.Editions = append(result.Editions, st)
	}

	files, err := refdata.SJRFiles(sjrDir)
	if err != nil {
		appLogger.Debug("no SJR directory", "dir", sjrDir, "error", err)
	}
	result.SJR = []SJRStatus{}
	for _, f := range files {
		st := SJRStatus{Path: f.Path, Year: f.Year}
		found++
		if load {
			rows, err := refdata.ReadSJRRows(f.Path, f.Year)
			if err != nil {
				st.Error = err.Error()
				result.OK = false
			}
			st.Rows = len(rows)
		}
		result.SJR = append(result.SJR, st)
	}

	if found == 0 {
		result.OK = false
	}
	return result
}

func printCheckHuman(w io.Writer, r CheckResult) {
	fmt.Fprintf(w, "CORE tables (%s)\n", r.CoreDir)
	for _, e := range r.Editions {
		mark := "missing"
		switch {
		case e.Error != "":
			mark = "error: " + e.Error
		case e.Entries > 0:
			mark = fmt.Sprintf("%d entries", e.Entries)
		case e.Present:
			mark = "ok"
		}
		fmt.Fprintf(w, "  %d  %s  %s\n", e.Edition, filepath.Base(e.Path), mark)
	}

	fmt.Fprintf(w, "SJR tables (%s)\n", r.SJRDir)
	if len(r.SJR) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, s := range r.SJR {
		mark := "ok"
		switch {
		case s.Error != "":
			mark = "error: " + s.Error
		case s.Rows > 0:
			mark = fmt.Sprintf("%d rows", s.Rows)
		}
		fmt.Fprintf(w, "  %s  %s\n", filepath.Base(s.Path), mark)
	}
}
