package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/tabclean/internal/analysis"
	"github.com/KaramelBytes/tabclean/internal/dataset"
	"github.com/KaramelBytes/tabclean/internal/parser"
	"github.com/KaramelBytes/tabclean/internal/report"
	"github.com/spf13/cobra"
)

var (
	clOutputPath string
	clDelimiter  string
	clSheet      string
	clQuiet      bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Clean a dataset and export the result as CSV or JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := parseOptions(clDelimiter, clSheet)
		if err != nil {
			return err
		}
		path := args[0]
		ds, err := parser.ParseFile(path, opt)
		if err != nil {
			return err
		}
		start := time.Now()
		cleaned, rep := analysis.Clean(ds)
		slog.Debug("cleaned dataset", "file", ds.Meta.FileName, "rows", rep.FinalRows, "duration", time.Since(start))

		out := cmd.OutOrStdout()
		if !clQuiet {
			fmt.Fprintf(out, "✓ Cleaned %s: %d -> %d rows\n", ds.Meta.FileName, rep.OriginalRows, rep.FinalRows)
			if len(rep.Actions) == 0 {
				fmt.Fprintln(out, "  No changes needed")
			}
			for _, a := range rep.Actions {
				fmt.Fprintf(out, "  - %s\n", a)
			}
		}

		dest := clOutputPath
		if dest == "" && cfg != nil && cfg.OutputDir != "" {
			dest = filepath.Join(cfg.OutputDir, baseName(path)+".cleaned.csv")
		}
		if dest == "" {
			return nil
		}
		if err := exportDataset(dest, cleaned); err != nil {
			return err
		}
		if !clQuiet {
			fmt.Fprintf(out, "✓ Wrote cleaned data to %s\n", dest)
		}
		return nil
	},
}

// exportDataset writes ds as JSON when dest ends in .json, CSV otherwise.
func exportDataset(dest string, ds *dataset.Dataset) error {
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if strings.EqualFold(filepath.Ext(dest), ".json") {
		err = report.WriteJSON(f, ds)
	} else {
		err = report.WriteCSV(f, ds)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return err
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&clOutputPath, "output", "o", "", "write cleaned data to this path (.csv or .json)")
	cleanCmd.Flags().StringVar(&clDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab'")
	cleanCmd.Flags().StringVar(&clSheet, "sheet", "", "XLSX: sheet name to load")
	cleanCmd.Flags().BoolVar(&clQuiet, "quiet", false, "suppress non-essential output")
}
