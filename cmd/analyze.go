package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/tabclean/internal/analysis"
	"github.com/KaramelBytes/tabclean/internal/dataset"
	"github.com/KaramelBytes/tabclean/internal/parser"
	"github.com/KaramelBytes/tabclean/internal/report"
	"github.com/KaramelBytes/tabclean/internal/runstore"
	"github.com/KaramelBytes/tabclean/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath string
	anaFormat     string
	anaRaw        bool
	anaSave       bool
	anaSampleRows int
	anaDelimiter  string
	anaSheet      string
	anaQuiet      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <files...>",
	Short: "Clean and analyze one or more CSV/TSV/JSON/XLSX files",
	Long: `Clean and analyze datasets. Globs are expanded; each file gets its own report.
By default the cleaned dataset is analyzed; pass --raw to analyze the input as loaded.
With several inputs, --output names a directory that receives one report per file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, err := parseOptions(anaDelimiter, anaSheet)
		if err != nil {
			return err
		}
		format := cfg.ReportFormat
		if cmd.Flags().Changed("format") {
			format = anaFormat
		}
		format = strings.ToLower(strings.TrimSpace(format))
		if _, ok := reportExt[format]; !ok {
			return fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", format)
		}
		sampleRows := cfg.SampleRows
		if cmd.Flags().Changed("sample-rows") {
			sampleRows = anaSampleRows
		}
		useCleaned := cfg.AnalyzeCleaned && !anaRaw

		outDir := ""
		switch {
		case anaOutputPath != "" && len(files) > 1:
			outDir = anaOutputPath
		case anaOutputPath == "" && cfg.OutputDir != "":
			outDir = cfg.OutputDir
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !anaQuiet && total > 1 {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			if !parser.Supported(path) {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: skipping %s: unsupported format\n", filepath.Base(path))
				continue
			}
			ds, err := parser.ParseFile(path, opt)
			if err != nil {
				return fmt.Errorf("load %s: %w", filepath.Base(path), err)
			}
			start := time.Now()
			res := analysis.Process(ds, useCleaned)
			slog.Debug("analyzed dataset",
				"file", ds.Meta.FileName,
				"rows", res.Result.Summary.TotalRows,
				"columns", res.Result.Summary.TotalColumns,
				"cleaned", res.AnalyzedCleaned,
				"duration", time.Since(start))

			run := runstore.NewRun(ds.Meta, res)
			body, err := renderOutcome(format, ds, res, run, sampleRows)
			if err != nil {
				return err
			}

			dest := anaOutputPath
			if outDir != "" {
				dest = filepath.Join(outDir, baseName(path)+".report"+reportExt[format])
			}
			if dest != "" {
				if err := writeReport(dest, body); err != nil {
					return err
				}
				if !anaQuiet {
					fmt.Fprintf(out, "✓ Wrote analysis to %s\n", dest)
				}
			} else {
				fmt.Fprintln(out, strings.TrimRight(string(body), "\n"))
			}

			if anaSave {
				if err := runstore.New(cfg.RunsDir).Save(run); err != nil {
					return fmt.Errorf("save run: %w", err)
				}
				if !anaQuiet {
					fmt.Fprintf(out, "✓ Saved run %s\n", run.ID)
				}
			}
		}
		return nil
	},
}

var reportExt = map[string]string{
	"markdown": ".md",
	"json":     ".json",
	"yaml":     ".yaml",
}

// renderOutcome renders markdown from the analysed dataset, or serialises the
// run document for json/yaml.
func renderOutcome(format string, raw *dataset.Dataset, oc analysis.Outcome, run *runstore.Run, sampleRows int) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderRun(&buf, format, run, analyzedDataset(raw, oc), sampleRows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderRun(w io.Writer, format string, run *runstore.Run, ds *dataset.Dataset, sampleRows int) error {
	switch format {
	case "json":
		return report.WriteAnalysisJSON(w, run)
	case "yaml":
		return report.WriteAnalysisYAML(w, run)
	}
	if ds == nil {
		ds = &dataset.Dataset{Meta: run.Dataset}
	}
	_, err := io.WriteString(w, report.Markdown(ds, &run.Cleaning, run.Result, sampleRows))
	return err
}

func analyzedDataset(raw *dataset.Dataset, res analysis.Outcome) *dataset.Dataset {
	if res.AnalyzedCleaned {
		return res.Cleaned
	}
	return raw
}

func writeReport(dest string, body []byte) error {
	if err := utils.SafeWriteFile(dest, body); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "write the report to a file (a directory when analyzing several files)")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "markdown", "report format: markdown|json|yaml")
	analyzeCmd.Flags().BoolVar(&anaRaw, "raw", false, "analyze the dataset as loaded instead of the cleaned one")
	analyzeCmd.Flags().BoolVar(&anaSave, "save", false, "persist the run to the run history")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows in markdown reports (0 disables)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab'")
	analyzeCmd.Flags().StringVar(&anaSheet, "sheet", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().BoolVar(&anaQuiet, "quiet", false, "suppress progress and non-essential output")
}
