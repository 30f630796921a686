package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabclean/internal/runstore"
	"github.com/spf13/cobra"
)

var runsFormat string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := runstore.New(cfg.RunsDir).List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintf(out, "No runs found in %s\n", cfg.RunsDir)
			return nil
		}
		fmt.Fprintf(out, "%-8s  %-20s  %-24s  %6s  %7s\n", "ID", "CREATED", "DATASET", "ROWS", "QUALITY")
		for _, r := range runs {
			fmt.Fprintf(out, "%-8s  %-20s  %-24s  %6d  %6.1f%%\n",
				shortID(r.ID),
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(r.Dataset.FileName, 24),
				r.Result.Summary.TotalRows,
				r.Result.QualityScore)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved run by id or unique id prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := runstore.New(cfg.RunsDir).Load(args[0])
		if err != nil {
			return err
		}
		format := cfg.ReportFormat
		if cmd.Flags().Changed("format") {
			format = runsFormat
		}
		format = strings.ToLower(strings.TrimSpace(format))
		if _, ok := reportExt[format]; !ok {
			return fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", format)
		}
		return renderRun(cmd.OutOrStdout(), format, run, nil, 0)
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsShowCmd.Flags().StringVar(&runsFormat, "format", "markdown", "output format: markdown|json|yaml")
}
