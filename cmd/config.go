package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/tabclean/internal/config"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tabclean configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		values := map[string]any{
			"runs_dir":        cfg.RunsDir,
			"output_dir":      cfg.OutputDir,
			"analyze_cleaned": cfg.AnalyzeCleaned,
			"sample_rows":     cfg.SampleRows,
			"report_format":   cfg.ReportFormat,
			"log_level":       cfg.LogLevel,
			"log_format":      cfg.LogFormat,
			"csv_delimiter":   cfg.CSVDelimiter,
			"xlsx_sheet":      cfg.XLSXSheet,
		}
		for _, k := range cfgpkg.Keys {
			fmt.Fprintf(out, "%s: %s\n", k, cast.ToString(values[k]))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
