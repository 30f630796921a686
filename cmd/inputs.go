package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabclean/internal/parser"
)

// expandInputs resolves globs and literal paths into a sorted, de-duplicated
// file list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// parseOptions merges per-command flags with configured ingestion defaults.
func parseOptions(delimiter, sheet string) (parser.Options, error) {
	opt := parser.Options{}
	if cfg != nil {
		opt.Delimiter = cfg.Delimiter()
		opt.Sheet = cfg.XLSXSheet
	}
	switch delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", `\t`, "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delimiter)
	}
	if sheet != "" {
		opt.Sheet = sheet
	}
	return opt, nil
}

// baseName strips directory and extension from a dataset path.
func baseName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
