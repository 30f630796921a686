package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/tabclean/internal/dataset"
	"github.com/KaramelBytes/tabclean/internal/utils"
)

// Options tune how a file is decoded into a dataset.
type Options struct {
	// Delimiter for CSV. If 0, ',' unless the file ends in .tsv.
	Delimiter rune
	// Sheet selects an XLSX worksheet by name; empty means the first sheet.
	Sheet string
}

// Parser decodes one container format into a dataset.
type Parser interface {
	CanParse(filename string) bool
	Parse(r io.Reader, filename string, opt Options) (*dataset.Dataset, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported dataset format")

// ParseFile selects a parser by filename and loads the file as a dataset
// with its metadata filled in.
func ParseFile(path string, opt Options) (*dataset.Dataset, error) {
	var p Parser
	for _, cand := range registry {
		if cand.CanParse(path) {
			p = cand
			break
		}
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	start := time.Now()
	ds, err := p.Parse(f, path, opt)
	if err != nil {
		return nil, err
	}
	ds.Meta = dataset.Meta{
		FileName:   filepath.Base(path),
		Size:       utils.HumanSize(info.Size()),
		UploadedAt: time.Now().UTC(),
	}
	slog.Debug("parsed dataset",
		"file", ds.Meta.FileName,
		"rows", ds.RowCount(),
		"columns", len(ds.Columns),
		"duration", time.Since(start))
	return ds, nil
}

// Supported reports whether any registered parser accepts filename.
func Supported(filename string) bool {
	for _, p := range registry {
		if p.CanParse(filename) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvParser{})
	Register(jsonParser{})
	Register(xlsxParser{})
}

// headerNames trims header cells, names blank ones column_N and suffixes
// repeats so every column stays addressable.
func headerNames(raw []string) []string {
	out := make([]string, len(raw))
	seen := map[string]int{}
	for i, h := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		} else {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}

// narrowCell applies the text-cell heuristics shared by CSV and XLSX.
func narrowCell(s string) dataset.Value {
	t := strings.TrimSpace(s)
	if t == "" {
		return dataset.Null()
	}
	if f, ok := dataset.ParseNumber(t); ok {
		return dataset.Number(f)
	}
	switch strings.ToLower(t) {
	case "true":
		return dataset.Bool(true)
	case "false":
		return dataset.Bool(false)
	}
	return dataset.String(s)
}

// rowsFromRecords turns header plus string records into a dataset; short
// records are padded with null.
func rowsFromRecords(header []string, records [][]string) *dataset.Dataset {
	cols := headerNames(header)
	rows := make([]dataset.Row, 0, len(records))
	for _, rec := range records {
		row := make(dataset.Row, len(cols))
		for j, c := range cols {
			if j < len(rec) {
				row[c] = narrowCell(rec[j])
			} else {
				row[c] = dataset.Null()
			}
		}
		rows = append(rows, row)
	}
	return dataset.New(cols, rows)
}
