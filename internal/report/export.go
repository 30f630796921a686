package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabclean/internal/dataset"
	"github.com/KaramelBytes/tabclean/internal/utils"
)

// WriteCSV writes ds with a header row in column order. Null cells are empty.
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, c := range ds.Columns {
			rec[i] = row.Get(c).String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes ds as an array of objects whose keys follow column order.
func WriteJSON(w io.Writer, ds *dataset.Dataset) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("[")
	for i, row := range ds.Rows {
		if i > 0 {
			bw.WriteString(",")
		}
		bw.WriteString("\n  {")
		for j, c := range ds.Columns {
			if j > 0 {
				bw.WriteString(", ")
			}
			k, _ := json.Marshal(c)
			v, err := json.Marshal(row.Get(c))
			if err != nil {
				return fmt.Errorf("marshal cell %s: %w", c, err)
			}
			bw.Write(k)
			bw.WriteString(": ")
			bw.Write(v)
		}
		bw.WriteString("}")
	}
	if len(ds.Rows) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("]\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteAnalysisJSON serialises an analysis payload (a result or a saved run)
// as indented JSON.
func WriteAnalysisJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteAnalysisYAML serialises an analysis payload as YAML.
func WriteAnalysisYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return nil
}
