package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabclean/internal/dataset"
)

const (
	outlierMinValues = 10
	outlierIQRFactor = 1.5
	sparseRowMinFill = 0.5
)

// Clean runs the cleaning passes in fixed order and returns a new dataset
// plus a report. The input is never modified.
func Clean(ds *dataset.Dataset) (*dataset.Dataset, CleaningReport) {
	if ds == nil {
		ds = &dataset.Dataset{}
	}
	rep := CleaningReport{OriginalRows: ds.RowCount(), Actions: []string{}}
	cols := ds.Columns

	rows, n := dropEmptyRows(ds.Rows, cols)
	if n > 0 {
		rep.EmptyRowsRemoved = n
		rep.Actions = append(rep.Actions, fmt.Sprintf("Removed %d empty %s", n, plural(n, "row")))
	}

	rows, n = dropDuplicateRows(rows, cols)
	if n > 0 {
		rep.RemovedDuplicates = n
		rep.Actions = append(rep.Actions, fmt.Sprintf("Removed %d duplicate %s", n, plural(n, "row")))
	}

	current := ds.WithRows(rows)
	profiles := make(map[string]cleaningProfile, len(cols))
	for _, c := range cols {
		profiles[c] = profileForCleaning(current, c)
	}

	rows, n = imputeMissing(rows, cols, profiles)
	if n > 0 {
		rep.HandledMissingValues = n
		rep.Actions = append(rep.Actions, fmt.Sprintf("Imputed %d missing %s", n, plural(n, "value")))
	}

	rows, byCol := capOutliers(rows, cols, profiles)
	if len(byCol) > 0 {
		total := 0
		names := make([]string, len(byCol))
		for i, cc := range byCol {
			total += cc.Count
			names[i] = cc.Column + " (" + strconv.Itoa(cc.Count) + ")"
		}
		rep.OutliersCapped = total
		rep.OutliersByColumn = byCol
		rep.Actions = append(rep.Actions, fmt.Sprintf("Capped %d %s: %s", total, plural(total, "outlier"), strings.Join(names, ", ")))
	}

	rows, n = standardizeTypes(rows, cols, profiles)
	if n > 0 {
		rep.TypeCorrections = n
		rep.Actions = append(rep.Actions, fmt.Sprintf("Standardized %d %s to their column type", n, plural(n, "value")))
	}

	rows, n = dropSparseRows(rows, cols)
	if n > 0 {
		rep.SparseRowsRemoved = n
		rep.Actions = append(rep.Actions, fmt.Sprintf("Removed %d %s with more than half the values missing", n, plural(n, "row")))
	}

	out := ds.WithRows(rows)
	rep.FinalRows = out.RowCount()
	return out, rep
}

func dropEmptyRows(rows []dataset.Row, cols []string) ([]dataset.Row, int) {
	out := make([]dataset.Row, 0, len(rows))
	for _, r := range rows {
		empty := true
		for _, c := range cols {
			if !r.Get(c).IsMissing() {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, r)
		}
	}
	return out, len(rows) - len(out)
}

func dropDuplicateRows(rows []dataset.Row, cols []string) ([]dataset.Row, int) {
	keyCols := append([]string(nil), cols...)
	sort.Strings(keyCols)
	seen := make(map[string]struct{}, len(rows))
	out := make([]dataset.Row, 0, len(rows))
	for _, r := range rows {
		k := rowKey(r, keyCols)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out, len(rows) - len(out)
}

// rowKey serializes a row over keyCols, which must already be sorted. Absent
// keys encode as null, so they collide with explicit nulls.
func rowKey(r dataset.Row, keyCols []string) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range keyCols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(c))
		b.WriteByte(':')
		b.WriteString(strconv.Quote(r.Get(c).Key()))
	}
	b.WriteByte('}')
	return b.String()
}

func imputeMissing(rows []dataset.Row, cols []string, profiles map[string]cleaningProfile) ([]dataset.Row, int) {
	filled := 0
	out := make([]dataset.Row, len(rows))
	for i, r := range rows {
		nr := r.Clone()
		for _, c := range cols {
			if !nr.Get(c).IsMissing() {
				continue
			}
			p := profiles[c]
			switch p.Type {
			case TypeNumeric:
				if !p.HasMedian {
					continue
				}
				nr[c] = dataset.Number(p.Median)
			case TypeBoolean:
				nr[c] = dataset.Bool(false)
			default:
				if !p.HasMode {
					continue
				}
				nr[c] = p.Mode
			}
			filled++
		}
		out[i] = nr
	}
	return out, filled
}

func capOutliers(rows []dataset.Row, cols []string, profiles map[string]cleaningProfile) ([]dataset.Row, []ColumnCount) {
	out := make([]dataset.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	var byCol []ColumnCount
	for _, c := range cols {
		p := profiles[c]
		if p.Type != TypeNumeric || p.Observed <= outlierMinValues {
			continue
		}
		iqr := p.Q3 - p.Q1
		lo, hi := p.Q1-outlierIQRFactor*iqr, p.Q3+outlierIQRFactor*iqr
		n := 0
		for _, r := range out {
			f, ok := r.Get(c).AsFloat()
			if !ok {
				continue
			}
			switch {
			case f < lo:
				r[c] = dataset.Number(lo)
				n++
			case f > hi:
				r[c] = dataset.Number(hi)
				n++
			}
		}
		if n > 0 {
			byCol = append(byCol, ColumnCount{Column: c, Count: n})
		}
	}
	return out, byCol
}

func standardizeTypes(rows []dataset.Row, cols []string, profiles map[string]cleaningProfile) ([]dataset.Row, int) {
	fixed := 0
	out := make([]dataset.Row, len(rows))
	for i, r := range rows {
		nr := r.Clone()
		for _, c := range cols {
			v := nr.Get(c)
			if !v.IsString() || v.IsMissing() {
				continue
			}
			switch profiles[c].Type {
			case TypeNumeric:
				if f, ok := dataset.ParseNumber(v.Str()); ok {
					nr[c] = dataset.Number(f)
					fixed++
				}
			case TypeBoolean:
				if b, ok := dataset.ParseBool(v.Str()); ok {
					nr[c] = dataset.Bool(b)
					fixed++
				}
			}
		}
		out[i] = nr
	}
	return out, fixed
}

func dropSparseRows(rows []dataset.Row, cols []string) ([]dataset.Row, int) {
	if len(cols) == 0 {
		return rows, 0
	}
	out := make([]dataset.Row, 0, len(rows))
	for _, r := range rows {
		present := 0
		for _, c := range cols {
			if !r.Get(c).IsMissing() {
				present++
			}
		}
		if float64(present)/float64(len(cols)) >= sparseRowMinFill {
			out = append(out, r)
		}
	}
	return out, len(rows) - len(out)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
