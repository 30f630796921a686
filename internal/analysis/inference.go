package analysis

import (
	"strings"
	"time"

	"github.com/KaramelBytes/tabclean/internal/dataset"
)

const (
	reportNumericThreshold   = 0.8
	cleaningNumericThreshold = 0.7
)

// ClassifyForReport infers the type of a column for statistics and the
// report. values must already exclude missing cells.
func ClassifyForReport(values []dataset.Value) ColumnType {
	if numericShare(values) > reportNumericThreshold {
		return TypeNumeric
	}
	if anyBoolean(values) {
		return TypeBoolean
	}
	for _, v := range values {
		if looksLikeDate(v) {
			return TypeDatetime
		}
	}
	return TypeCategorical
}

// ClassifyForCleaning infers the type used to pick an imputation strategy.
// It leans toward numeric (lower threshold) and has no datetime category.
// values must already exclude missing cells.
func ClassifyForCleaning(values []dataset.Value) ColumnType {
	if numericShare(values) > cleaningNumericThreshold {
		return TypeNumeric
	}
	if anyBoolean(values) {
		return TypeBoolean
	}
	return TypeCategorical
}

func numericShare(values []dataset.Value) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if _, ok := v.AsFloat(); ok {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

func anyBoolean(values []dataset.Value) bool {
	for _, v := range values {
		if v.IsBool() {
			return true
		}
		if v.IsString() {
			if _, ok := dataset.ParseBool(v.Str()); ok {
				return true
			}
		}
	}
	return false
}

var dateLayouts = []string{
	time.RFC3339, time.RFC3339Nano, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"2006-01-02T15:04:05", "Jan 2, 2006", "January 2, 2006", "2 Jan 2006", time.RFC1123,
}

// looksLikeDate accepts strings longer than 8 characters that parse as a
// calendar date under one of the known layouts.
func looksLikeDate(v dataset.Value) bool {
	if !v.IsString() {
		return false
	}
	s := strings.TrimSpace(v.Str())
	if len(s) <= 8 {
		return false
	}
	for _, l := range dateLayouts {
		if _, err := time.Parse(l, s); err == nil {
			return true
		}
	}
	return false
}

// presentValues returns the non-missing cells of a column in row order.
func presentValues(ds *dataset.Dataset, col string) []dataset.Value {
	out := make([]dataset.Value, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		if v := r.Get(col); !v.IsMissing() {
			out = append(out, v)
		}
	}
	return out
}

// numericValues returns the numeric readings of vals, skipping the rest.
func numericValues(vals []dataset.Value) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := v.AsFloat(); ok {
			out = append(out, f)
		}
	}
	return out
}
