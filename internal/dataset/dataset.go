package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ErrNoColumns is returned when records carry no column names at all.
var ErrNoColumns = errors.New("dataset has no columns")

// Row maps column name to cell. A missing key reads as null.
type Row map[string]Value

// Get returns the cell for col, null when absent.
func (r Row) Get(col string) Value { return r[col] }

// Clone copies the row map.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Meta describes where a dataset came from.
type Meta struct {
	FileName   string    `json:"file_name" yaml:"file_name"`
	Size       string    `json:"size" yaml:"size"`
	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`
}

// Dataset is an ordered set of columns and rows. Engine passes never mutate a
// Dataset; they derive new ones.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
	Meta    Meta     `json:"meta"`
}

// New builds a dataset, dropping duplicate column names and any row keys
// outside the column list.
func New(columns []string, rows []Row) *Dataset {
	cols := make([]string, 0, len(columns))
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cols = append(cols, c)
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		nr := make(Row, len(cols))
		for k, v := range r {
			if _, ok := seen[k]; ok {
				nr[k] = v
			}
		}
		out[i] = nr
	}
	return &Dataset{Columns: cols, Rows: out}
}

// RowCount is the number of rows.
func (d *Dataset) RowCount() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Column returns a column's cells in row order.
func (d *Dataset) Column(name string) []Value {
	out := make([]Value, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.Get(name)
	}
	return out
}

// WithRows returns a copy of d sharing columns and meta but holding rows.
func (d *Dataset) WithRows(rows []Row) *Dataset {
	cols := make([]string, len(d.Columns))
	copy(cols, d.Columns)
	return &Dataset{Columns: cols, Rows: rows, Meta: d.Meta}
}

// FromRecords narrows untyped records into a Dataset. When columns is nil the
// column list is built in first-seen order, visiting each record's keys sorted.
func FromRecords(columns []string, records []map[string]any) (*Dataset, error) {
	if columns == nil {
		seen := map[string]struct{}{}
		for _, rec := range records {
			keys := make([]string, 0, len(rec))
			for k := range rec {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if _, ok := seen[k]; ok {
					continue
				}
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
	}
	if len(columns) == 0 && len(records) > 0 {
		return nil, ErrNoColumns
	}
	rows := make([]Row, len(records))
	for i, rec := range records {
		row := make(Row, len(rec))
		for k, raw := range rec {
			row[k] = FromAny(raw)
		}
		rows[i] = row
	}
	return New(columns, rows), nil
}

// FromAny narrows an arbitrary Go value to a cell.
func FromAny(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Number(f)
		}
		return String(x.String())
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Number(cast.ToFloat64(x))
	case time.Time:
		return String(x.Format(time.RFC3339))
	case fmt.Stringer:
		return String(x.String())
	}
	if s, err := cast.ToStringE(raw); err == nil {
		return String(s)
	}
	return String(strings.TrimSpace(fmt.Sprint(raw)))
}
