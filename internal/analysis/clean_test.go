package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabclean/internal/dataset"
)

func ageCityDataset() *dataset.Dataset {
	return dataset.New([]string{"age", "city"}, []dataset.Row{
		{"age": dataset.Number(25), "city": dataset.String("NY")},
		{"age": dataset.Number(30), "city": dataset.String("NY")},
		{"age": dataset.Null(), "city": dataset.String("LA")},
		{"age": dataset.Number(30), "city": dataset.String("NY")},
	})
}

func TestCleanAgeCityScenario(t *testing.T) {
	ds := ageCityDataset()
	cleaned, rep := Clean(ds)

	assert.Equal(t, 4, rep.OriginalRows)
	assert.Equal(t, 3, rep.FinalRows)
	assert.Equal(t, 1, rep.RemovedDuplicates)
	assert.Equal(t, 1, rep.HandledMissingValues)
	assert.Equal(t, 0, rep.OutliersCapped)
	assert.Equal(t, 0, rep.TypeCorrections)
	assert.Equal(t, []string{"Removed 1 duplicate row", "Imputed 1 missing value"}, rep.Actions)

	require.Equal(t, 3, cleaned.RowCount())
	assert.Equal(t, dataset.Number(30), cleaned.Rows[2].Get("age"))
	assert.Equal(t, dataset.String("LA"), cleaned.Rows[2].Get("city"))

	// input untouched
	assert.True(t, ds.Rows[2].Get("age").IsNull())
	assert.Equal(t, 4, ds.RowCount())
}

func TestCleanRemovesEmptyRows(t *testing.T) {
	ds := dataset.New([]string{"a", "b"}, []dataset.Row{
		{"a": dataset.Number(1), "b": dataset.String("x")},
		{"a": dataset.Null(), "b": dataset.String("  ")},
		{},
		{"a": dataset.Number(2), "b": dataset.String("y")},
	})
	cleaned, rep := Clean(ds)
	assert.Equal(t, 2, rep.EmptyRowsRemoved)
	assert.Equal(t, 2, cleaned.RowCount())
	assert.Equal(t, []string{"Removed 2 empty rows"}, rep.Actions)
}

func TestCleanTreatsAbsentKeyAsNullForDuplicates(t *testing.T) {
	ds := dataset.New([]string{"a", "b"}, []dataset.Row{
		{"a": dataset.Number(1)},
		{"a": dataset.Number(1), "b": dataset.Null()},
		{"a": dataset.String("1")},
	})
	cleaned, rep := Clean(ds)
	assert.Equal(t, 1, rep.RemovedDuplicates)
	assert.Equal(t, 2, cleaned.RowCount())
}

func TestCleanImputesCategoricalWithMode(t *testing.T) {
	ds := dataset.New([]string{"id", "k"}, []dataset.Row{
		{"id": dataset.Number(1), "k": dataset.String("x")},
		{"id": dataset.Number(2), "k": dataset.String("y")},
		{"id": dataset.Number(3), "k": dataset.String("x")},
		{"id": dataset.Number(4), "k": dataset.String("")},
		{"id": dataset.Number(5), "k": dataset.Null()},
	})
	cleaned, rep := Clean(ds)
	assert.Equal(t, 2, rep.HandledMissingValues)
	for _, r := range cleaned.Rows {
		assert.False(t, r.Get("k").IsMissing())
	}
	assert.Equal(t, dataset.String("x"), cleaned.Rows[3].Get("k"))
	assert.Equal(t, dataset.String("x"), cleaned.Rows[4].Get("k"))
}

func TestCleanImputesBooleanWithFalse(t *testing.T) {
	ds := dataset.New([]string{"id", "flag"}, []dataset.Row{
		{"id": dataset.Number(1), "flag": dataset.Bool(true)},
		{"id": dataset.Number(2), "flag": dataset.Bool(true)},
		{"id": dataset.Number(3)},
	})
	cleaned, rep := Clean(ds)
	assert.Equal(t, 1, rep.HandledMissingValues)
	assert.Equal(t, dataset.Bool(false), cleaned.Rows[2].Get("flag"))
}

func TestCleanCapsOutliersToIQRBounds(t *testing.T) {
	rows := make([]dataset.Row, 0, 11)
	for i := 1; i <= 10; i++ {
		rows = append(rows, dataset.Row{"v": dataset.Number(float64(i))})
	}
	rows = append(rows, dataset.Row{"v": dataset.Number(100)})
	ds := dataset.New([]string{"v"}, rows)

	cleaned, rep := Clean(ds)
	// sorted [1..10,100]: Q1 = 3, Q3 = 9, IQR = 6 -> bounds [-6, 18]
	assert.Equal(t, 1, rep.OutliersCapped)
	assert.Equal(t, []ColumnCount{{Column: "v", Count: 1}}, rep.OutliersByColumn)
	assert.Equal(t, dataset.Number(18), cleaned.Rows[10].Get("v"))
	for _, r := range cleaned.Rows {
		f, ok := r.Get("v").AsFloat()
		require.True(t, ok)
		assert.GreaterOrEqual(t, f, -6.0)
		assert.LessOrEqual(t, f, 18.0)
	}
	assert.Contains(t, rep.Actions, "Capped 1 outlier: v (1)")
}

func TestCleanSkipsOutliersWithTenValuesOrFewer(t *testing.T) {
	rows := make([]dataset.Row, 0, 10)
	for i := 1; i <= 9; i++ {
		rows = append(rows, dataset.Row{"v": dataset.Number(float64(i))})
	}
	rows = append(rows, dataset.Row{"v": dataset.Number(1000)})
	cleaned, rep := Clean(dataset.New([]string{"v"}, rows))
	assert.Equal(t, 0, rep.OutliersCapped)
	assert.Equal(t, dataset.Number(1000), cleaned.Rows[9].Get("v"))
}

func TestCleanStandardizesTypes(t *testing.T) {
	ds := dataset.New([]string{"n", "flag"}, []dataset.Row{
		{"n": dataset.String("1"), "flag": dataset.String("yes")},
		{"n": dataset.String("2"), "flag": dataset.String("no")},
		{"n": dataset.String("3.5"), "flag": dataset.String("TRUE")},
	})
	cleaned, rep := Clean(ds)
	assert.Equal(t, 6, rep.TypeCorrections)
	assert.Equal(t, dataset.Number(3.5), cleaned.Rows[2].Get("n"))
	assert.Equal(t, dataset.Bool(true), cleaned.Rows[0].Get("flag"))
	assert.Equal(t, dataset.Bool(false), cleaned.Rows[1].Get("flag"))
	assert.Equal(t, []string{"Standardized 6 values to their column type"}, rep.Actions)
}

func TestCleanLeavesUncoercibleValues(t *testing.T) {
	ds := dataset.New([]string{"n"}, []dataset.Row{
		{"n": dataset.Number(1)}, {"n": dataset.Number(2)}, {"n": dataset.Number(3)},
		{"n": dataset.Number(4)}, {"n": dataset.String("n/a")},
	})
	cleaned, rep := Clean(ds)
	assert.Equal(t, 0, rep.TypeCorrections)
	assert.Equal(t, dataset.String("n/a"), cleaned.Rows[4].Get("n"))
}

func TestCleanDropsSparseRows(t *testing.T) {
	// b and c have no observed values, so nothing can be imputed there.
	ds := dataset.New([]string{"a", "b", "c"}, []dataset.Row{
		{"a": dataset.Number(1)},
		{"a": dataset.Number(2)},
	})
	cleaned, rep := Clean(ds)
	assert.Equal(t, 2, rep.SparseRowsRemoved)
	assert.Equal(t, 0, cleaned.RowCount())
	assert.Equal(t, 0, rep.FinalRows)
}

func TestCleanEmptyInput(t *testing.T) {
	cleaned, rep := Clean(dataset.New([]string{"a"}, nil))
	assert.Equal(t, 0, cleaned.RowCount())
	assert.Equal(t, CleaningReport{Actions: []string{}}, rep)

	cleaned, rep = Clean(nil)
	assert.Equal(t, 0, cleaned.RowCount())
	assert.Empty(t, rep.Actions)
}

// Covers datasets whose imputed, capped and standardized cells do not make two
// surviving rows equal; see TestCleanCappingCanCreateDuplicates for the
// case where a second run still merges rows.
func TestCleanIsIdempotentOnRowCount(t *testing.T) {
	datasets := []*dataset.Dataset{
		ageCityDataset(),
		dataset.New([]string{"x", "y"}, []dataset.Row{
			{"x": dataset.Number(1), "y": dataset.String("a")},
			{"x": dataset.Number(1), "y": dataset.String("a")},
			{},
			{"x": dataset.String("7"), "y": dataset.String("b")},
		}),
	}
	for i, ds := range datasets {
		t.Run(fmt.Sprintf("dataset-%d", i), func(t *testing.T) {
			once, first := Clean(ds)
			assert.LessOrEqual(t, first.FinalRows, first.OriginalRows)
			twice, second := Clean(once)
			assert.Equal(t, 0, second.RemovedDuplicates)
			assert.Equal(t, 0, second.EmptyRowsRemoved)
			assert.Equal(t, 0, second.HandledMissingValues)
			assert.Equal(t, once.RowCount(), twice.RowCount())
		})
	}
}

func TestCleanCappingCanCreateDuplicates(t *testing.T) {
	var rows []dataset.Row
	for _, v := range []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 100, 200} {
		rows = append(rows, dataset.Row{"v": dataset.Number(v), "k": dataset.String("a")})
	}
	once, first := Clean(dataset.New([]string{"v", "k"}, rows))
	assert.Equal(t, 2, first.OutliersCapped)
	assert.Equal(t, 12, once.RowCount())

	twice, second := Clean(once)
	assert.Equal(t, 1, second.RemovedDuplicates)
	assert.Equal(t, 11, twice.RowCount())
}
