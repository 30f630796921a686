package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabclean/internal/dataset"
)

func numericDataset(cols map[string][]any, order []string) *dataset.Dataset {
	n := 0
	for _, v := range cols {
		if len(v) > n {
			n = len(v)
		}
	}
	records := make([]map[string]any, n)
	for i := range records {
		rec := map[string]any{}
		for name, vals := range cols {
			if i < len(vals) {
				rec[name] = vals[i]
			}
		}
		records[i] = rec
	}
	ds, _ := dataset.FromRecords(order, records)
	return ds
}

func TestCorrelatePerfectNegative(t *testing.T) {
	ds := numericDataset(map[string][]any{"x": {1, 2, 3}, "y": {9, 6, 3}}, []string{"x", "y"})
	corrs, evaluated := Correlate(ds, []string{"x", "y"})
	require.Len(t, corrs, 1)
	assert.Equal(t, 1, evaluated)
	c := corrs[0]
	assert.Equal(t, "x", c.Column1)
	assert.Equal(t, "y", c.Column2)
	assert.InDelta(t, -1.0, c.Coefficient, 1e-9)
	assert.Equal(t, StrengthStrong, c.Strength)
	assert.Equal(t, "negative", c.Direction)
	assert.Equal(t, 3, c.N)
}

func TestCorrelateLinearTransform(t *testing.T) {
	xs := []any{1.5, 2, 7, -3, 11, 4.25}
	ys := make([]any, len(xs))
	for i, x := range xs {
		f, _ := dataset.FromAny(x).AsFloat()
		ys[i] = 2*f + 3
	}
	ds := numericDataset(map[string][]any{"x": xs, "y": ys}, []string{"x", "y"})
	corrs, _ := Correlate(ds, []string{"x", "y"})
	require.Len(t, corrs, 1)
	assert.InDelta(t, 1.0, corrs[0].Coefficient, 1e-9)
	assert.Equal(t, "positive", corrs[0].Direction)
}

func TestCorrelateSymmetric(t *testing.T) {
	ds := numericDataset(map[string][]any{
		"a": {1, 4, 2, 8, 5},
		"b": {3, 1, 4, 1, 5},
	}, []string{"a", "b"})
	ab, _ := Correlate(ds, []string{"a", "b"})
	ba, _ := Correlate(ds, []string{"b", "a"})
	require.Len(t, ab, 1)
	require.Len(t, ba, 1)
	assert.InDelta(t, ab[0].Coefficient, ba[0].Coefficient, 1e-12)
}

func TestCorrelateAlignsRows(t *testing.T) {
	// Zipping after independent filtering would pair 4 with 100.
	ds := numericDataset(map[string][]any{
		"a": {1, 2, nil, 4},
		"b": {2, 4, 100, 8},
	}, []string{"a", "b"})
	corrs, _ := Correlate(ds, []string{"a", "b"})
	require.Len(t, corrs, 1)
	assert.InDelta(t, 1.0, corrs[0].Coefficient, 1e-9)
	assert.Equal(t, 3, corrs[0].N)
}

func TestCorrelateDropsWeakPairs(t *testing.T) {
	ds := numericDataset(map[string][]any{
		"x": {1, 2, 3, 4, 5, 6},
		"y": {1, 2, 2, 1, 1, 2},
	}, []string{"x", "y"})
	corrs, evaluated := Correlate(ds, []string{"x", "y"})
	assert.Empty(t, corrs)
	assert.Equal(t, 1, evaluated)
}

func TestCorrelateSkipsDegeneratePairs(t *testing.T) {
	ds := numericDataset(map[string][]any{
		"const": {5, 5, 5},
		"x":     {1, 2, 3},
		"lone":  {1, nil, nil},
	}, []string{"const", "x", "lone"})
	corrs, evaluated := Correlate(ds, []string{"const", "x", "lone"})
	assert.Empty(t, corrs)
	assert.Equal(t, 0, evaluated)

	corrs, evaluated = Correlate(ds, nil)
	assert.Empty(t, corrs)
	assert.Zero(t, evaluated)
}

func TestCorrelationBands(t *testing.T) {
	cases := []struct {
		r    float64
		want string
	}{
		{0.29, StrengthWeak},
		{0.3, StrengthModerate},
		{-0.69, StrengthModerate},
		{0.7, StrengthStrong},
		{-0.95, StrengthStrong},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, correlationStrength(tc.r), "r=%v", tc.r)
	}
	assert.Equal(t, "negative", correlationDirection(0))
}
