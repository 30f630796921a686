package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/tabclean/internal/dataset"
)

// ComputeNumericStats summarises the numeric readings of a column. ok is
// false when there are none. A zero standard deviation yields zero skewness
// and kurtosis.
func ComputeNumericStats(values []float64) (NumericStats, bool) {
	n := len(values)
	if n == 0 {
		return NumericStats{}, false
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, variance := stat.PopMeanVariance(sorted, nil)
	std := math.Sqrt(variance)
	q1, q3 := quartiles(sorted)
	lo, hi := floats.Min(sorted), floats.Max(sorted)

	s := NumericStats{
		Count:    n,
		Mean:     mean,
		Median:   sorted[n/2],
		Mode:     numericMode(sorted),
		Min:      lo,
		Max:      hi,
		StdDev:   std,
		Variance: variance,
		Range:    hi - lo,
		Q1:       q1,
		Q3:       q3,
		IQR:      q3 - q1,
	}
	if std > 0 {
		var m3, m4 float64
		for _, x := range sorted {
			z := (x - mean) / std
			z2 := z * z
			m3 += z2 * z
			m4 += z2 * z2
		}
		s.Skewness = m3 / float64(n)
		s.Kurtosis = m4/float64(n) - 3
	}
	return finiteStats(s), true
}

// finiteStats zeroes any field that overflowed to Inf or NaN, which happens
// when readings near the float64 limit are summed.
func finiteStats(s NumericStats) NumericStats {
	for _, f := range []*float64{
		&s.Mean, &s.Median, &s.Mode, &s.Min, &s.Max, &s.StdDev, &s.Variance,
		&s.Range, &s.Q1, &s.Q3, &s.IQR, &s.Skewness, &s.Kurtosis,
	} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}
	return s
}

// numericMode counts over the ascending sequence, so among equally frequent
// values the smallest wins.
func numericMode(sorted []float64) float64 {
	c := newCounter()
	for _, x := range sorted {
		c.add(dataset.Number(x))
	}
	m, _ := c.mode()
	return m.Num()
}

// ComputeCategoricalStats builds the frequency table of a column's
// non-missing cells. ok is false when there are none.
func ComputeCategoricalStats(values []dataset.Value) (CategoricalStats, bool) {
	if len(values) == 0 {
		return CategoricalStats{}, false
	}
	c := newCounter()
	for _, v := range values {
		c.add(v)
	}
	total := float64(len(values))
	order := c.sorted()
	labels := frequencyLabels(c.values)
	freqs := make([]Frequency, len(order))
	for i, idx := range order {
		freqs[i] = Frequency{
			Value:      labels[idx],
			Count:      c.counts[idx],
			Percentage: float64(c.counts[idx]) / total * 100,
		}
	}
	return CategoricalStats{
		Frequencies:   freqs,
		UniqueCount:   len(freqs),
		MostFrequent:  freqs[0].Value,
		LeastFrequent: freqs[len(freqs)-1].Value,
	}, true
}

// frequencyLabels renders each distinct value for display. Values of
// different kinds that print alike (1 and "1") get their kind appended.
func frequencyLabels(values []dataset.Value) []string {
	seen := make(map[string]int, len(values))
	for _, v := range values {
		seen[v.String()]++
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
		if seen[out[i]] > 1 {
			out[i] += " (" + v.Kind().String() + ")"
		}
	}
	return out
}
