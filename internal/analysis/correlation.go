package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/tabclean/internal/dataset"
)

const (
	minCorrelationReported = 0.1
	moderateCorrelation    = 0.3
	strongCorrelation      = 0.7
)

// Correlate computes Pearson r for every unordered pair of numeric columns,
// in column order. Each pair only uses rows where both cells are numeric, so
// values stay aligned by row. Pairs with fewer than two such rows, or with a
// constant side, are skipped. The second return value is the number of
// pairs evaluated before weak ones (|r| <= 0.1) are dropped.
func Correlate(ds *dataset.Dataset, numericCols []string) ([]Correlation, int) {
	out := []Correlation{}
	evaluated := 0
	for i := 0; i < len(numericCols); i++ {
		for j := i + 1; j < len(numericCols); j++ {
			c, ok := correlatePair(ds, numericCols[i], numericCols[j])
			if !ok {
				continue
			}
			evaluated++
			if math.Abs(c.Coefficient) > minCorrelationReported {
				out = append(out, c)
			}
		}
	}
	return out, evaluated
}

func correlatePair(ds *dataset.Dataset, a, b string) (Correlation, bool) {
	xs := make([]float64, 0, len(ds.Rows))
	ys := make([]float64, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		x, okx := r.Get(a).AsFloat()
		y, oky := r.Get(b).AsFloat()
		if !okx || !oky {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return Correlation{}, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return Correlation{}, false
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return Correlation{
		Column1:     a,
		Column2:     b,
		Coefficient: r,
		Strength:    correlationStrength(r),
		Direction:   correlationDirection(r),
		N:           len(xs),
	}, true
}

func correlationStrength(r float64) string {
	ar := math.Abs(r)
	switch {
	case ar >= strongCorrelation:
		return StrengthStrong
	case ar >= moderateCorrelation:
		return StrengthModerate
	}
	return StrengthWeak
}

func correlationDirection(r float64) string {
	if r > 0 {
		return "positive"
	}
	return "negative"
}
