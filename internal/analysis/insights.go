package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

const (
	highNullPct          = 20.0
	criticalNullPct      = 50.0
	anomalySigmas        = 3.0
	skewThreshold        = 1.0
	groupingMaxUnique    = 5
	lowCardinalityRatio  = 0.10
	lowCardinalityNamed  = 3
	largeDatasetRows     = 10000
	maxRecommendations   = 6
	insightCorrelationAt = 0.7
)

// GenerateInsights runs every rule and returns their findings sorted by
// severity, keeping rule order among equals.
func GenerateInsights(res AnalysisResult) []Insight {
	var out []Insight
	out = append(out, qualityInsights(res.Columns)...)
	out = append(out, correlationInsights(res.Correlations)...)
	out = append(out, anomalyInsights(res.Columns, res.NumericStats)...)
	out = append(out, distributionInsights(res.Columns, res.NumericStats)...)
	out = append(out, groupingInsights(res.Columns, res.CategoricalStats)...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity.Rank() > out[j].Severity.Rank() })
	if out == nil {
		out = []Insight{}
	}
	return out
}

func qualityInsights(cols []ColumnInfo) []Insight {
	var out []Insight
	for _, c := range cols {
		if c.NullPercentage <= highNullPct {
			continue
		}
		sev := SeverityMedium
		if c.NullPercentage > criticalNullPct {
			sev = SeverityHigh
		}
		out = append(out, Insight{
			Type:        InsightQuality,
			Title:       fmt.Sprintf("High missing values in %s", c.Name),
			Description: fmt.Sprintf("%.1f%% of values are missing in column %q.", c.NullPercentage, c.Name),
			Severity:    sev,
			Column:      c.Name,
		})
	}
	return out
}

func correlationInsights(corrs []Correlation) []Insight {
	var out []Insight
	for _, c := range corrs {
		if math.Abs(c.Coefficient) <= insightCorrelationAt {
			continue
		}
		out = append(out, Insight{
			Type:        InsightCorrelation,
			Title:       fmt.Sprintf("Strong %s correlation", c.Direction),
			Description: fmt.Sprintf("%s and %s are strongly correlated (r = %.3f).", c.Column1, c.Column2, c.Coefficient),
			Severity:    SeverityMedium,
		})
	}
	return out
}

func anomalyInsights(cols []ColumnInfo, num map[string]NumericStats) []Insight {
	var out []Insight
	for _, c := range cols {
		s, ok := num[c.Name]
		if !ok {
			continue
		}
		lo, hi := s.Mean-anomalySigmas*s.StdDev, s.Mean+anomalySigmas*s.StdDev
		if s.Min >= lo && s.Max <= hi {
			continue
		}
		out = append(out, Insight{
			Type:        InsightAnomaly,
			Title:       fmt.Sprintf("Potential outliers in %s", c.Name),
			Description: fmt.Sprintf("Values range from %.4g to %.4g, beyond 3 standard deviations of the mean (%.4g).", s.Min, s.Max, s.Mean),
			Severity:    SeverityLow,
			Column:      c.Name,
		})
	}
	return out
}

func distributionInsights(cols []ColumnInfo, num map[string]NumericStats) []Insight {
	var out []Insight
	for _, c := range cols {
		s, ok := num[c.Name]
		if !ok || math.Abs(s.Skewness) <= skewThreshold {
			continue
		}
		dir := "right"
		if s.Skewness < 0 {
			dir = "left"
		}
		out = append(out, Insight{
			Type:        InsightDistribution,
			Title:       fmt.Sprintf("Skewed distribution in %s", c.Name),
			Description: fmt.Sprintf("Column %q is %s-skewed (skewness %.2f).", c.Name, dir, s.Skewness),
			Severity:    SeverityLow,
			Column:      c.Name,
		})
	}
	return out
}

func groupingInsights(cols []ColumnInfo, cat map[string]CategoricalStats) []Insight {
	var out []Insight
	for _, c := range cols {
		s, ok := cat[c.Name]
		if !ok || s.UniqueCount <= 1 || s.UniqueCount >= groupingMaxUnique {
			continue
		}
		out = append(out, Insight{
			Type:        InsightRecommendation,
			Title:       fmt.Sprintf("%s is suitable for grouping", c.Name),
			Description: fmt.Sprintf("Column %q has %d distinct categories and can be used to segment the data.", c.Name, s.UniqueCount),
			Severity:    SeverityLow,
			Column:      c.Name,
		})
	}
	return out
}

// GenerateRecommendations emits at most six suggestions in fixed priority.
func GenerateRecommendations(res AnalysisResult) []string {
	out := []string{}
	var sparse []string
	for _, c := range res.Columns {
		if c.NullPercentage > highNullPct {
			sparse = append(sparse, c.Name)
		}
	}
	if len(sparse) > 0 {
		out = append(out, fmt.Sprintf("Address missing values in columns: %s", strings.Join(sparse, ", ")))
	}

	var lowCard []string
	for _, c := range res.Columns {
		if c.UniqueCount > 1 && float64(c.UniqueCount) < float64(res.Summary.TotalRows)*lowCardinalityRatio {
			lowCard = append(lowCard, c.Name)
		}
	}
	if len(lowCard) > 0 {
		if len(lowCard) > lowCardinalityNamed {
			lowCard = lowCard[:lowCardinalityNamed]
		}
		out = append(out, fmt.Sprintf("Use low-cardinality columns for grouping and segmentation: %s", strings.Join(lowCard, ", ")))
	}

	if len(res.NumericStats) > 1 {
		out = append(out, "Explore correlations between numeric columns for feature selection")
	}
	if res.Summary.DuplicateRows > 0 {
		out = append(out, fmt.Sprintf("Remove %d duplicate %s to improve data quality", res.Summary.DuplicateRows, plural(res.Summary.DuplicateRows, "row")))
	}
	if res.Summary.TotalRows > largeDatasetRows {
		out = append(out, "Consider sampling the dataset for faster exploratory analysis")
	}
	for _, in := range res.Insights {
		if in.Type == InsightAnomaly {
			out = append(out, "Investigate the outliers detected in numeric columns")
			break
		}
	}
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

// QualityScore is the mean over columns of (100 - null percentage); 0 when
// there are no columns.
func QualityScore(cols []ColumnInfo) float64 {
	if len(cols) == 0 {
		return 0
	}
	fill := make([]float64, len(cols))
	for i, c := range cols {
		fill[i] = 100 - c.NullPercentage
	}
	m, err := stats.Mean(fill)
	if err != nil {
		return 0
	}
	return m
}

// averageNullPercentage is the mean null percentage over columns; 0 when
// there are no columns.
func averageNullPercentage(cols []ColumnInfo) float64 {
	if len(cols) == 0 {
		return 0
	}
	pcts := make([]float64, len(cols))
	for i, c := range cols {
		pcts[i] = c.NullPercentage
	}
	m, err := stats.Mean(pcts)
	if err != nil {
		return 0
	}
	return m
}
