package analysis

import (
	"sort"

	"github.com/KaramelBytes/tabclean/internal/dataset"
)

// Analyze profiles every column, computes statistics and correlations, and
// derives insights, recommendations and a quality score. Column types are
// inferred afresh and may differ from those Clean used.
func Analyze(ds *dataset.Dataset) AnalysisResult {
	if ds == nil {
		ds = &dataset.Dataset{}
	}
	res := AnalysisResult{
		Columns:          make([]ColumnInfo, 0, len(ds.Columns)),
		NumericStats:     map[string]NumericStats{},
		CategoricalStats: map[string]CategoricalStats{},
	}

	var numericCols []string
	for _, col := range ds.Columns {
		info := ProfileColumn(ds, col)
		res.Columns = append(res.Columns, info)
		switch info.Type {
		case TypeNumeric:
			if s, ok := ComputeNumericStats(numericValues(presentValues(ds, col))); ok {
				res.NumericStats[col] = s
				numericCols = append(numericCols, col)
			}
		case TypeCategorical:
			if s, ok := ComputeCategoricalStats(presentValues(ds, col)); ok {
				res.CategoricalStats[col] = s
			}
		}
	}

	res.Summary = Summary{
		TotalRows:         ds.RowCount(),
		TotalColumns:      len(ds.Columns),
		MissingPercentage: averageNullPercentage(res.Columns),
		DuplicateRows:     CountDuplicateRows(ds),
	}
	res.Correlations, res.CorrelationPairsEvaluated = Correlate(ds, numericCols)
	res.Insights = GenerateInsights(res)
	res.QualityScore = QualityScore(res.Columns)
	res.Recommendations = GenerateRecommendations(res)
	return res
}

// CountDuplicateRows counts rows whose canonical form was already seen.
func CountDuplicateRows(ds *dataset.Dataset) int {
	keyCols := append([]string(nil), ds.Columns...)
	sort.Strings(keyCols)
	seen := make(map[string]struct{}, len(ds.Rows))
	dups := 0
	for _, r := range ds.Rows {
		k := rowKey(r, keyCols)
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

// Outcome bundles one cleaning run and the analysis that followed it.
type Outcome struct {
	Cleaned         *dataset.Dataset
	Cleaning        CleaningReport
	AnalyzedCleaned bool
	Result          AnalysisResult
}

// Process cleans ds and analyses either the cleaned or the raw dataset.
func Process(ds *dataset.Dataset, useCleaned bool) Outcome {
	cleaned, rep := Clean(ds)
	target := ds
	if useCleaned {
		target = cleaned
	}
	return Outcome{
		Cleaned:         cleaned,
		Cleaning:        rep,
		AnalyzedCleaned: useCleaned,
		Result:          Analyze(target),
	}
}
