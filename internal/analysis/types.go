package analysis

// ColumnType is the inferred kind of a column.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeBoolean     ColumnType = "boolean"
	TypeDatetime    ColumnType = "datetime"
)

// ColumnInfo describes one column of the analysed dataset.
type ColumnInfo struct {
	Name           string     `json:"name" yaml:"name"`
	Type           ColumnType `json:"type" yaml:"type"`
	UniqueCount    int        `json:"unique_count" yaml:"unique_count"`
	NullCount      int        `json:"null_count" yaml:"null_count"`
	NullPercentage float64    `json:"null_percentage" yaml:"null_percentage"`
	SampleValues   []any      `json:"sample_values" yaml:"sample_values"`
}

// NumericStats holds population statistics over a numeric column.
// Quartiles and median use floor indexing without interpolation.
type NumericStats struct {
	Count    int     `json:"count" yaml:"count"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Median   float64 `json:"median" yaml:"median"`
	Mode     float64 `json:"mode" yaml:"mode"`
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	StdDev   float64 `json:"std_dev" yaml:"std_dev"`
	Variance float64 `json:"variance" yaml:"variance"`
	Range    float64 `json:"range" yaml:"range"`
	Q1       float64 `json:"q1" yaml:"q1"`
	Q3       float64 `json:"q3" yaml:"q3"`
	IQR      float64 `json:"iqr" yaml:"iqr"`
	Skewness float64 `json:"skewness" yaml:"skewness"`
	Kurtosis float64 `json:"kurtosis" yaml:"kurtosis"`
}

// Frequency is one entry of a categorical frequency table.
type Frequency struct {
	Value      string  `json:"value" yaml:"value"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// CategoricalStats summarises a categorical column.
type CategoricalStats struct {
	Frequencies   []Frequency `json:"frequencies" yaml:"frequencies"`
	UniqueCount   int         `json:"unique_count" yaml:"unique_count"`
	MostFrequent  string      `json:"most_frequent" yaml:"most_frequent"`
	LeastFrequent string      `json:"least_frequent" yaml:"least_frequent"`
}

// Strength bands for |r|.
const (
	StrengthWeak     = "weak"
	StrengthModerate = "moderate"
	StrengthStrong   = "strong"
)

// Correlation is the Pearson coefficient for an unordered column pair.
type Correlation struct {
	Column1     string  `json:"column1" yaml:"column1"`
	Column2     string  `json:"column2" yaml:"column2"`
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
	Strength    string  `json:"strength" yaml:"strength"`
	Direction   string  `json:"direction" yaml:"direction"`
	N           int     `json:"n" yaml:"n"`
}

// InsightType categorises a finding.
type InsightType string

const (
	InsightQuality        InsightType = "quality"
	InsightCorrelation    InsightType = "correlation"
	InsightAnomaly        InsightType = "anomaly"
	InsightDistribution   InsightType = "distribution"
	InsightRecommendation InsightType = "recommendation"
)

// Severity ranks insights; higher sorts first.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank maps a severity onto 1..3.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Insight is a human-readable finding.
type Insight struct {
	Type        InsightType `json:"type" yaml:"type"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Severity    Severity    `json:"severity" yaml:"severity"`
	Column      string      `json:"column,omitempty" yaml:"column,omitempty"`
}

// Summary is the dataset-wide block of an AnalysisResult.
type Summary struct {
	TotalRows         int     `json:"total_rows" yaml:"total_rows"`
	TotalColumns      int     `json:"total_columns" yaml:"total_columns"`
	MissingPercentage float64 `json:"missing_percentage" yaml:"missing_percentage"`
	DuplicateRows     int     `json:"duplicate_rows" yaml:"duplicate_rows"`
}

// AnalysisResult is everything Analyze derives from a dataset.
type AnalysisResult struct {
	Summary                   Summary                     `json:"summary" yaml:"summary"`
	Columns                   []ColumnInfo                `json:"columns" yaml:"columns"`
	NumericStats              map[string]NumericStats     `json:"numeric_stats" yaml:"numeric_stats"`
	CategoricalStats          map[string]CategoricalStats `json:"categorical_stats" yaml:"categorical_stats"`
	Correlations              []Correlation               `json:"correlations" yaml:"correlations"`
	CorrelationPairsEvaluated int                         `json:"correlation_pairs_evaluated" yaml:"correlation_pairs_evaluated"`
	Insights                  []Insight                   `json:"insights" yaml:"insights"`
	QualityScore              float64                     `json:"quality_score" yaml:"quality_score"`
	Recommendations           []string                    `json:"recommendations" yaml:"recommendations"`
}

// ColumnCount pairs a column with a count.
type ColumnCount struct {
	Column string `json:"column" yaml:"column"`
	Count  int    `json:"count" yaml:"count"`
}

// CleaningReport records what a cleaning run did. Counts are cumulative over
// the run; Actions holds one line per pass that changed the data.
type CleaningReport struct {
	OriginalRows         int           `json:"original_rows" yaml:"original_rows"`
	FinalRows            int           `json:"final_rows" yaml:"final_rows"`
	EmptyRowsRemoved     int           `json:"empty_rows_removed" yaml:"empty_rows_removed"`
	RemovedDuplicates    int           `json:"removed_duplicates" yaml:"removed_duplicates"`
	HandledMissingValues int           `json:"handled_missing_values" yaml:"handled_missing_values"`
	OutliersCapped       int           `json:"outliers_capped" yaml:"outliers_capped"`
	OutliersByColumn     []ColumnCount `json:"outliers_by_column,omitempty" yaml:"outliers_by_column,omitempty"`
	TypeCorrections      int           `json:"type_corrections" yaml:"type_corrections"`
	SparseRowsRemoved    int           `json:"sparse_rows_removed" yaml:"sparse_rows_removed"`
	Actions              []string      `json:"actions" yaml:"actions"`
}
