package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabclean/internal/analysis"
	"github.com/KaramelBytes/tabclean/internal/dataset"
)

const (
	maxTopValues    = 5
	maxCorrelations = 10
	maxCellWidth    = 80
)

// Markdown renders a compact bracketed report for one analysed dataset. ds is
// the dataset the result was computed on; cleaning may be nil.
func Markdown(ds *dataset.Dataset, cleaning *analysis.CleaningReport, res analysis.AnalysisResult, sampleRows int) string {
	var b strings.Builder
	writeSummary(&b, ds, res)
	if cleaning != nil {
		writeCleaning(&b, cleaning)
	}
	writeSchema(&b, res)
	writeNumeric(&b, res)
	writeCategorical(&b, res)
	writeCorrelations(&b, res)
	if len(res.Insights) > 0 {
		b.WriteString("\n[INSIGHTS]\n")
		for _, in := range res.Insights {
			b.WriteString(fmt.Sprintf("- [%s] %s: %s\n", strings.ToUpper(string(in.Severity)), in.Title, in.Description))
		}
	}
	if len(res.Recommendations) > 0 {
		b.WriteString("\n[RECOMMENDATIONS]\n")
		for _, r := range res.Recommendations {
			b.WriteString("- " + r + "\n")
		}
	}
	writeSamples(&b, ds, sampleRows)
	return b.String()
}

func writeSummary(b *strings.Builder, ds *dataset.Dataset, res analysis.AnalysisResult) {
	b.WriteString("[DATASET SUMMARY]\n")
	if ds != nil && ds.Meta.FileName != "" {
		if ds.Meta.Size != "" {
			b.WriteString(fmt.Sprintf("File: %s (%s)\n", ds.Meta.FileName, ds.Meta.Size))
		} else {
			b.WriteString(fmt.Sprintf("File: %s\n", ds.Meta.FileName))
		}
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", res.Summary.TotalRows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", res.Summary.TotalColumns))
	b.WriteString(fmt.Sprintf("Missing: %.1f%%\n", res.Summary.MissingPercentage))
	b.WriteString(fmt.Sprintf("Duplicate rows: %d\n", res.Summary.DuplicateRows))
	b.WriteString(fmt.Sprintf("Quality score: %.1f/100\n", res.QualityScore))
}

func writeCleaning(b *strings.Builder, c *analysis.CleaningReport) {
	b.WriteString("\n[CLEANING]\n")
	b.WriteString(fmt.Sprintf("Rows: %d -> %d\n", c.OriginalRows, c.FinalRows))
	if len(c.Actions) == 0 {
		b.WriteString("- No changes needed\n")
		return
	}
	for _, a := range c.Actions {
		b.WriteString("- " + a + "\n")
	}
}

func writeSchema(b *strings.Builder, res analysis.AnalysisResult) {
	b.WriteString("\n[SCHEMA]\n")
	if len(res.Columns) == 0 {
		b.WriteString("(no columns)\n")
		return
	}
	for _, c := range res.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s (unique %d, missing %d, %.1f%%)",
			safeName(c.Name), c.Type, c.UniqueCount, c.NullCount, c.NullPercentage))
		if len(c.SampleValues) > 0 {
			b.WriteString("; e.g., ")
			for i, v := range c.SampleValues {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(fmt.Sprint(v)))
			}
		}
		b.WriteString("\n")
	}
}

func writeNumeric(b *strings.Builder, res analysis.AnalysisResult) {
	if len(res.NumericStats) == 0 {
		return
	}
	b.WriteString("\n[NUMERIC STATISTICS]\n")
	for _, c := range res.Columns {
		s, ok := res.NumericStats[c.Name]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s (n=%d): mean %.4g, median %.4g, mode %.4g, std %.4g, min %.4g, max %.4g, q1 %.4g, q3 %.4g, skew %.3f, kurtosis %.3f\n",
			safeName(c.Name), s.Count, s.Mean, s.Median, s.Mode, s.StdDev, s.Min, s.Max, s.Q1, s.Q3, s.Skewness, s.Kurtosis))
	}
}

func writeCategorical(b *strings.Builder, res analysis.AnalysisResult) {
	if len(res.CategoricalStats) == 0 {
		return
	}
	b.WriteString("\n[CATEGORICAL STATISTICS]\n")
	for _, c := range res.Columns {
		s, ok := res.CategoricalStats[c.Name]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: unique=%d; top: ", safeName(c.Name), s.UniqueCount))
		lim := min(maxTopValues, len(s.Frequencies))
		for i := 0; i < lim; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			f := s.Frequencies[i]
			b.WriteString(fmt.Sprintf("%s(%d, %.1f%%)", safeVal(f.Value), f.Count, f.Percentage))
		}
		b.WriteString("\n")
	}
}

func writeCorrelations(b *strings.Builder, res analysis.AnalysisResult) {
	if len(res.Correlations) == 0 {
		return
	}
	b.WriteString("\n[CORRELATIONS]\n")
	lim := min(maxCorrelations, len(res.Correlations))
	for _, c := range res.Correlations[:lim] {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f (%s %s, n=%d)\n",
			c.Column1, c.Column2, c.Coefficient, c.Strength, c.Direction, c.N))
	}
	if len(res.Correlations) > lim {
		b.WriteString(fmt.Sprintf("(%d more not shown)\n", len(res.Correlations)-lim))
	}
}

func writeSamples(b *strings.Builder, ds *dataset.Dataset, n int) {
	if ds == nil || n <= 0 || ds.RowCount() == 0 || len(ds.Columns) == 0 {
		return
	}
	b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
	b.WriteString("| ")
	for i, c := range ds.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(c))
	}
	b.WriteString(" |\n| ")
	for i := range ds.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range ds.Rows[:min(n, ds.RowCount())] {
		b.WriteString("| ")
		for i, c := range ds.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := row.Get(c).String()
			if len(val) > maxCellWidth {
				val = val[:maxCellWidth-3] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
