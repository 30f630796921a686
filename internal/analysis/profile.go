package analysis

import (
	"sort"

	"github.com/KaramelBytes/tabclean/internal/dataset"
)

const maxSampleValues = 5

// counter is a frequency table that remembers first-insertion order, so
// ties between equal counts resolve to the earliest-seen value.
type counter struct {
	index  map[string]int
	values []dataset.Value
	counts []int
}

func newCounter() *counter { return &counter{index: map[string]int{}} }

func (c *counter) add(v dataset.Value) {
	k := v.Key()
	if i, ok := c.index[k]; ok {
		c.counts[i]++
		return
	}
	c.index[k] = len(c.values)
	c.values = append(c.values, v)
	c.counts = append(c.counts, 1)
}

func (c *counter) len() int { return len(c.values) }

// mode returns the highest-count value; the first inserted wins ties.
func (c *counter) mode() (dataset.Value, bool) {
	best := -1
	for i, n := range c.counts {
		if best < 0 || n > c.counts[best] {
			best = i
		}
	}
	if best < 0 {
		return dataset.Null(), false
	}
	return c.values[best], true
}

// sorted returns indices ordered by descending count, stable on insertion.
func (c *counter) sorted() []int {
	idx := make([]int, len(c.values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return c.counts[idx[a]] > c.counts[idx[b]] })
	return idx
}

// ProfileColumn computes the report-path descriptor of one column.
func ProfileColumn(ds *dataset.Dataset, col string) ColumnInfo {
	vals := presentValues(ds, col)
	uniq := newCounter()
	samples := make([]any, 0, maxSampleValues)
	for _, v := range vals {
		uniq.add(v)
		if len(samples) < maxSampleValues {
			samples = append(samples, v.Interface())
		}
	}
	total := ds.RowCount()
	nulls := total - len(vals)
	pct := 0.0
	if total > 0 {
		pct = float64(nulls) / float64(total) * 100
	}
	return ColumnInfo{
		Name:           col,
		Type:           ClassifyForReport(vals),
		UniqueCount:    uniq.len(),
		NullCount:      nulls,
		NullPercentage: pct,
		SampleValues:   samples,
	}
}

// cleaningProfile carries what the cleaning passes need for one column.
type cleaningProfile struct {
	Type      ColumnType
	Observed  int // non-missing numeric readings (numeric) or cells (others)
	Median    float64
	Q1, Q3    float64
	HasMedian bool
	Mode      dataset.Value
	HasMode   bool
}

func profileForCleaning(ds *dataset.Dataset, col string) cleaningProfile {
	vals := presentValues(ds, col)
	p := cleaningProfile{Type: ClassifyForCleaning(vals)}
	if p.Type == TypeNumeric {
		nums := numericValues(vals)
		p.Observed = len(nums)
		if len(nums) > 0 {
			sort.Float64s(nums)
			p.Median = nums[len(nums)/2]
			p.Q1, p.Q3 = quartiles(nums)
			p.HasMedian = true
		}
		return p
	}
	p.Observed = len(vals)
	c := newCounter()
	for _, v := range vals {
		c.add(v)
	}
	p.Mode, p.HasMode = c.mode()
	return p
}

// quartiles indexes an ascending slice at floor(n*0.25) and floor(n*0.75).
func quartiles(sorted []float64) (q1, q3 float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0
	}
	return sorted[int(float64(n)*0.25)], sorted[int(float64(n)*0.75)]
}
