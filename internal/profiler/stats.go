package profiler

import (
	"math"
	"sort"
	"time"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
)

// ValueCount is one entry of a categorical frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnProfile summarizes one column. Type-conditional statistics are
// pointers/omitted fields: numeric summaries only for integer/float
// columns, timestamp range only for datetime, top_k only for
// string/boolean. A statistic that is undefined (all-null column, std with
// fewer than two samples) is omitted rather than zeroed.
type ColumnProfile struct {
	Name        string   `json:"name"`
	DType       DType    `json:"dtype"`
	NullCount   int      `json:"null_count"`
	UniqueCount int      `json:"unique_count"`
	Examples    []string `json:"examples"`

	Min  *float64 `json:"min,omitempty"`
	Mean *float64 `json:"mean,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Std  *float64 `json:"std,omitempty"`

	MinTS string `json:"min_ts,omitempty"`
	MaxTS string `json:"max_ts,omitempty"`

	TopK []ValueCount `json:"top_k,omitempty"`
}

// IsNumeric reports whether the column carries a numeric summary.
func (c *ColumnProfile) IsNumeric() bool {
	return c.DType == DTypeInteger || c.DType == DTypeFloat
}

// ProfileColumn computes the full statistics record for one column given
// its classified type. Pure; an empty or all-null column yields zero counts
// with every conditional statistic omitted.
func ProfileColumn(name string, values []dataset.Value, dtype DType, opts Options) ColumnProfile {
	opts = opts.withDefaults()

	profile := ColumnProfile{
		Name:     name,
		DType:    dtype,
		Examples: []string{},
	}

	seen := make(map[string]bool)
	for _, v := range values {
		if v.IsNull() {
			profile.NullCount++
			continue
		}
		if key := v.Key(); !seen[key] {
			seen[key] = true
			profile.UniqueCount++
			if len(profile.Examples) < opts.ExampleCount {
				profile.Examples = append(profile.Examples, v.String())
			}
		}
	}

	switch {
	case dtype == DTypeInteger || dtype == DTypeFloat:
		fillNumericStats(&profile, values)
	case dtype == DTypeDatetime:
		fillDatetimeStats(&profile, values)
	case dtype == DTypeString || dtype == DTypeBoolean:
		profile.TopK = topKValues(values, opts.TopK)
	}

	return profile
}

// fillNumericStats computes min, mean, max and the sample standard
// deviation (N-1 denominator), each rounded to 2 decimals. All fields stay
// nil when the column has no non-null values; std additionally requires at
// least two samples.
func fillNumericStats(profile *ColumnProfile, values []dataset.Value) {
	var nums []float64
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if f, ok := asFloat(v); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return
	}

	minV, maxV, sum := nums[0], nums[0], 0.0
	for _, f := range nums {
		if f < minV {
			minV = f
		}
		if f > maxV {
			maxV = f
		}
		sum += f
	}
	mean := sum / float64(len(nums))

	profile.Min = ptr(round2(minV))
	profile.Max = ptr(round2(maxV))
	profile.Mean = ptr(round2(mean))

	if len(nums) >= 2 {
		var ss float64
		for _, f := range nums {
			d := f - mean
			ss += d * d
		}
		profile.Std = ptr(round2(math.Sqrt(ss / float64(len(nums)-1))))
	}
}

func fillDatetimeStats(profile *ColumnProfile, values []dataset.Value) {
	var minT, maxT time.Time
	found := false
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		ts, ok := asTime(v)
		if !ok {
			continue
		}
		if !found {
			minT, maxT = ts, ts
			found = true
			continue
		}
		if ts.Before(minT) {
			minT = ts
		}
		if ts.After(maxT) {
			maxT = ts
		}
	}
	if !found {
		return
	}
	profile.MinTS = minT.UTC().Format(dataset.TimestampLayout)
	profile.MaxTS = maxT.UTC().Format(dataset.TimestampLayout)
}

// topKValues builds the K most frequent non-null values. Ordering is by
// descending count; count ties keep first-appearance order, so the result
// is deterministic for a given column.
func topKValues(values []dataset.Value, k int) []ValueCount {
	counts := make(map[string]int)
	labels := make(map[string]string)
	var order []string
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		key := v.Key()
		if counts[key] == 0 {
			order = append(order, key)
			labels[key] = v.String()
		}
		counts[key]++
	}
	if len(order) == 0 {
		return nil
	}

	entries := make([]ValueCount, len(order))
	for i, key := range order {
		entries[i] = ValueCount{Value: labels[key], Count: counts[key]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > k {
		entries = entries[:k]
	}
	return entries
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func ptr(f float64) *float64 { return &f }
