package profiler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/dataset-quiz-engine/internal/dataset"
)

func buildTable(t *testing.T, columns []dataset.Column) *dataset.Table {
	t.Helper()
	tbl, err := dataset.New(columns)
	require.NoError(t, err)
	return tbl
}

func TestProfileScenario(t *testing.T) {
	tbl := buildTable(t, []dataset.Column{
		{Name: "age", Values: []dataset.Value{
			dataset.IntValue(25), dataset.IntValue(30), dataset.Null(), dataset.IntValue(40),
		}},
		{Name: "city", Values: []dataset.Value{
			dataset.StringValue("NY"), dataset.StringValue("LA"), dataset.StringValue("NY"), dataset.StringValue("SF"),
		}},
	})

	p := Profile(tbl)

	assert.Equal(t, 4, p.NRows)
	assert.Equal(t, 2, p.NCols)
	assert.Equal(t, tbl.Fingerprint(), p.ContentHash)
	require.Len(t, p.Columns, 2)

	age := p.Column("age")
	require.NotNil(t, age)
	assert.Equal(t, DTypeInteger, age.DType)
	assert.Equal(t, 1, age.NullCount)
	assert.Equal(t, 3, age.UniqueCount)
	assert.Equal(t, 25.0, *age.Min)
	assert.Equal(t, 40.0, *age.Max)
	assert.Equal(t, 31.67, *age.Mean)

	city := p.Column("city")
	require.NotNil(t, city)
	assert.Equal(t, DTypeString, city.DType)
	assert.Equal(t, 3, city.UniqueCount)
	assert.Equal(t, []ValueCount{{"NY", 2}, {"LA", 1}, {"SF", 1}}, city.TopK)

	assert.True(t, p.Features.HasNumeric)
	assert.True(t, p.Features.HasCategorical)
	assert.False(t, p.Features.HasDatetime)
}

func TestProfileDeterministic(t *testing.T) {
	build := func() *DatasetProfile {
		tbl := buildTable(t, []dataset.Column{
			{Name: "a", Values: []dataset.Value{dataset.IntValue(1), dataset.IntValue(2), dataset.IntValue(3)}},
			{Name: "b", Values: []dataset.Value{dataset.StringValue("x"), dataset.StringValue("y"), dataset.StringValue("x")}},
		})
		return Profile(tbl)
	}
	assert.Equal(t, build(), build())
}

func TestProfileEmptyTable(t *testing.T) {
	p := Profile(buildTable(t, nil))
	assert.Equal(t, 0, p.NRows)
	assert.Equal(t, 0, p.NCols)
	assert.Empty(t, p.Columns)
	assert.Empty(t, p.Features.PivotCandidates)
	assert.Empty(t, p.Features.WideToLongCandidates)
}

func TestProfileCountInvariants(t *testing.T) {
	tbl := buildTable(t, []dataset.Column{
		{Name: "a", Values: []dataset.Value{dataset.Null(), dataset.IntValue(1), dataset.IntValue(1)}},
		{Name: "b", Values: []dataset.Value{dataset.StringValue("x"), dataset.Null(), dataset.Null()}},
	})
	p := Profile(tbl)

	totalNulls := 0
	for _, col := range p.Columns {
		totalNulls += col.NullCount
		assert.LessOrEqual(t, col.UniqueCount, p.NRows-col.NullCount, "column %s", col.Name)
	}
	assert.LessOrEqual(t, totalNulls, p.NRows*p.NCols)
}

func TestPivotCandidates(t *testing.T) {
	tbl := buildTable(t, []dataset.Column{
		{Name: "color", Values: []dataset.Value{dataset.StringValue("red"), dataset.StringValue("blue"), dataset.StringValue("red")}},
		{Name: "size", Values: []dataset.Value{dataset.StringValue("S"), dataset.StringValue("M"), dataset.StringValue("L")}},
		{Name: "n", Values: []dataset.Value{dataset.IntValue(1), dataset.IntValue(2), dataset.IntValue(3)}},
		{Name: "constant", Values: []dataset.Value{dataset.StringValue("only"), dataset.StringValue("only"), dataset.StringValue("only")}},
	})
	p := Profile(tbl)

	// "constant" has unique_count 1 and "n" is numeric: neither pairs.
	require.Equal(t, [][2]string{{"color", "size"}}, p.Features.PivotCandidates)
}

func TestPivotCandidatesBounded(t *testing.T) {
	var cols []dataset.Column
	for _, name := range []string{"c1", "c2", "c3", "c4", "c5", "c6"} {
		cols = append(cols, dataset.Column{Name: name, Values: []dataset.Value{
			dataset.StringValue("a"), dataset.StringValue("b"),
		}})
	}
	p := Profile(buildTable(t, cols))
	assert.Len(t, p.Features.PivotCandidates, DefaultOptions.MaxPivotPairs)
}

func TestWideToLongCandidates(t *testing.T) {
	tbl := buildTable(t, []dataset.Column{
		{Name: "sales_2020", Values: []dataset.Value{dataset.IntValue(1)}},
		{Name: "sales_2021", Values: []dataset.Value{dataset.IntValue(2)}},
		{Name: "region", Values: []dataset.Value{dataset.StringValue("EU")}},
	})
	p := Profile(tbl)
	require.Equal(t, [][]string{{"sales_2020", "sales_2021"}}, p.Features.WideToLongCandidates)
}

func TestCacheGetOrCompute(t *testing.T) {
	cache := NewCache()
	tbl := buildTable(t, []dataset.Column{
		{Name: "a", Values: []dataset.Value{dataset.IntValue(1)}},
	})

	computed := 0
	compute := func() *DatasetProfile {
		computed++
		return Profile(tbl)
	}

	first := cache.GetOrCompute(tbl.Fingerprint(), compute)
	second := cache.GetOrCompute(tbl.Fingerprint(), compute)

	assert.Same(t, first, second)
	assert.Equal(t, 1, computed)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache()
	tbl := buildTable(t, []dataset.Column{
		{Name: "a", Values: []dataset.Value{dataset.IntValue(1), dataset.IntValue(2)}},
	})
	key := tbl.Fingerprint()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := cache.GetOrCompute(key, func() *DatasetProfile { return Profile(tbl) })
			assert.Equal(t, 1, p.NCols)
		}()
	}
	wg.Wait()

	got, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, 2, got.NRows)
}
